package security

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/golang-jwt/jwt/v5"
)

var ErrWeakSecret = errors.New("jwt secret must be at least 16 bytes")

// SessionTokens signs storefront sessions as HS256 JWTs.
type SessionTokens struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewSessionTokens(secret, issuer, audience string, now func() time.Time) (*SessionTokens, error) {
	if len(secret) < 16 {
		return nil, ErrWeakSecret
	}
	if now == nil {
		now = time.Now
	}
	return &SessionTokens{secret: []byte(secret), issuer: issuer, audience: audience, now: now}, nil
}

func (t *SessionTokens) Issue(s domain.Session) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"iss": t.issuer,
		"aud": t.audience,
		"sub": s.UserID,
		"jti": s.ID,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": s.ExpiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *SessionTokens) Parse(raw string) (string, string, error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	},
		jwt.WithLeeway(30*time.Second), // small clock skew
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("claims parsing error")
	}
	sid, _ := claims["jti"].(string)
	uid, _ := claims["sub"].(string)
	if sid == "" || uid == "" {
		return "", "", fmt.Errorf("token missing jti or sub")
	}
	return sid, uid, nil
}

var _ usecase.TokenCodec = (*SessionTokens)(nil)
