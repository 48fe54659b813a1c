package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/google/uuid"
)

type LoginOutput struct {
	User         domain.User `json:"user"`
	SessionToken string      `json:"session_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

// Auth exchanges identity-provider session ids for storefront sessions.
type Auth struct {
	idp      IdentityProvider
	users    UserRepo
	sessions SessionStore
	tokens   TokenCodec
	ttl      time.Duration
	now      Clock
}

func NewAuth(idp IdentityProvider, users UserRepo, sessions SessionStore, tokens TokenCodec, ttl time.Duration, now Clock) *Auth {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &Auth{idp: idp, users: users, sessions: sessions, tokens: tokens, ttl: ttl, now: now}
}

func (a *Auth) Login(ctx context.Context, sessionID string) (LoginOutput, error) {
	if strings.TrimSpace(sessionID) == "" {
		return LoginOutput{}, fmt.Errorf("%w: session id required", domain.ErrUnauthenticated)
	}
	profile, err := a.idp.SessionData(ctx, sessionID)
	if err != nil {
		return LoginOutput{}, err
	}
	if profile.Email == "" {
		return LoginOutput{}, fmt.Errorf("%w: identity provider returned no email", domain.ErrUnauthenticated)
	}

	user, err := a.upsertUser(ctx, profile)
	if err != nil {
		return LoginOutput{}, err
	}

	now := a.now().UTC()
	sess := domain.Session{ID: uuid.NewString(), UserID: user.ID, ExpiresAt: now.Add(a.ttl)}
	if err := a.sessions.Put(ctx, sess); err != nil {
		return LoginOutput{}, err
	}
	token, err := a.tokens.Issue(sess)
	if err != nil {
		return LoginOutput{}, fmt.Errorf("issue session token: %w", err)
	}
	return LoginOutput{User: *user, SessionToken: token, ExpiresAt: sess.ExpiresAt}, nil
}

func (a *Auth) upsertUser(ctx context.Context, p IdentityProfile) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	existing, err := a.users.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	u := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      p.Name,
		Picture:   p.Picture,
		CreatedAt: a.now().UTC(),
	}
	if err := a.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate resolves a session token to its user id.
func (a *Auth) Authenticate(ctx context.Context, token string) (string, error) {
	sid, uid, err := a.tokens.Parse(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	sess, ok, err := a.sessions.Get(ctx, sid)
	if err != nil {
		return "", err
	}
	if !ok || sess.UserID != uid || sess.Expired(a.now()) {
		return "", fmt.Errorf("%w: session expired or revoked", domain.ErrUnauthenticated)
	}
	return sess.UserID, nil
}

func (a *Auth) Profile(ctx context.Context, userID string) (*domain.User, error) {
	u, err := a.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthenticated)
	}
	return u, err
}

func (a *Auth) Logout(ctx context.Context, token string) error {
	sid, _, err := a.tokens.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	return a.sessions.Delete(ctx, sid)
}
