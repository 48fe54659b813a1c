package usecase

import (
	"context"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
)

// Clock is injected so checkout timestamps are deterministic in tests.
type Clock func() time.Time

type CatalogSource interface {
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
}

// CartRepo returns an empty cart (not an error) for users that have none.
type CartRepo interface {
	Load(ctx context.Context, userID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
}

// OutboxMessage is written in the same transaction as the order it describes.
type OutboxMessage struct {
	Channel string
	Payload []byte
}

type OutboxRecord struct {
	ID         int64
	Channel    string
	Payload    []byte
	RetryCount int
}

type OrderRepo interface {
	// Commit inserts the order, clears the owner's cart and appends the outbox message
	// as one unit: either all three happen or none do.
	Commit(ctx context.Context, o *domain.Order, msg OutboxMessage) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error)
}

type OutboxRepo interface {
	FetchPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, nextAttempt time.Time) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
	Release(ctx context.Context, scope, key string) error
}

type StatusCache interface {
	SetStatus(ctx context.Context, orderID string, status string) error
	GetStatus(ctx context.Context, orderID string) (string, bool, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type SessionStore interface {
	Put(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, bool, error)
	Delete(ctx context.Context, id string) error
}

// IdentityProfile is what the external identity provider reports for a session id.
type IdentityProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type IdentityProvider interface {
	SessionData(ctx context.Context, sessionID string) (IdentityProfile, error)
}

// TokenCodec turns a session into the opaque credential handed to clients and back.
type TokenCodec interface {
	Issue(s domain.Session) (string, error)
	Parse(token string) (sessionID, userID string, err error)
}

type Publisher interface {
	Publish(ctx context.Context, channel string, body []byte) error
}

type FulfillmentGateway interface {
	SubmitOrder(ctx context.Context, msg OrderPlacedMsg) error
}
