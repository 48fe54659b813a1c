package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

// Identity is a fixed session-id -> profile table, used when no identity provider is configured.
type Identity struct {
	mu       sync.Mutex
	profiles map[string]usecase.IdentityProfile
}

func NewIdentity(profiles map[string]usecase.IdentityProfile) *Identity {
	m := make(map[string]usecase.IdentityProfile, len(profiles))
	for k, v := range profiles {
		m[k] = v
	}
	return &Identity{profiles: m}
}

func (i *Identity) SessionData(_ context.Context, sessionID string) (usecase.IdentityProfile, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	p, ok := i.profiles[sessionID]
	if !ok {
		return usecase.IdentityProfile{}, fmt.Errorf("%w: unknown session id", domain.ErrUnauthenticated)
	}
	return p, nil
}

var _ usecase.IdentityProvider = (*Identity)(nil)
