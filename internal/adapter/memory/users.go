package memory

import (
	"context"
	"strings"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

// Users is a view of Store satisfying usecase.UserRepo. Its GetByID would clash with orders.
type Users struct{ s *Store }

func (s *Store) Users() Users { return Users{s: s} }

func (u Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	usr, ok := u.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &usr, nil
}

func (u Users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, usr := range u.s.users {
		if strings.EqualFold(usr.Email, email) {
			found := usr
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (u Users) Create(_ context.Context, usr *domain.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	u.s.users[usr.ID] = *usr
	return nil
}

var _ usecase.UserRepo = Users{}
