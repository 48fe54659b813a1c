package repo

import (
	"context"
	"database/sql"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

func (r *MySQLUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.one(ctx, `SELECT id,email,name,picture,created_at FROM users WHERE id=?`, id)
}

func (r *MySQLUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.one(ctx, `SELECT id,email,name,picture,created_at FROM users WHERE email=?`, email)
}

func (r *MySQLUserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id,email,name,picture,created_at) VALUES (?,?,?,?,?)`,
		u.ID, u.Email, u.Name, u.Picture, u.CreatedAt)
	return dbErr("insert user", err)
}

func (r *MySQLUserRepo) one(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt); err != nil {
		return nil, dbErr("get user", err)
	}
	return &u, nil
}

var _ usecase.UserRepo = (*MySQLUserRepo)(nil)
