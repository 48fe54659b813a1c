package repo

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

type MySQLCartRepo struct{ db *sql.DB }

func NewMySQLCartRepo(db *sql.DB) *MySQLCartRepo { return &MySQLCartRepo{db: db} }

func (r *MySQLCartRepo) Load(ctx context.Context, userID string) (domain.Cart, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT menu_item_id, quantity_kg, unit_price, updated_at
FROM cart_lines WHERE user_id=? ORDER BY position`, userID)
	if err != nil {
		return domain.Cart{}, dbErr("load cart", err)
	}
	defer rows.Close()

	cart := domain.NewCart(userID)
	for rows.Next() {
		var (
			l  domain.CartLine
			at time.Time
		)
		if err := rows.Scan(&l.MenuItemID, &l.Quantity, &l.UnitPrice, &at); err != nil {
			return domain.Cart{}, dbErr("scan cart line", err)
		}
		cart.Lines = append(cart.Lines, l)
		if at.After(cart.UpdatedAt) {
			cart.UpdatedAt = at
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, dbErr("load cart", err)
	}
	cart.Subtotal = domain.SumLines(cart.Lines)
	return cart, nil
}

// Save replaces the stored lines with cart's lines.
func (r *MySQLCartRepo) Save(ctx context.Context, cart domain.Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dbErr("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceCartLines(ctx, tx, cart); err != nil {
		return err
	}
	return dbErr("commit", tx.Commit())
}

func replaceCartLines(ctx context.Context, tx *sql.Tx, cart domain.Cart) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id=?`, cart.UserID); err != nil {
		return dbErr("clear cart", err)
	}
	at := cart.UpdatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	for i, l := range cart.Lines {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO cart_lines (user_id,menu_item_id,position,quantity_kg,unit_price,updated_at)
VALUES (?,?,?,?,?,?)`, cart.UserID, l.MenuItemID, i, l.Quantity, l.UnitPrice, at); err != nil {
			return dbErr("insert cart line", err)
		}
	}
	return nil
}

var _ usecase.CartRepo = (*MySQLCartRepo)(nil)
