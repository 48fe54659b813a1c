package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

const orderColumns = `id,user_id,status,subtotal,courier_charges,total_amount,delivery_address,pincode,phone,state,items_json,created_at`

// Commit writes the order, empties the owner's cart and enqueues the outbox message in one transaction.
func (r *MySQLOrderRepo) Commit(ctx context.Context, o *domain.Order, msg usecase.OutboxMessage) error {
	items, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshal order lines: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dbErr("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO orders (`+orderColumns+`,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.UserID, string(o.Status), o.Subtotal, o.CourierCharges, o.TotalAmount,
		o.Address, o.Pincode, o.Phone, o.Region, items, o.CreatedAt, o.CreatedAt,
	); err != nil {
		return dbErr("insert order", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id=?`, o.UserID); err != nil {
		return dbErr("clear cart", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO outbox (channel,payload,status,retry_count,next_attempt_at,created_at)
VALUES (?, ?, 'PENDING', 0, NOW(6), NOW(6))`, msg.Channel, msg.Payload); err != nil {
		return dbErr("insert outbox", err)
	}

	return dbErr("commit", tx.Commit())
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderColumns+`
FROM orders WHERE user_id=? ORDER BY created_at DESC, id ASC`, userID)
	if err != nil {
		return nil, dbErr("list orders", err)
	}
	defer rows.Close()

	out := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, dbErr("list orders", rows.Err())
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=?`, id)
	return scanOrder(row)
}

func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, updated_at = NOW(6)
        WHERE id = ? AND status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		return false, dbErr("update status", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, dbErr("update status", err)
	}

	// rows == 0 → nothing matched (either not found or status mismatch)
	return rows > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
		items  []byte
	)
	if err := s.Scan(&o.ID, &o.UserID, &status, &o.Subtotal, &o.CourierCharges, &o.TotalAmount,
		&o.Address, &o.Pincode, &o.Phone, &o.Region, &items, &o.CreatedAt); err != nil {
		return nil, dbErr("scan order", err)
	}
	o.Status = domain.Status(status)
	if err := json.Unmarshal(items, &o.Lines); err != nil {
		return nil, fmt.Errorf("order %s: decode lines: %w", o.ID, err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	return &o, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
