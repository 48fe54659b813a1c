package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/aq2208/gorder-storefront/internal/usecase"
)

type MySQLOutboxRepo struct{ db *sql.DB }

func NewMySQLOutboxRepo(db *sql.DB) *MySQLOutboxRepo { return &MySQLOutboxRepo{db: db} }

func (r *MySQLOutboxRepo) FetchPending(ctx context.Context, limit int) ([]usecase.OutboxRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,channel,payload,retry_count
FROM outbox
WHERE status='PENDING' AND next_attempt_at <= NOW(6)
ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, dbErr("fetch outbox", err)
	}
	defer rows.Close()

	var out []usecase.OutboxRecord
	for rows.Next() {
		var rec usecase.OutboxRecord
		if err := rows.Scan(&rec.ID, &rec.Channel, &rec.Payload, &rec.RetryCount); err != nil {
			return nil, dbErr("scan outbox", err)
		}
		out = append(out, rec)
	}
	return out, dbErr("fetch outbox", rows.Err())
}

func (r *MySQLOutboxRepo) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE outbox SET status='SENT' WHERE id=?`, id)
	return dbErr("mark sent", err)
}

func (r *MySQLOutboxRepo) MarkFailed(ctx context.Context, id int64, nextAttempt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE outbox SET retry_count = retry_count + 1, next_attempt_at = ?
WHERE id=?`, nextAttempt, id)
	return dbErr("mark failed", err)
}

var _ usecase.OutboxRepo = (*MySQLOutboxRepo)(nil)
