package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/aq2208/gorder-storefront/internal/adapter/observ"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

// Relay drains pending outbox rows to the broker. Delivery is at-least-once:
// a crash between Publish and MarkSent republishes the message.
type Relay struct {
	repo      usecase.OutboxRepo
	pub       usecase.Publisher
	log       *slog.Logger
	interval  time.Duration
	batch     int
	baseDelay time.Duration
	maxDelay  time.Duration
	now       func() time.Time
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option { return func(r *Relay) { r.interval = d } }
func WithBatch(n int) Option              { return func(r *Relay) { r.batch = n } }
func WithBackoff(base, max time.Duration) Option {
	return func(r *Relay) { r.baseDelay, r.maxDelay = base, max }
}
func WithClock(now func() time.Time) Option { return func(r *Relay) { r.now = now } }

// NewRelay defaults: interval=1s, batch=100, backoff 1s doubling up to 5m.
func NewRelay(repo usecase.OutboxRepo, pub usecase.Publisher, log *slog.Logger, opts ...Option) *Relay {
	r := &Relay{
		repo:      repo,
		pub:       pub,
		log:       log,
		interval:  time.Second,
		batch:     100,
		baseDelay: time.Second,
		maxDelay:  5 * time.Minute,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.interval <= 0 {
		r.interval = time.Second
	}
	if r.batch <= 0 {
		r.batch = 100
	}
	return r
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		if _, err := r.DrainOnce(ctx); err != nil && ctx.Err() == nil {
			r.log.Warn("outbox drain", "err", err)
		}
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return
		case <-t.C:
		}
	}
}

// DrainOnce publishes one batch and reports how many messages were sent.
func (r *Relay) DrainOnce(ctx context.Context) (int, error) {
	recs, err := r.repo.FetchPending(ctx, r.batch)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, rec := range recs {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		err := r.pub.Publish(ctx, rec.Channel, rec.Payload)
		observ.OutboxRelayed.WithLabelValues(rec.Channel, observ.Result(err)).Inc()
		if err != nil {
			next := r.now().Add(r.backoff(rec.RetryCount))
			r.log.Warn("outbox publish failed", "id", rec.ID, "channel", rec.Channel, "retry", rec.RetryCount, "next_attempt", next, "err", err)
			if mErr := r.repo.MarkFailed(ctx, rec.ID, next); mErr != nil {
				return sent, mErr
			}
			continue
		}
		if err := r.repo.MarkSent(ctx, rec.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (r *Relay) backoff(retry int) time.Duration {
	d := r.baseDelay
	for i := 0; i < retry && d < r.maxDelay; i++ {
		d *= 2
	}
	if d > r.maxDelay {
		d = r.maxDelay
	}
	return d
}
