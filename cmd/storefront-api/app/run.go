package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aq2208/gorder-storefront/configs"
	"github.com/aq2208/gorder-storefront/internal/adapter/grpc"
	"github.com/aq2208/gorder-storefront/internal/adapter/kafka"
	"github.com/aq2208/gorder-storefront/internal/adapter/observ"
	"github.com/aq2208/gorder-storefront/internal/adapter/outbox"
	"github.com/aq2208/gorder-storefront/internal/adapter/queue"
	"github.com/aq2208/gorder-storefront/internal/bootstrap"
	"github.com/aq2208/gorder-storefront/internal/logging"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// Run serves the API and its background workers until ctx is cancelled.
func Run(ctx context.Context, cfg configs.Config) error {
	l := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)
	tp := observ.InitTracing(l, cfg.Tracing.SampleRatio)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		observ.ShutdownTracing(sctx, l, tp)
	}()

	a, cleanup, err := bootstrap.InitWithConfig(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer cleanup()

	g, gctx := errgroup.WithContext(ctx)

	closeWorkers, err := startWorkers(gctx, g, cfg, a, l)
	if err != nil {
		return err
	}
	defer closeWorkers()

	srv := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
	g.Go(func() error {
		l.Info("storefront-api listening", "addr", cfg.App.HTTPAddr, "storage", cfg.Storage.Driver, "broker", cfg.Outbox.Broker)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		l.Info("shutting down")
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startWorkers launches the outbox relay, the order.placed consumer and the status listener
// according to cfg. The returned func releases broker connections.
func startWorkers(ctx context.Context, g *errgroup.Group, cfg configs.Config, a *bootstrap.App, l *slog.Logger) (func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var pub usecase.Publisher
	switch cfg.Outbox.Broker {
	case "rabbitmq":
		conn, err := amqp.Dial(cfg.Rabbit.URL)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq dial: %w", err)
		}
		closers = append(closers, func() { _ = conn.Close() })

		producer, err := newRabbitPublisher(conn)
		if err != nil {
			closeAll()
			return nil, err
		}
		pub = producer

		if err := setupQueue(ctx, g, cfg, conn, l); err != nil {
			closeAll()
			return nil, err
		}
	case "kafka":
		sp, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		p := kafka.NewProducer(sp, cfg.Outbox.TopicPrefix)
		closers = append(closers, func() { _ = p.Close() })
		pub = p
	}

	if pub != nil {
		relay := outbox.NewRelay(a.Outbox, pub, l.With("worker", "outbox"),
			outbox.WithInterval(cfg.Outbox.Interval),
			outbox.WithBatch(cfg.Outbox.Batch),
		)
		g.Go(func() error {
			relay.Run(ctx)
			return nil
		})
	} else {
		l.Warn("outbox broker disabled; placed orders stay pending in the outbox")
	}

	if cfg.Kafka.StatusTopic != "" && len(cfg.Kafka.Brokers) > 0 {
		if err := setupKafkaListener(ctx, g, cfg, a.Services.Ledger, l); err != nil {
			closeAll()
			return nil, err
		}
	}
	return closeAll, nil
}

func newRabbitPublisher(conn *amqp.Connection) (*queue.RabbitProducer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	return queue.NewRabbitProducer(ch)
}

// setupQueue forwards order.placed messages to the fulfillment gateway.
func setupQueue(ctx context.Context, g *errgroup.Group, cfg configs.Config, conn *amqp.Connection, l *slog.Logger) error {
	grpcConn, closeGRPC, err := InitFulfillmentConn(cfg)
	if err != nil {
		return err
	}
	gw := grpc.NewFulfillmentClient(grpcConn, cfg.Fulfillment.Timeout, "storefront-api/worker")

	ch, err := conn.Channel()
	if err != nil {
		closeGRPC()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	router := queue.NewRouter(ch,
		queue.WithPrefetch(cfg.Rabbit.Prefetch),
		queue.WithLogger(l.With("worker", "order-placed")),
	)
	router.Register(queue.OrderPlacedQueue, queue.NewOrderPlacedHandler(gw).Handler())
	if err := router.Start(); err != nil {
		_ = ch.Close()
		closeGRPC()
		return err
	}

	g.Go(func() error {
		<-ctx.Done()
		_ = ch.Close() // ends the consumer goroutines
		router.Wait()
		closeGRPC()
		return nil
	})
	return nil
}

func setupKafkaListener(ctx context.Context, g *errgroup.Group, cfg configs.Config, ledger kafka.StatusUpdater, l *slog.Logger) error {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return fmt.Errorf("kafka group: %w", err)
	}

	h := kafka.NewOrderStatusChangedHandler(ledger)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.StatusTopic}, h.Handle, l.With("worker", "order-status"))

	g.Go(func() error {
		defer grp.Close()
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		return nil
	})
	return nil
}
