package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/aq2208/gorder-storefront/configs"
	"github.com/aq2208/gorder-storefront/internal/adapter/cache"
	"github.com/aq2208/gorder-storefront/internal/adapter/catalog"
	"github.com/aq2208/gorder-storefront/internal/adapter/http"
	"github.com/aq2208/gorder-storefront/internal/adapter/identity"
	"github.com/aq2208/gorder-storefront/internal/adapter/memory"
	"github.com/aq2208/gorder-storefront/internal/adapter/repo"
	"github.com/aq2208/gorder-storefront/internal/security"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router   *gin.Engine
	Services http.Services
	// Outbox is drained by the relay worker; it shares storage with the order ledger.
	Outbox usecase.OutboxRepo
}

// stores is everything that differs between the mysql and memory drivers.
type stores struct {
	carts    usecase.CartRepo
	orders   usecase.OrderRepo
	outbox   usecase.OutboxRepo
	users    usecase.UserRepo
	sessions usecase.SessionStore
	idem     usecase.IdempotencyStore
	status   usecase.StatusCache
}

func InitWithConfig(ctx context.Context, cfg configs.Config, l *slog.Logger) (*App, func(), error) {
	var (
		st      stores
		cleanup = func() {}
		err     error
	)
	switch cfg.Storage.Driver {
	case "memory":
		st = memoryStores(cfg)
		l.Warn("storage driver is memory; carts and orders are lost on restart")
	default:
		st, cleanup, err = mysqlStores(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
	}

	svc, err := buildServices(cfg, st)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &App{
		Router:   http.NewRouter(svc, l, cfg.HTTP.AllowedOrigins),
		Services: svc,
		Outbox:   st.outbox,
	}, cleanup, nil
}

func buildServices(cfg configs.Config, st stores) (http.Services, error) {
	rates, err := cfg.RateTable()
	if err != nil {
		return http.Services{}, err
	}
	items, err := cfg.MenuItems()
	if err != nil {
		return http.Services{}, err
	}
	if len(items) == 0 {
		items = catalog.DefaultMenu()
	}

	tokens, err := security.NewSessionTokens(cfg.Security.JWTSecret, cfg.Security.Issuer, cfg.Security.Audience, nil)
	if err != nil {
		return http.Services{}, err
	}

	carts := usecase.NewCartStore(catalog.NewStatic(items), st.carts, nil)
	pricing := usecase.NewPricing(rates, carts)
	ledger := usecase.NewLedger(carts, pricing, st.orders, st.idem, usecase.WithStatusCache(st.status))
	auth := usecase.NewAuth(identityProvider(cfg), st.users, st.sessions, tokens, cfg.Security.SessionTTL, nil)

	return http.Services{Carts: carts, Pricing: pricing, Ledger: ledger, Auth: auth}, nil
}

// identityProvider prefers the remote provider; without a base URL the configured profile table answers.
func identityProvider(cfg configs.Config) usecase.IdentityProvider {
	if cfg.Identity.BaseURL != "" {
		return identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.Timeout, identity.WithSessionPath(cfg.Identity.SessionPath))
	}
	profiles := make(map[string]usecase.IdentityProfile, len(cfg.Identity.Profiles))
	for sid, p := range cfg.Identity.Profiles {
		profiles[sid] = usecase.IdentityProfile{Email: p.Email, Name: p.Name, Picture: p.Picture}
	}
	return memory.NewIdentity(profiles)
}

func memoryStores(cfg configs.Config) stores {
	s := memory.NewStore()
	kv := memory.NewKV(cfg.Idempotency.TTL)
	return stores{
		carts:    s,
		orders:   s,
		outbox:   s,
		users:    s.Users(),
		sessions: kv.Sessions(),
		idem:     kv,
		status:   kv,
	}
}

func mysqlStores(ctx context.Context, cfg configs.Config) (stores, func(), error) {
	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return stores{}, nil, err
	}
	db.SetConnMaxLifetime(orDefault(cfg.MySQL.ConnMaxLifetime, 30*time.Minute))
	db.SetMaxOpenConns(orDefaultInt(cfg.MySQL.MaxOpenConns, 16))
	db.SetMaxIdleConns(orDefaultInt(cfg.MySQL.MaxIdleConns, 16))

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return stores{}, nil, fmt.Errorf("mysql ping: %w", err)
	}

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return stores{}, nil, fmt.Errorf("redis ping: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
	}
	return stores{
		carts:    repo.NewMySQLCartRepo(db),
		orders:   repo.NewMySQLOrderRepo(db),
		outbox:   repo.NewMySQLOutboxRepo(db),
		users:    repo.NewMySQLUserRepo(db),
		sessions: cache.NewRedisSessionStore(rdb),
		idem:     cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL),
		status:   cache.NewRedisCache(rdb, cfg.Cache.TTL),
	}, cleanup, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func orDefaultInt(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
