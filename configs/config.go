package configs

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

const envPrefix = "STOREFRONT_"

type MenuItem struct {
	ID          string `koanf:"id"`
	Name        string `koanf:"name"`
	Description string `koanf:"description"`
	Price       string `koanf:"price"`
	ImageURL    string `koanf:"image_url"`
}

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
		// AllowedOrigins for browser clients; "*" allows any origin, empty disables CORS.
		AllowedOrigins []string `koanf:"allowed_origins"`
	} `koanf:"http"`

	// Storage.Driver is "mysql" or "memory". The memory driver also replaces Redis.
	Storage struct {
		Driver string `koanf:"driver"`
	} `koanf:"storage"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Cache struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"cache"`

	// Outbox.Broker selects the relay target: "rabbitmq", "kafka" or "none".
	Outbox struct {
		Broker      string        `koanf:"broker"`
		Interval    time.Duration `koanf:"interval"`
		Batch       int           `koanf:"batch"`
		TopicPrefix string        `koanf:"topic_prefix"`
	} `koanf:"outbox"`

	Rabbit struct {
		URL      string `koanf:"url"`
		Prefetch int    `koanf:"prefetch"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers     []string `koanf:"brokers"`
		GroupID     string   `koanf:"group_id"`
		StatusTopic string   `koanf:"status_topic"`
	} `koanf:"kafka"`

	Fulfillment struct {
		Target       string        `koanf:"target"`
		UseTLS       bool          `koanf:"use_tls"`
		CACertPath   string        `koanf:"ca_cert_path"`
		ServerName   string        `koanf:"server_name"`
		Timeout      time.Duration `koanf:"timeout"`
		MaxRecvBytes int           `koanf:"max_recv_bytes"`
		MaxSendBytes int           `koanf:"max_send_bytes"`
	} `koanf:"fulfillment"`

	// Identity.BaseURL empty means the built-in profile table (Identity.Profiles) is used.
	Identity struct {
		BaseURL     string                     `koanf:"base_url"`
		SessionPath string                     `koanf:"session_path"`
		Timeout     time.Duration              `koanf:"timeout"`
		Profiles    map[string]IdentityProfile `koanf:"profiles"`
	} `koanf:"identity"`

	Security struct {
		JWTSecret  string        `koanf:"jwt_secret"`
		Issuer     string        `koanf:"issuer"`
		Audience   string        `koanf:"audience"`
		SessionTTL time.Duration `koanf:"session_ttl"`
	} `koanf:"security"`

	Shipping struct {
		Rates       map[string]string `koanf:"rates"`
		DefaultRate string            `koanf:"default_rate"`
	} `koanf:"shipping"`

	Catalog struct {
		Items []MenuItem `koanf:"items"`
	} `koanf:"catalog"`

	Tracing struct {
		SampleRatio float64 `koanf:"sample_ratio"`
	} `koanf:"tracing"`
}

type IdentityProfile struct {
	Email   string `koanf:"email"`
	Name    string `koanf:"name"`
	Picture string `koanf:"picture"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix STOREFRONT_, nested with __)
	// e.g. STOREFRONT_MYSQL__DSN, STOREFRONT_STORAGE__DRIVER
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	switch c.Storage.Driver {
	case "memory":
	case "mysql":
		if c.MySQL.DSN == "" {
			return fmt.Errorf("mysql.dsn required")
		}
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr required")
		}
	default:
		return fmt.Errorf("storage.driver must be mysql or memory, got %q", c.Storage.Driver)
	}
	switch c.Outbox.Broker {
	case "none", "":
	case "rabbitmq":
		if c.Rabbit.URL == "" {
			return fmt.Errorf("rabbitmq.url required")
		}
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers required")
		}
	default:
		return fmt.Errorf("outbox.broker must be rabbitmq, kafka or none, got %q", c.Outbox.Broker)
	}
	if len(c.Security.JWTSecret) < 16 {
		return fmt.Errorf("security.jwt_secret must be at least 16 bytes")
	}
	if _, err := c.RateTable(); err != nil {
		return err
	}
	items, err := c.MenuItems()
	if err != nil {
		return err
	}
	if _, err := domain.NewCatalog(items); err != nil {
		return err
	}
	return nil
}

// RateTable builds the courier tiers. With no rates configured the stock table is used.
func (c Config) RateTable() (*domain.RateTable, error) {
	if len(c.Shipping.Rates) == 0 && c.Shipping.DefaultRate == "" {
		return domain.DefaultRateTable(), nil
	}
	fallback := decimal.NewFromInt(150)
	if c.Shipping.DefaultRate != "" {
		d, err := decimal.NewFromString(c.Shipping.DefaultRate)
		if err != nil {
			return nil, fmt.Errorf("shipping.default_rate: %w", err)
		}
		fallback = d
	}
	rates := make(map[string]decimal.Decimal, len(c.Shipping.Rates))
	for region, raw := range c.Shipping.Rates {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("shipping.rates.%s: %w", region, err)
		}
		rates[region] = d
	}
	return domain.NewRateTable(rates, fallback)
}

// MenuItems converts catalog.items. Callers fall back to the stock menu when it is empty.
func (c Config) MenuItems() ([]domain.MenuItem, error) {
	out := make([]domain.MenuItem, 0, len(c.Catalog.Items))
	for _, it := range c.Catalog.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog item %s: price: %w", it.ID, err)
		}
		out = append(out, domain.MenuItem{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			PricePerKg:  price,
			ImageURL:    it.ImageURL,
		})
	}
	if _, err := domain.NewCatalog(out); err != nil {
		return nil, err
	}
	return out, nil
}
