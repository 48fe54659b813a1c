package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoad_ShippedFiles(t *testing.T) {
	cfg, err := Load(".", "dev")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "storefront-api", cfg.App.Name)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "/auth/v1/env/oauth/session-data", cfg.Identity.SessionPath)

	items, err := cfg.MenuItems()
	require.NoError(t, err)
	assert.Len(t, items, 5)

	rates, err := cfg.RateTable()
	require.NoError(t, err)
	assert.True(t, rates.RateFor("Telangana").Equal(decimal.NewFromInt(100)))
	assert.True(t, rates.RateFor("goa").Equal(decimal.NewFromInt(150)))
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
app:
  http_addr: ":8080"
storage:
  driver: mysql
mysql:
  dsn: "x"
redis:
  addr: "localhost:6379"
security:
  jwt_secret: "0123456789abcdef"
shipping:
  default_rate: "150"
  rates:
    kerala: "120"
`)
	t.Setenv("STOREFRONT_APP__HTTP_ADDR", ":9999")
	t.Setenv("STOREFRONT_STORAGE__DRIVER", "memory")

	cfg, err := Load(dir, "missing-env")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.App.HTTPAddr)
	assert.Equal(t, "memory", cfg.Storage.Driver)

	rates, err := cfg.RateTable()
	require.NoError(t, err)
	assert.True(t, rates.RateFor("KERALA").Equal(decimal.NewFromInt(120)))
	assert.True(t, rates.RateFor("telangana").Equal(decimal.NewFromInt(150)))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.App.HTTPAddr = ":8080"
		c.Storage.Driver = "memory"
		c.Security.JWTSecret = "0123456789abcdef"
		return c
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"no addr":        func(c *Config) { c.App.HTTPAddr = "" },
		"bad driver":     func(c *Config) { c.Storage.Driver = "postgres" },
		"mysql no dsn":   func(c *Config) { c.Storage.Driver = "mysql" },
		"weak secret":    func(c *Config) { c.Security.JWTSecret = "short" },
		"rabbit no url":  func(c *Config) { c.Outbox.Broker = "rabbitmq" },
		"unknown broker": func(c *Config) { c.Outbox.Broker = "sqs" },
		"negative rate":  func(c *Config) { c.Shipping.Rates = map[string]string{"goa": "-1"} },
		"bad price": func(c *Config) {
			c.Catalog.Items = []MenuItem{{ID: "chicken", Price: "eight hundred"}}
		},
		"sub-cent rate": func(c *Config) { c.Shipping.Rates = map[string]string{"goa": "80.005"} },
		"sub-cent price": func(c *Config) {
			c.Catalog.Items = []MenuItem{{ID: "chicken", Price: "800.001"}}
		},
		"duplicate item": func(c *Config) {
			c.Catalog.Items = []MenuItem{{ID: "a", Price: "1"}, {ID: "a", Price: "2"}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
