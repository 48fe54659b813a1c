package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aq2208/gorder-storefront/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportCredentials(t *testing.T) {
	var cfg configs.Config

	creds, err := transportCredentials(cfg)
	require.NoError(t, err)
	assert.Equal(t, "insecure", creds.Info().SecurityProtocol)

	cfg.Fulfillment.UseTLS = true
	cfg.Fulfillment.ServerName = "fulfillment.internal"
	creds, err = transportCredentials(cfg)
	require.NoError(t, err)
	assert.Equal(t, "tls", creds.Info().SecurityProtocol)

	bad := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(bad, []byte("not a cert"), 0o600))
	cfg.Fulfillment.CACertPath = bad
	_, err = transportCredentials(cfg)
	assert.ErrorIs(t, err, ErrBadCACert)

	cfg.Fulfillment.CACertPath = filepath.Join(t.TempDir(), "missing.pem")
	_, err = transportCredentials(cfg)
	assert.Error(t, err)
}

func TestInitFulfillmentConn_Lazy(t *testing.T) {
	var cfg configs.Config
	cfg.Fulfillment.Target = "passthrough:///127.0.0.1:1"

	conn, cleanup, err := InitFulfillmentConn(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, "passthrough:///127.0.0.1:1", conn.Target())
}
