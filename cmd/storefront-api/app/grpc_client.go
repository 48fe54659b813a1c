package app

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aq2208/gorder-storefront/configs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

var ErrBadCACert = errors.New("unable to parse CA cert")

// InitFulfillmentConn creates a lazily connecting client for the fulfillment gateway and returns a conn + cleanup.
func InitFulfillmentConn(cfg configs.Config) (*grpc.ClientConn, func(), error) {
	fc := cfg.Fulfillment
	dialTimeout := fc.Timeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	opts := []grpc.DialOption{
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff: backoff.Config{
				BaseDelay:  200 * time.Millisecond,
				Multiplier: 1.6,
				Jitter:     0.2,
				MaxDelay:   5 * time.Second,
			},
			MinConnectTimeout: dialTimeout,
		}),
	}

	creds, err := transportCredentials(cfg)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, grpc.WithTransportCredentials(creds))

	// (optional) message size knobs
	if n := fc.MaxRecvBytes; n > 0 {
		opts = append(opts, grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(n)))
	}
	if n := fc.MaxSendBytes; n > 0 {
		opts = append(opts, grpc.WithDefaultCallOptions(grpc.MaxCallSendMsgSize(n)))
	}

	conn, err := grpc.NewClient(fc.Target, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("fulfillment client %s: %w", fc.Target, err)
	}
	return conn, func() { _ = conn.Close() }, nil
}

func transportCredentials(cfg configs.Config) (credentials.TransportCredentials, error) {
	fc := cfg.Fulfillment
	if !fc.UseTLS {
		return insecure.NewCredentials(), nil
	}
	if fc.CACertPath == "" {
		return credentials.NewClientTLSFromCert(nil, fc.ServerName), nil
	}
	pem, err := os.ReadFile(fc.CACertPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(pem); !ok {
		return nil, ErrBadCACert
	}
	tlsCfg := &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	if fc.ServerName != "" {
		tlsCfg.ServerName = fc.ServerName
	}
	return credentials.NewTLS(tlsCfg), nil
}
