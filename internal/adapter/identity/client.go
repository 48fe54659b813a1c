package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultSessionPath is the provider's session-data endpoint.
const DefaultSessionPath = "/auth/v1/env/oauth/session-data"

// Client resolves identity-provider session ids over HTTP.
type Client struct {
	base string
	path string
	hc   *http.Client
}

type Option func(*Client)

// WithSessionPath overrides DefaultSessionPath. An empty path keeps the default.
func WithSessionPath(path string) Option {
	return func(c *Client) {
		if path = strings.TrimSpace(path); path != "" {
			c.path = "/" + strings.TrimLeft(path, "/")
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		path: DefaultSessionPath,
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SessionData(ctx context.Context, sessionID string) (usecase.IdentityProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+c.path, nil)
	if err != nil {
		return usecase.IdentityProfile{}, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return usecase.IdentityProfile{}, fmt.Errorf("%w: identity provider: %v", domain.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return usecase.IdentityProfile{}, fmt.Errorf("%w: identity provider rejected session (%d)", domain.ErrUnauthenticated, resp.StatusCode)
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return usecase.IdentityProfile{}, fmt.Errorf("%w: identity provider status %d", domain.ErrCollaboratorUnavailable, resp.StatusCode)
	}

	var p usecase.IdentityProfile
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&p); err != nil {
		return usecase.IdentityProfile{}, fmt.Errorf("%w: decode identity response: %v", domain.ErrCollaboratorUnavailable, err)
	}
	return p, nil
}

var _ usecase.IdentityProvider = (*Client)(nil)
