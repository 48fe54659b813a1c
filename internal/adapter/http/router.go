package http

import (
	"log/slog"

	"github.com/aq2208/gorder-storefront/internal/adapter/http/middleware"
	"github.com/aq2208/gorder-storefront/internal/logging"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

func init() {
	// API clients expect money and weights as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Services are the use cases the HTTP API exposes.
type Services struct {
	Carts   *usecase.CartStore
	Pricing *usecase.Pricing
	Ledger  *usecase.Ledger
	Auth    *usecase.Auth
}

// NewRouter wires the API. An empty allowedOrigins list disables CORS handling.
func NewRouter(svc Services, l *slog.Logger, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	if len(allowedOrigins) > 0 {
		r.Use(middleware.CORS(allowedOrigins))
	}
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		logging.From(c).Debug("health check")
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	menu := NewMenuHandler(svc.Carts)
	cart := NewCartHandler(svc.Carts)
	checkout := NewCheckoutHandler(svc.Pricing)
	orders := NewOrderHandler(svc.Ledger)
	auth := NewAuthHandler(svc.Auth)
	session := middleware.NewSessionAuth(svc.Auth).Require()

	api := r.Group("/api")
	{
		api.GET("/menu", menu.List)
		api.GET("/courier-charges/:state", checkout.CourierCharges)

		api.POST("/auth/login", auth.Login)
		api.GET("/auth/profile", session, auth.Profile)
		api.POST("/auth/logout", session, auth.Logout)

		api.GET("/cart", session, cart.Get)
		api.POST("/cart/add", session, cart.Add)
		api.DELETE("/cart/item/:id", session, cart.Remove)

		api.GET("/checkout/preview", session, checkout.Preview)

		api.POST("/orders", session, orders.Place)
		api.GET("/orders", session, orders.List)
		api.GET("/orders/:id", session, orders.Get)
	}

	return r
}
