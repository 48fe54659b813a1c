package usecase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/aq2208/gorder-storefront/internal/adapter/catalog"
	"github.com/aq2208/gorder-storefront/internal/adapter/memory"
	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	kv      *memory.KV
	carts   *usecase.CartStore
	pricing *usecase.Pricing
	ledger  *usecase.Ledger
	clock   *time.Time
}

func newFixture(t *testing.T, menu []domain.MenuItem) *fixture {
	t.Helper()
	if menu == nil {
		menu = []domain.MenuItem{
			{ID: "chicken", Name: "Chicken", PricePerKg: decimal.NewFromInt(500)},
			{ID: "mutton", Name: "Mutton", PricePerKg: decimal.NewFromInt(1500)},
		}
	}
	now := fixedNow
	f := &fixture{store: memory.NewStore(), kv: memory.NewKV(time.Hour), clock: &now}
	clock := func() time.Time { return *f.clock }

	seq := 0
	f.carts = usecase.NewCartStore(catalog.NewStatic(menu), f.store, clock)
	f.pricing = usecase.NewPricing(domain.DefaultRateTable(), f.carts)
	f.ledger = usecase.NewLedger(f.carts, f.pricing, f.store, f.kv,
		usecase.WithClock(clock),
		usecase.WithStatusCache(f.kv),
		usecase.WithIDGenerator(func() string { seq++; return fmt.Sprintf("ord-%03d", seq) }),
	)
	return f
}

func (f *fixture) advance(d time.Duration) { *f.clock = f.clock.Add(d) }

func kg(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func delivery(region string) domain.DeliveryDetails {
	return domain.DeliveryDetails{Address: "12 MG Road", Pincode: "500001", Phone: "9999999999", Region: region}
}
