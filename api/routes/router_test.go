package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/marlowpress/storefront-backend/internal/cart"
	"github.com/marlowpress/storefront-backend/internal/checkout"
	"github.com/marlowpress/storefront-backend/internal/mailer"
	"github.com/marlowpress/storefront-backend/internal/orders"
	"github.com/marlowpress/storefront-backend/internal/payments"
	"github.com/marlowpress/storefront-backend/internal/shipping"
	"github.com/marlowpress/storefront-backend/pkg/config"
	"github.com/marlowpress/storefront-backend/pkg/db/models"
	"github.com/marlowpress/storefront-backend/pkg/enums"
	"github.com/marlowpress/storefront-backend/pkg/metrics"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

type fakeProvider struct {
	calls int
}

func (p *fakeProvider) CreateIntent(_ context.Context, amountCents int) (*payments.Intent, error) {
	p.calls++
	return &payments.Intent{ID: "pi_test_123", ClientSecret: "pi_test_123_secret_456"}, nil
}

type recordingMailer struct {
	sent []mailer.Email
}

func (m *recordingMailer) Send(_ context.Context, email mailer.Email) error {
	m.sent = append(m.sent, email)
	return nil
}

type testEnv struct {
	server   *httptest.Server
	db       *gorm.DB
	provider *fakeProvider
	mail     *recordingMailer
	registry *prometheus.Registry
	metrics  *metrics.CheckoutMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}))

	mail := &recordingMailer{}
	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	ordersService, err := orders.NewService(orders.NewRepository(db), mail, nil, checkoutMetrics)
	require.NoError(t, err)

	provider := &fakeProvider{}
	handler := NewRouter(
		nil,
		nil,
		shipping.NewService(config.ShippingConfig{}),
		provider,
		ordersService,
		checkoutMetrics,
		registry,
	)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testEnv{
		server:   server,
		db:       db,
		provider: provider,
		mail:     mail,
		registry: registry,
		metrics:  checkoutMetrics,
	}
}

func storefrontCart() *cart.Cart {
	c := cart.New()
	c.AddItem(cart.CartItem{
		EditionID:    "ed-1",
		DocumentID:   "doc-1",
		EditionType:  enums.EditionTypeModernized,
		Quantity:     1,
		PrintSize:    enums.PrintSizeM,
		NumPages:     []int{166},
		Title:        "Journal of George Fox",
		Author:       "George Fox",
		DisplayTitle: "Journal of George Fox &mdash; Modernized",
	})
	c.Email = "a@b.com"
	c.Address = &types.Address{
		Name:    "Jane Doe",
		Street:  "123 Mulberry Ln",
		City:    "Wadsworth",
		State:   "OH",
		Zip:     "44281",
		Country: "US",
	}
	return c
}

func TestFullCheckoutWorkflow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	api, err := checkout.NewClient(env.server.URL)
	require.NoError(t, err)

	svc := checkout.NewService(storefrontCart(), api, nil)
	ctx := context.Background()

	require.NoError(t, svc.GetExploratoryMetadata(ctx))
	meta := svc.Metadata()
	require.NotNil(t, meta)
	assert.Equal(t, 399, meta.ShippingCents)
	assert.Equal(t, 0, meta.TaxesCents)
	assert.Equal(t, 42, meta.CCFeeOffsetCents)
	assert.Equal(t, enums.ShippingLevelMail, svc.ShippingLevel())

	require.NoError(t, svc.CreateOrderInitialization(ctx))
	assert.Regexp(t, `^pi_\w+$`, svc.PaymentIntentID())
	assert.Regexp(t, `^pi_\w+_secret_\w+$`, svc.PaymentIntentClientSecret())

	require.NoError(t, svc.CreateOrder(ctx))
	// Replay: the same order id must not create a second row.
	require.NoError(t, svc.CreateOrder(ctx))

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.SendOrderConfirmationEmail(ctx))
	assert.Equal(t, checkout.StateConfirmed, svc.State())
	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "a@b.com", env.mail.sent[0].To)

	var stored models.Order
	require.NoError(t, env.db.First(&stored).Error)
	assert.Equal(t, svc.OrderID(), stored.ID)
	assert.Equal(t, 857, stored.AmountCents)
	assert.Equal(t, "pi_test_123", stored.PaymentID)
}

func TestMetadataUnservicedCountry(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	api, err := checkout.NewClient(env.server.URL)
	require.NoError(t, err)

	c := storefrontCart()
	c.Address.Country = "BR"

	svc := checkout.NewService(c, api, nil)
	err = svc.GetExploratoryMetadata(context.Background())
	require.Error(t, err)
	assert.Equal(t, checkout.StateInit, svc.State())
	assert.Nil(t, svc.Metadata())
}

func TestMetadataEndpointRejectsEmptyItems(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	body := `{"address":{"name":"Jane Doe","street":"123 Mulberry Ln","city":"Wadsworth","state":"OH","zip":"44281","country":"US"},"items":[]}`
	resp, err := http.Post(env.server.URL+"/checkout/metadata", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestConfirmationEmailUnknownOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, err := http.Post(env.server.URL+"/orders/0c9a3f1e-8f7a-4a6a-9d3e-111111111111/confirmation-email", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpointCountsQuotes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	body := `{"address":{"name":"Jane Doe","street":"Rua A","city":"Sao Paulo","state":"SP","zip":"01000","country":"BR"},"items":[{"editionId":"ed-1","editionType":"original","quantity":1,"printSize":"s","unitPriceCents":416}]}`
	resp, err := http.Post(env.server.URL+"/checkout/metadata", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	families, err := env.registry.Gather()
	require.NoError(t, err)
	found := false
	for _, family := range families {
		if family.GetName() != "checkout_quotes_unavailable_total" {
			continue
		}
		found = true
		require.Len(t, family.GetMetric(), 1)
		assert.Equal(t, float64(1), family.GetMetric()[0].GetCounter().GetValue())
	}
	assert.True(t, found)

	metricsResp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
}
