package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowpress/storefront-backend/internal/cart"
	"github.com/marlowpress/storefront-backend/internal/checkout"
	"github.com/marlowpress/storefront-backend/pkg/config"
	"github.com/marlowpress/storefront-backend/pkg/enums"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

func testConfig(orderAPIURL string) *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	cfg.Checkout.DevBaseURL = orderAPIURL
	return cfg
}

func testJournalItem() cart.CartItem {
	return cart.CartItem{
		EditionID:    "ed-1",
		DocumentID:   "doc-1",
		EditionType:  enums.EditionTypeModernized,
		Quantity:     1,
		PrintSize:    enums.PrintSizeM,
		NumPages:     []int{166},
		Title:        "Journal of George Fox",
		Author:       "George Fox",
		DisplayTitle: "Journal of George Fox &mdash; Modernized",
	}
}

func TestNewAppRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := NewApp(context.Background(), nil, "session-1", nil)
	require.Error(t, err)
}

func TestNewAppDefaultsToMemoryStorage(t *testing.T) {
	t.Parallel()

	app, err := NewApp(context.Background(), testConfig("http://localhost:2345"), "session-1", nil)
	require.NoError(t, err)
	defer app.Close()

	app.Store().AddItem(testJournalItem())
	assert.Equal(t, 1, app.Store().Totals().ItemCount)
	require.NoError(t, app.Close())
}

func TestAppCheckoutQuotesAgainstConfiguredOrigin(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/metadata", r.URL.Path)

		var req checkout.MetadataRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 1)
		assert.Equal(t, 416, req.Items[0].UnitPriceCents)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": checkout.MetadataResponse{
			ShippingCents:    399,
			TaxesCents:       0,
			CCFeeOffsetCents: 42,
			ShippingLevel:    "mail",
		}}))
	}))
	defer server.Close()

	app, err := NewApp(context.Background(), testConfig(server.URL), "session-1", nil)
	require.NoError(t, err)
	defer app.Close()

	app.Store().AddItem(testJournalItem())
	app.Store().SetEmail("a@b.com")
	app.Store().SetAddress(&types.Address{
		Name:    "Jane Doe",
		Street:  "123 Mulberry Ln",
		City:    "Wadsworth",
		State:   "OH",
		Zip:     "44281",
		Country: "US",
	})

	svc := app.BeginCheckout()
	require.NoError(t, svc.GetExploratoryMetadata(context.Background()))
	assert.Equal(t, checkout.StateMetadataFetched, svc.State())
	require.NotNil(t, svc.Metadata())
	assert.Equal(t, 441, svc.Metadata().Total())
	assert.Equal(t, enums.ShippingLevelMail, svc.ShippingLevel())
}

func TestBeginCheckoutSnapshotsCart(t *testing.T) {
	t.Parallel()

	app, err := NewApp(context.Background(), testConfig("http://localhost:2345"), "session-1", nil)
	require.NoError(t, err)
	defer app.Close()

	app.Store().AddItem(testJournalItem())
	svc := app.BeginCheckout()

	// Mutations after the attempt starts must not shift its totals. The
	// snapshot still holds the item, so the quote fails on the missing
	// address rather than on an empty cart.
	app.Store().Clear()
	err = svc.GetExploratoryMetadata(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no shipping address")
	assert.Equal(t, 0, app.Store().Totals().ItemCount)
}
