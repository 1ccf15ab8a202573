package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/hardware-inventory/internal/catalog"
	"github.com/tair/hardware-inventory/internal/stub"
)

func newTestClient(t *testing.T) (*catalog.Client, *stub.Server) {
	t.Helper()
	backend := stub.New()
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)

	client := catalog.NewClient(catalog.Config{
		BaseURL: ts.URL + "/api",
		Timeout: 5 * time.Second,
	})
	return client, backend
}

func seedPaintShop(backend *stub.Server) {
	today := catalog.DateOf(time.Now())
	backend.SeedProduct(catalog.Product{
		Name: "White Paint", Category: "Paint", Size: "4L",
		Price: 8.00, StockAmount: 12, DateStocked: today,
	})
	backend.SeedProduct(catalog.Product{
		Name: "Red Paint", Category: "Paint", Size: "1L",
		Price: 15.00, StockAmount: 6, DateStocked: today,
	})
	backend.SeedProduct(catalog.Product{
		Name: "Wood Glue", Category: "Adhesives", Size: "1L",
		Price: 7.50, StockAmount: 40, DateStocked: today,
	})
}

func TestListProductsFilterComposition(t *testing.T) {
	client, backend := newTestClient(t)
	seedPaintShop(backend)
	ctx := context.Background()

	min, max := 5.0, 10.0
	filtered, err := client.ListProducts(ctx, &catalog.Filter{
		Category: "Paint",
		PriceMin: &min,
		PriceMax: &max,
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "White Paint", filtered[0].Name)
	for _, p := range filtered {
		assert.Equal(t, "Paint", p.Category)
		assert.GreaterOrEqual(t, p.Price, min)
		assert.LessOrEqual(t, p.Price, max)
	}

	// Clearing every filter field returns the unfiltered full set
	all, err := client.ListProducts(ctx, &catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := client.ListProducts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, none, 3)
}

func TestListProductsNameSubstring(t *testing.T) {
	client, backend := newTestClient(t)
	seedPaintShop(backend)

	matched, err := client.ListProducts(context.Background(), &catalog.Filter{Name: "paint"})
	require.NoError(t, err)
	assert.Len(t, matched, 2, "name matching is a case-insensitive substring")
}

func TestProductCRUD(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, catalog.ProductDraft{
		Name:        "Wall Filler",
		Category:    "Paint",
		Size:        "5KG",
		Price:       9.80,
		StockAmount: 25,
		DateStocked: catalog.NewDate(2026, time.March, 1),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	fetched, err := client.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wall Filler", fetched.Name)

	newPrice := 11.00
	updated, err := client.UpdateProduct(ctx, created.ID, catalog.ProductPatch{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 11.00, updated.Price)
	// Untouched fields survive a partial update
	assert.Equal(t, 25, updated.StockAmount)

	require.NoError(t, client.DeleteProduct(ctx, created.ID))

	_, err = client.GetProduct(ctx, created.ID)
	assert.True(t, catalog.IsNotFound(err))
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	client, backend := newTestClient(t)
	product := backend.SeedProduct(catalog.Product{
		Name: "Wood Glue", Category: "Adhesives", Size: "1L",
		Price: 7.50, StockAmount: 3,
		DateStocked: catalog.NewDate(2026, time.March, 1),
	})

	_, err := client.CreateSale(context.Background(), catalog.SaleDraft{
		ProductID:    product.ID,
		QuantitySold: 5,
		SalePrice:    7.50,
		SaleDate:     catalog.NewDate(2026, time.March, 10),
	})
	require.Error(t, err)
	assert.True(t, catalog.IsRemoteRejection(err))

	var apiErr *catalog.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	// The server message is surfaced verbatim
	assert.Equal(t, "Insufficient stock", apiErr.Message)
}

func TestDeleteProductNotFound(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.DeleteProduct(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, catalog.IsNotFound(err))
	assert.True(t, catalog.IsRemoteRejection(err))
}

func TestRejectionWithNonEnvelopeBody(t *testing.T) {
	// Proxies and load balancers answer with HTML error pages; the status
	// code must still come through as a remote rejection
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<html><body>503 Service Unavailable</body></html>"))
	}))
	t.Cleanup(ts.Close)

	client := catalog.NewClient(catalog.Config{BaseURL: ts.URL + "/api"})

	_, err := client.ListProducts(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, catalog.IsRemoteRejection(err))
	assert.False(t, catalog.IsTransport(err))

	var apiErr *catalog.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestTransportFailure(t *testing.T) {
	backend := stub.New()
	ts := httptest.NewServer(backend.Router())
	client := catalog.NewClient(catalog.Config{BaseURL: ts.URL + "/api"})
	ts.Close()

	_, err := client.ListProducts(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, catalog.IsTransport(err))
	assert.False(t, catalog.IsRemoteRejection(err))
}

func TestDashboardStatsAndHealth(t *testing.T) {
	client, backend := newTestClient(t)
	seedPaintShop(backend)
	ctx := context.Background()

	stats, err := client.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 58, stats.TotalStock)

	require.NoError(t, client.Health(ctx))
}

func TestListCategoriesDistinct(t *testing.T) {
	client, backend := newTestClient(t)
	seedPaintShop(backend)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Adhesives", "Paint"}, categories)
}
