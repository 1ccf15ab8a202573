package ledger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/hardware-inventory/internal/catalog"
	"github.com/tair/hardware-inventory/internal/ledger"
	"github.com/tair/hardware-inventory/internal/stub"
)

func newTestLedger(t *testing.T) (*ledger.Ledger, *stub.Server) {
	t.Helper()
	backend := stub.New()
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)

	client := catalog.NewClient(catalog.Config{
		BaseURL: ts.URL + "/api",
		Timeout: 5 * time.Second,
	})
	return ledger.New(client), backend
}

func seedGlue(backend *stub.Server, stock int) catalog.Product {
	return backend.SeedProduct(catalog.Product{
		Name: "Wood Glue", Category: "Adhesives", Size: "1L",
		Price: 7.50, StockAmount: stock,
		DateStocked: catalog.NewDate(2026, time.March, 1),
	})
}

func TestRefreshLoadsSalesAndProducts(t *testing.T) {
	led, backend := newTestLedger(t)
	product := seedGlue(backend, 40)
	backend.SeedSale(catalog.Sale{
		ProductID: product.ID, QuantitySold: 2, SalePrice: 7.50,
		SaleDate: catalog.NewDate(2026, time.March, 10),
	})

	require.NoError(t, led.Refresh(context.Background()))
	assert.Equal(t, 1, led.Len())
	assert.Equal(t, "Wood Glue (1L)", led.ProductName(product.ID))
	assert.Equal(t, "Unknown", led.ProductName(999))
}

func TestRefreshFailsWholeLoadWhenEitherFetchFails(t *testing.T) {
	backend := stub.New()
	product := seedGlue(backend, 40)
	backend.SeedSale(catalog.Sale{
		ProductID: product.ID, QuantitySold: 1, SalePrice: 7.50,
		SaleDate: catalog.NewDate(2026, time.March, 10),
	})

	var salesBroken atomic.Bool
	router := backend.Router()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if salesBroken.Load() && r.URL.Path == "/api/sales" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "boom"})
			return
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	led := ledger.New(catalog.NewClient(catalog.Config{
		BaseURL: ts.URL + "/api",
		Timeout: 5 * time.Second,
	}))
	ctx := context.Background()

	require.NoError(t, led.Refresh(ctx))
	require.Equal(t, 1, led.Len())

	// One leg failing fails the join and leaves both mirrors untouched
	salesBroken.Store(true)
	err := led.Refresh(ctx)
	require.Error(t, err)
	assert.True(t, catalog.IsRemoteRejection(err))
	assert.Equal(t, 1, led.Len())
	assert.Equal(t, "Wood Glue (1L)", led.ProductName(product.ID))
}

func TestRecordValidatesBeforeSubmission(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer ts.Close()

	led := ledger.New(catalog.NewClient(catalog.Config{BaseURL: ts.URL + "/api"}))

	_, err := led.Record(context.Background(), catalog.SaleDraft{
		ProductID:    1,
		QuantitySold: 0, // not a positive integer
		SalePrice:    7.50,
		SaleDate:     catalog.NewDate(2026, time.March, 10),
	})
	require.Error(t, err)
	assert.True(t, catalog.IsValidation(err))
	assert.Zero(t, requests, "a validation failure must never reach the network")
}

func TestRecordInsufficientStockLeavesLedgerUnchanged(t *testing.T) {
	led, backend := newTestLedger(t)
	product := seedGlue(backend, 3)
	ctx := context.Background()

	require.NoError(t, led.Refresh(ctx))
	countBefore := led.Len()

	_, err := led.Record(ctx, catalog.SaleDraft{
		ProductID:    product.ID,
		QuantitySold: 5,
		SalePrice:    7.50,
		SaleDate:     catalog.NewDate(2026, time.March, 10),
	})
	require.Error(t, err)

	var apiErr *catalog.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Insufficient stock", apiErr.Message)

	assert.Equal(t, countBefore, led.Len())
	assert.Equal(t, 0, backend.SaleCount())
}

func TestRecordSuccessRefreshesMirror(t *testing.T) {
	led, backend := newTestLedger(t)
	product := seedGlue(backend, 40)
	ctx := context.Background()

	sale, err := led.Record(ctx, catalog.SaleDraft{
		ProductID:    product.ID,
		QuantitySold: 5,
		SalePrice:    8.00,
		SaleDate:     catalog.NewDate(2026, time.March, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, sale.LineTotal())

	assert.Equal(t, 1, led.Len())
	// Stock was reduced server-side and the fresh snapshot reflects it
	stored, _ := backend.Product(product.ID)
	assert.Equal(t, 35, stored.StockAmount)
}

func TestRemoveRefreshesAfterConfirmation(t *testing.T) {
	led, backend := newTestLedger(t)
	product := seedGlue(backend, 40)
	ctx := context.Background()

	sale, err := led.Record(ctx, catalog.SaleDraft{
		ProductID:    product.ID,
		QuantitySold: 5,
		SalePrice:    8.00,
		SaleDate:     catalog.NewDate(2026, time.March, 10),
	})
	require.NoError(t, err)

	require.NoError(t, led.Remove(ctx, sale.ID))
	assert.Zero(t, led.Len())

	// The service restored the stock on delete
	stored, _ := backend.Product(product.ID)
	assert.Equal(t, 40, stored.StockAmount)
}

func TestRemoveFailureLeavesLedgerUntouched(t *testing.T) {
	led, backend := newTestLedger(t)
	product := seedGlue(backend, 40)
	backend.SeedSale(catalog.Sale{
		ProductID: product.ID, QuantitySold: 2, SalePrice: 7.50,
		SaleDate: catalog.NewDate(2026, time.March, 10),
	})
	ctx := context.Background()

	require.NoError(t, led.Refresh(ctx))
	err := led.Remove(ctx, 999)
	require.Error(t, err)
	assert.True(t, catalog.IsNotFound(err))
	assert.Equal(t, 1, led.Len())
}
