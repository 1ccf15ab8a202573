package main

import (
	"context"
	"os"
	"time"

	"github.com/tair/hardware-inventory/config"
	"github.com/tair/hardware-inventory/internal/catalog"
	"github.com/tair/hardware-inventory/internal/dashboard"
	"github.com/tair/hardware-inventory/internal/expiry"
	"github.com/tair/hardware-inventory/internal/ledger"
	"github.com/tair/hardware-inventory/internal/registry"
	"github.com/tair/hardware-inventory/internal/session"
	"github.com/tair/hardware-inventory/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init("hardware-inventory-client", cfg.IsDevelopment())
	logger.SetLevel(cfg.Logger.Level)

	logger.Logger.Info().
		Str("api_base_url", cfg.API.BaseURL).
		Str("environment", cfg.Logger.Environment).
		Msg("Starting hardware inventory client")

	gate := session.NewGate(
		session.NewFileStore(cfg.Session.File),
		session.NewAllowlist(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if !gate.IsAuthenticated() {
		email := getEnv("CLIENT_EMAIL", "admin@hardware.com")
		password := getEnv("CLIENT_PASSWORD", "admin123")
		if err := gate.Login(ctx, email, password); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Login failed")
		}
	}

	user, _ := gate.CurrentUser()
	logger.Logger.Info().Str("user", user.Name).Msg("Session active")

	client := catalog.NewClient(catalog.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})

	if err := gate.Guard(func() error { return run(ctx, client) }); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Client run failed")
	}
}

// run walks the protected views once: dashboard, products, expiry, sales
func run(ctx context.Context, client *catalog.Client) error {
	stats, err := dashboard.New(client).Load(ctx)
	if err != nil {
		return err
	}
	logger.Logger.Info().
		Int("total_products", stats.TotalProducts).
		Int("total_stock", stats.TotalStock).
		Int("total_sales", stats.TotalSales).
		Str("total_revenue", dashboard.FormatCurrency(stats.TotalRevenue)).
		Msg("Dashboard")

	products := registry.New(client)
	if err := products.Refresh(ctx, nil); err != nil {
		return err
	}
	for _, p := range products.Products() {
		logger.Logger.Info().
			Int("id", p.ID).
			Str("product", p.DisplayName()).
			Str("category", p.Category).
			Float64("price", p.Price).
			Int("stock", p.StockAmount).
			Msg("Product")
	}

	monitor := expiry.NewMonitor(client)
	if err := monitor.Refresh(ctx); err != nil {
		return err
	}
	for _, item := range monitor.Items() {
		logger.Logger.Info().
			Str("product", item.Product.DisplayName()).
			Str("status", item.Status.String()).
			Int("days_left", item.DaysLeft).
			Msg("Expiring product")
	}

	sales := ledger.New(client)
	if err := sales.Refresh(ctx); err != nil {
		return err
	}
	for _, sale := range sales.Sales() {
		logger.Logger.Info().
			Int("id", sale.ID).
			Str("product", sales.ProductName(sale.ProductID)).
			Int("quantity", sale.QuantitySold).
			Str("total", dashboard.FormatCurrency(sale.LineTotal())).
			Msg("Sale")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
