package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/tair/hardware-inventory/config"
	"github.com/tair/hardware-inventory/internal/catalog"
	"github.com/tair/hardware-inventory/internal/stub"
	"github.com/tair/hardware-inventory/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init("stub-backend", cfg.IsDevelopment())
	logger.SetLevel(cfg.Logger.Level)

	server := stub.New()
	seed(server)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	}).Handler(server.Router())

	addr := ":" + cfg.Stub.Port
	go func() {
		logger.Logger.Info().Str("addr", addr).Msg("Stub backend listening")
		if err := http.ListenAndServe(addr, handler); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Stub backend failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down stub backend")
}

// seed loads a small demo catalog so the client has something to show
func seed(server *stub.Server) {
	today := catalog.DateOf(time.Now())

	server.SeedProduct(catalog.Product{
		Name: "Wood Glue", Category: "Adhesives", Size: "1L",
		Price: 7.50, StockAmount: 40,
		DateStocked: today.AddDays(-30), ExpiryDate: today.AddDays(20),
	})
	server.SeedProduct(catalog.Product{
		Name: "White Paint", Category: "Paint", Size: "4L",
		Price: 24.99, StockAmount: 12,
		DateStocked: today.AddDays(-10), ExpiryDate: today.AddDays(5),
	})
	server.SeedProduct(catalog.Product{
		Name: "Galvanized Nails", Category: "Fasteners", Size: "1KG",
		Price: 4.25, StockAmount: 200,
		DateStocked: today.AddDays(-90),
	})
	server.SeedProduct(catalog.Product{
		Name: "Wall Filler", Category: "Paint", Size: "5KG",
		Price: 9.80, StockAmount: 25,
		DateStocked: today.AddDays(-5), ExpiryDate: today.AddDays(75),
	})
}
