package dashboard

import (
	"context"
	"fmt"

	"github.com/tair/hardware-inventory/internal/catalog"
)

// Aggregator surfaces the precomputed dashboard statistics. It holds no
// state and caches nothing; every activation re-fetches.
type Aggregator struct {
	client *catalog.Client
}

// New creates an aggregator backed by the given client
func New(client *catalog.Client) *Aggregator {
	return &Aggregator{client: client}
}

// Load fetches the current statistics. Missing numeric fields decode to
// zero; no local aggregation happens here.
func (a *Aggregator) Load(ctx context.Context) (catalog.Stats, error) {
	return a.client.DashboardStats(ctx)
}

// FormatCurrency renders a money amount with two decimal places
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
