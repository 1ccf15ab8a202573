package ledger

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tair/hardware-inventory/internal/catalog"
	"github.com/tair/hardware-inventory/pkg/logger"
)

// Ledger mirrors the remote sale list together with a contemporaneous
// product snapshot used to resolve product names for display. The two are
// fetched independently; the service does not join them.
type Ledger struct {
	client *catalog.Client

	mu       sync.Mutex
	sales    []catalog.Sale
	products map[int]catalog.Product
}

// New creates an empty ledger backed by the given client
func New(client *catalog.Client) *Ledger {
	return &Ledger{client: client}
}

// Refresh reloads sales and products concurrently and joins before applying.
// If either fetch fails the whole load is treated as failed and both mirrors
// are left untouched.
func (l *Ledger) Refresh(ctx context.Context) error {
	var (
		sales    []catalog.Sale
		products []catalog.Product
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = l.client.ListSales(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = l.client.ListProducts(ctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	byID := make(map[int]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sales = sales
	l.products = byID
	return nil
}

// Record validates the draft locally, submits it, and refreshes on success.
// A validation failure never reaches the network; a remote rejection (e.g.
// insufficient stock) leaves the ledger unmodified and carries the server
// message verbatim.
func (l *Ledger) Record(ctx context.Context, draft catalog.SaleDraft) (*catalog.Sale, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	sale, err := l.client.CreateSale(ctx, draft)
	if err != nil {
		return nil, err
	}

	logger.Logger.Info().
		Int("sale_id", sale.ID).
		Int("product_id", sale.ProductID).
		Int("quantity", sale.QuantitySold).
		Msg("Sale recorded")

	if err := l.Refresh(ctx); err != nil {
		return sale, err
	}
	return sale, nil
}

// Remove deletes the sale remotely, then refreshes. The service restores the
// product stock, so the product snapshot must be reloaded too. On failure
// the mirrors are left untouched.
func (l *Ledger) Remove(ctx context.Context, id int) error {
	if err := l.client.DeleteSale(ctx, id); err != nil {
		return err
	}
	return l.Refresh(ctx)
}

// Sales returns a snapshot copy of the sale mirror
func (l *Ledger) Sales() []catalog.Sale {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make([]catalog.Sale, len(l.sales))
	copy(snapshot, l.sales)
	return snapshot
}

// Len returns the sale mirror size
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sales)
}

// ProductName resolves a product id to "Name (Size)" for display, or
// "Unknown" when the product is not in the snapshot.
func (l *Ledger) ProductName(productID int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.products[productID]; ok {
		return p.DisplayName()
	}
	return "Unknown"
}
