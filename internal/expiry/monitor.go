package expiry

import (
	"context"
	"sync"
	"time"

	"github.com/tair/hardware-inventory/internal/catalog"
	"github.com/tair/hardware-inventory/pkg/logger"
)

// Item pairs a product from the window query with its derived urgency
type Item struct {
	Product  catalog.Product
	Status   Status
	DaysLeft int
}

// Monitor mirrors the window-filtered expiring-product list. The service
// performs the date-range selection; the monitor only subdivides the result
// into urgency categories. Like the product registry, refreshes are tagged
// with a monotonic sequence number so a stale response never overwrites a
// newer one.
type Monitor struct {
	client *catalog.Client

	// now is injectable for deterministic classification in tests
	now func() time.Time

	mu     sync.Mutex
	days   int
	items  []catalog.Product
	issued uint64
}

// NewMonitor creates a monitor with the default 30-day window
func NewMonitor(client *catalog.Client) *Monitor {
	return &Monitor{
		client: client,
		now:    time.Now,
		days:   DefaultWindow,
	}
}

// Window returns the current lookahead in days
func (m *Monitor) Window() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.days
}

// SetWindow switches the lookahead and refreshes. Only the fixed window set
// is accepted.
func (m *Monitor) SetWindow(ctx context.Context, days int) error {
	if !ValidWindow(days) {
		return &catalog.ValidationError{Field: "days", Message: "unsupported expiry window"}
	}

	m.mu.Lock()
	m.days = days
	m.mu.Unlock()

	return m.Refresh(ctx)
}

// Refresh replaces the mirror with the current window query result
func (m *Monitor) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.issued++
	seq := m.issued
	days := m.days
	m.mu.Unlock()

	products, err := m.client.ExpiringProducts(ctx, days)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq < m.issued {
		logger.Logger.Debug().
			Uint64("seq", seq).
			Uint64("issued", m.issued).
			Msg("Discarding superseded expiry refresh")
		return nil
	}
	m.items = products
	return nil
}

// Items classifies the mirrored products relative to the current time.
// Classification happens on read so the urgency is never stale.
func (m *Monitor) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	items := make([]Item, 0, len(m.items))
	for _, p := range m.items {
		items = append(items, Item{
			Product:  p,
			Status:   Classify(p, now),
			DaysLeft: DaysUntil(p.ExpiryDate, now),
		})
	}
	return items
}
