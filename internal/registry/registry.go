package registry

import (
	"context"
	"sync"

	"github.com/tair/hardware-inventory/internal/catalog"
	"github.com/tair/hardware-inventory/pkg/logger"
)

// Registry mirrors the remote product set. The remote service is the source
// of truth; the mirror is replaced wholesale on every refresh and never
// merged or patched speculatively.
//
// Filtering is request composition, not local re-filtering: every filter
// change triggers a new remote fetch so results always reflect current
// remote state.
type Registry struct {
	client *catalog.Client

	mu       sync.Mutex
	products []catalog.Product
	filter   *catalog.Filter
	issued   uint64
}

// New creates an empty registry backed by the given client
func New(client *catalog.Client) *Registry {
	return &Registry{client: client}
}

// Refresh replaces the mirror with the remote result for the given filter.
// Each refresh is tagged with a monotonic sequence number; a response is
// applied only if it belongs to the latest issued request, so a superseded
// response can never overwrite the mirror, even when the newer request
// itself failed.
func (r *Registry) Refresh(ctx context.Context, filter *catalog.Filter) error {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.filter = filter
	r.mu.Unlock()

	products, err := r.client.ListProducts(ctx, filter)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.issued {
		logger.Logger.Debug().
			Uint64("seq", seq).
			Uint64("issued", r.issued).
			Msg("Discarding superseded product refresh")
		return nil
	}
	r.products = products
	return nil
}

// Add validates and submits a new product, then refreshes the mirror with
// the current filter.
func (r *Registry) Add(ctx context.Context, draft catalog.ProductDraft) (*catalog.Product, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	product, err := r.client.CreateProduct(ctx, draft)
	if err != nil {
		return nil, err
	}
	if err := r.Refresh(ctx, r.currentFilter()); err != nil {
		return product, err
	}
	return product, nil
}

// Update applies a partial edit remotely, then refreshes the mirror
func (r *Registry) Update(ctx context.Context, id int, patch catalog.ProductPatch) (*catalog.Product, error) {
	product, err := r.client.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if err := r.Refresh(ctx, r.currentFilter()); err != nil {
		return product, err
	}
	return product, nil
}

// Remove deletes the product remotely and drops it from the mirror only
// after remote confirmation. On failure the mirror is left untouched.
func (r *Registry) Remove(ctx context.Context, id int) error {
	if err := r.client.DeleteProduct(ctx, id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			break
		}
	}
	return nil
}

// Categories fetches the distinct categories currently in use, for the
// filter dropdown.
func (r *Registry) Categories(ctx context.Context) ([]string, error) {
	return r.client.ListCategories(ctx)
}

// Products returns a snapshot copy of the mirror
func (r *Registry) Products() []catalog.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]catalog.Product, len(r.products))
	copy(snapshot, r.products)
	return snapshot
}

// Len returns the mirror size
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products)
}

func (r *Registry) currentFilter() *catalog.Filter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter
}
