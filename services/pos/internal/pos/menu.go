package pos

import (
	"context"
	"sync"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// menuCache holds the products the terminal last listed, keyed by id.
// Adding to the cart reads from it and only misses go to the backend.
type menuCache struct {
	mu       sync.RWMutex
	products map[string]api.Product
}

func newMenuCache() *menuCache {
	return &menuCache{products: make(map[string]api.Product)}
}

// replace swaps the whole menu for a freshly listed one.
func (m *menuCache) replace(products []api.Product) {
	next := make(map[string]api.Product, len(products))
	for _, p := range products {
		next[p.ID.String()] = p
	}
	m.mu.Lock()
	m.products = next
	m.mu.Unlock()
}

func (m *menuCache) put(p api.Product) {
	m.mu.Lock()
	m.products[p.ID.String()] = p
	m.mu.Unlock()
}

func (m *menuCache) get(id string) (api.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	return p, ok
}

// lookup returns the cached product or fetches and caches it.
func (m *menuCache) lookup(ctx context.Context, id string, source ProductAPI) (api.Product, error) {
	if p, ok := m.get(id); ok {
		return p, nil
	}
	if source == nil {
		return api.Product{}, errCatalogNotConfigured
	}
	p, err := source.GetProduct(ctx, id)
	if err != nil {
		return api.Product{}, err
	}
	m.put(*p)
	return *p, nil
}
