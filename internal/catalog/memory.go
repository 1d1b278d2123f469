package catalog

import (
	"context"
	"sync"

	"github.com/dheras/foodcourt/internal/domain"
)

// Ensure Memory implements the port at compile time.
var _ Reader = (*Memory)(nil)

// Memory is an in-memory Reader intended for local development and tests,
// where no catalog database is reachable.
type Memory struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewMemory returns an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{products: make(map[string]Product)}
}

// Put adds or replaces a product.
func (m *Memory) Put(p Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// Delete removes a product, simulating a catalog entry disappearing.
func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
}

func (m *Memory) Product(ctx context.Context, id string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return Product{}, domain.NotFoundf("product %s not found", id)
	}
	return p, nil
}
