package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/MaximoGamba/DemoEcommers/internal/kv"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
)

// Favorites is the persisted wishlist: product snapshots keyed by product
// ID, deduplicated, in insertion order.
type Favorites struct {
	store kv.Store

	mu    sync.RWMutex
	items []models.Product
}

func NewFavorites(ctx context.Context, store kv.Store) (*Favorites, error) {
	f := &Favorites{store: store, items: []models.Product{}}

	if _, err := store.Get(ctx, kv.FavoritesKey, &f.items); err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	if f.items == nil {
		f.items = []models.Product{}
	}

	return f, nil
}

func (f *Favorites) Add(ctx context.Context, product models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.items {
		if p.ID == product.ID {
			return nil
		}
	}

	f.items = append(f.items, product)

	return f.persist(ctx)
}

func (f *Favorites) Remove(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	filtered := f.items[:0]
	for _, p := range f.items {
		if p.ID != productID {
			filtered = append(filtered, p)
		}
	}
	f.items = filtered

	return f.persist(ctx)
}

// Toggle adds the product if absent, removes it if present. Returns whether
// the product is a favorite afterwards.
func (f *Favorites) Toggle(ctx context.Context, product models.Product) (bool, error) {
	if f.Contains(product.ID) {
		return false, f.Remove(ctx, product.ID)
	}

	return true, f.Add(ctx, product)
}

func (f *Favorites) Contains(productID int64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, p := range f.items {
		if p.ID == productID {
			return true
		}
	}

	return false
}

func (f *Favorites) List() []models.Product {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Product, len(f.items))
	copy(out, f.items)

	return out
}

func (f *Favorites) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.items)
}

func (f *Favorites) persist(ctx context.Context) error {
	if err := f.store.Set(ctx, kv.FavoritesKey, f.items); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}

	return nil
}
