package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MaximoGamba/DemoEcommers/internal/kv"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
)

// MaxViewedProducts caps the recently-viewed history.
const MaxViewedProducts = 12

// Viewed is the persisted recently-viewed history, most recent first.
// Re-viewing a product moves it to the front instead of duplicating it.
type Viewed struct {
	store kv.Store
	now   func() time.Time

	mu    sync.RWMutex
	items []models.ViewedProduct
}

func NewViewed(ctx context.Context, store kv.Store) (*Viewed, error) {
	v := &Viewed{store: store, now: time.Now, items: []models.ViewedProduct{}}

	if _, err := store.Get(ctx, kv.ViewedKey, &v.items); err != nil {
		return nil, fmt.Errorf("failed to load viewed products: %w", err)
	}

	if v.items == nil {
		v.items = []models.ViewedProduct{}
	}

	return v, nil
}

func (v *Viewed) Add(ctx context.Context, product models.Product) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := make([]models.ViewedProduct, 0, len(v.items)+1)
	filtered = append(filtered, models.ViewedProduct{Product: product, ViewedAt: v.now()})

	for _, e := range v.items {
		if e.Product.ID != product.ID {
			filtered = append(filtered, e)
		}
	}

	if len(filtered) > MaxViewedProducts {
		filtered = filtered[:MaxViewedProducts]
	}

	v.items = filtered

	if err := v.store.Set(ctx, kv.ViewedKey, v.items); err != nil {
		return fmt.Errorf("failed to persist viewed products: %w", err)
	}

	return nil
}

func (v *Viewed) List() []models.ViewedProduct {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]models.ViewedProduct, len(v.items))
	copy(out, v.items)

	return out
}

func (v *Viewed) Clear(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = []models.ViewedProduct{}

	if err := v.store.Delete(ctx, kv.ViewedKey); err != nil {
		return fmt.Errorf("failed to clear viewed products: %w", err)
	}

	return nil
}
