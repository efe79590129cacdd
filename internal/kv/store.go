package kv

import "context"

// Store is the persistent key-value substrate for client-side state: auth
// session, favorites, viewed history, anonymous session ID. Values are
// JSON-encoded. Writes are last-writer-wins.
type Store interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	SessionKey   = "ecommerce_session_id"
	AuthKey      = "ecommerce_auth"
	FavoritesKey = "ecommerce_favorites"
	ViewedKey    = "ecommerce_viewed_products"
)
