package repositories

import (
	"context"
	"permata/internal/models"
)

// WishlistStore is the storage behind a wishlist set. Two implementations
// exist: a Redis-backed store keyed by device id for guests, and a GORM-backed
// store keyed by user id for authenticated users. Add and Remove are
// idempotent set operations.
type WishlistStore interface {
	Get(ctx context.Context, ownerID string) ([]models.WishlistItem, error)
	Add(ctx context.Context, ownerID string, item models.WishlistItem) error
	Remove(ctx context.Context, ownerID string, productID string) error
	Clear(ctx context.Context, ownerID string) error
}
