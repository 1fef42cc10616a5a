package repositories

import (
	"context"
	"fmt"
	"time"

	"permata/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMWishlistStore persists wishlists for authenticated users, one row per
// (user, product).
type GORMWishlistStore struct {
	db *gorm.DB
}

// NewGORMWishlistStore creates a new instance of GORMWishlistStore.
func NewGORMWishlistStore(db *gorm.DB) *GORMWishlistStore {
	return &GORMWishlistStore{
		db: db,
	}
}

// Get retrieves the wishlist of a user.
func (s *GORMWishlistStore) Get(ctx context.Context, ownerID string) ([]models.WishlistItem, error) {
	var entries []models.WishlistEntry
	if err := s.db.WithContext(ctx).Find(&entries, "user_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get wishlist for user %s: %w", ownerID, err)
	}
	items := make([]models.WishlistItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.Item())
	}
	return items, nil
}

// Add inserts a product into the wishlist. Adding a product that is already
// present keeps the existing row untouched.
func (s *GORMWishlistStore) Add(ctx context.Context, ownerID string, item models.WishlistItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	entry := models.WishlistEntry{
		UserID:    ownerID,
		ProductID: item.ProductID,
		Name:      item.Name,
		Price:     item.Price,
		ImageURL:  item.ImageURL,
		AddedAt:   item.AddedAt,
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to add product %s to wishlist: %w", item.ProductID, err)
	}
	return nil
}

// Remove deletes a product from the wishlist. Removing an absent product is
// not an error.
func (s *GORMWishlistStore) Remove(ctx context.Context, ownerID string, productID string) error {
	if err := s.db.WithContext(ctx).
		Delete(&models.WishlistEntry{}, "user_id = ? AND product_id = ?", ownerID, productID).Error; err != nil {
		return fmt.Errorf("failed to remove product %s from wishlist: %w", productID, err)
	}
	return nil
}

// Clear empties the wishlist of a user.
func (s *GORMWishlistStore) Clear(ctx context.Context, ownerID string) error {
	if err := s.db.WithContext(ctx).
		Delete(&models.WishlistEntry{}, "user_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to clear wishlist for user %s: %w", ownerID, err)
	}
	return nil
}
