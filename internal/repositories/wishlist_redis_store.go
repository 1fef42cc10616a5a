package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"permata/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisWishlistStore holds guest wishlists in Redis, one hash per device id.
// Hash fields are product ids, values are JSON-encoded display snapshots.
// Guest wishlists expire together with the device session.
type RedisWishlistStore struct {
	rdb *redis.Client
}

// NewRedisWishlistStore creates a new instance of RedisWishlistStore.
func NewRedisWishlistStore(rdb *redis.Client) *RedisWishlistStore {
	return &RedisWishlistStore{
		rdb: rdb,
	}
}

func guestWishlistKey(deviceID string) string {
	return "wishlist:guest:" + deviceID
}

// Get retrieves the guest wishlist of a device.
func (s *RedisWishlistStore) Get(ctx context.Context, ownerID string) ([]models.WishlistItem, error) {
	values, err := s.rdb.HGetAll(ctx, guestWishlistKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get guest wishlist for device %s: %w", ownerID, err)
	}
	items := make([]models.WishlistItem, 0, len(values))
	for _, raw := range values {
		var item models.WishlistItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("failed to decode guest wishlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Add inserts a product into the guest wishlist.
func (s *RedisWishlistStore) Add(ctx context.Context, ownerID string, item models.WishlistItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist item: %w", err)
	}
	if err := s.rdb.HSet(ctx, guestWishlistKey(ownerID), item.ProductID, raw).Err(); err != nil {
		return fmt.Errorf("failed to add product %s to guest wishlist: %w", item.ProductID, err)
	}
	return nil
}

// Remove deletes a product from the guest wishlist.
func (s *RedisWishlistStore) Remove(ctx context.Context, ownerID string, productID string) error {
	if err := s.rdb.HDel(ctx, guestWishlistKey(ownerID), productID).Err(); err != nil {
		return fmt.Errorf("failed to remove product %s from guest wishlist: %w", productID, err)
	}
	return nil
}

// Clear deletes the whole guest wishlist of a device. Called after a
// successful login migration.
func (s *RedisWishlistStore) Clear(ctx context.Context, ownerID string) error {
	if err := s.rdb.Del(ctx, guestWishlistKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to clear guest wishlist for device %s: %w", ownerID, err)
	}
	return nil
}
