package repositories

import (
	"context"
	"sync"
	"time"

	"permata/internal/models"
)

// MockWishlistStore is an in-memory implementation of WishlistStore.
type MockWishlistStore struct {
	sets map[string]map[string]models.WishlistItem
	mu   sync.RWMutex
}

// NewMockWishlistStore creates a new instance of MockWishlistStore.
func NewMockWishlistStore() *MockWishlistStore {
	return &MockWishlistStore{
		sets: make(map[string]map[string]models.WishlistItem),
	}
}

// Get returns the wishlist of an owner.
func (s *MockWishlistStore) Get(ctx context.Context, ownerID string) ([]models.WishlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.WishlistItem, 0, len(s.sets[ownerID]))
	for _, item := range s.sets[ownerID] {
		items = append(items, item)
	}
	return items, nil
}

// Add inserts a product, keeping the existing snapshot if already present.
func (s *MockWishlistStore) Add(ctx context.Context, ownerID string, item models.WishlistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sets[ownerID] == nil {
		s.sets[ownerID] = make(map[string]models.WishlistItem)
	}
	if _, ok := s.sets[ownerID][item.ProductID]; ok {
		return nil
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	s.sets[ownerID][item.ProductID] = item
	return nil
}

// Remove deletes a product; absent products are ignored.
func (s *MockWishlistStore) Remove(ctx context.Context, ownerID string, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sets[ownerID], productID)
	return nil
}

// Clear empties the wishlist of an owner.
func (s *MockWishlistStore) Clear(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sets, ownerID)
	return nil
}
