package services

import (
	"sort"
	"sync"

	"permata/internal/models"
)

// CartService maintains the in-memory cart of every active session. A session
// is identified by the authenticated user id. Carts are not persisted; they
// live for the lifetime of the process.
type CartService struct {
	carts map[string]map[string]models.CartItem // session -> item key -> item
	mu    sync.RWMutex
}

// NewCartService creates a new CartService.
func NewCartService() *CartService {
	return &CartService{
		carts: make(map[string]map[string]models.CartItem),
	}
}

// Add puts an item into the session cart. The item is keyed by product id
// plus the chosen size; adding an item whose key already exists increments
// the existing quantity instead of inserting a duplicate. A quantity below 1
// defaults to 1.
func (s *CartService) Add(sessionID string, item models.CartItem) models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.Key = models.CartKey(item.ProductID, item.Size)

	cart := s.carts[sessionID]
	if cart == nil {
		cart = make(map[string]models.CartItem)
		s.carts[sessionID] = cart
	}

	if existing, ok := cart[item.Key]; ok {
		existing.Quantity += item.Quantity
		cart[item.Key] = existing
		return existing
	}
	cart[item.Key] = item
	return item
}

// Remove deletes an item from the session cart. Removing an absent key is a
// no-op.
func (s *CartService) Remove(sessionID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts[sessionID], key)
}

// RemoveMany deletes several items at once.
func (s *CartService) RemoveMany(sessionID string, keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.carts[sessionID], key)
	}
}

// UpdateQuantity sets the quantity of an item directly. A quantity below 1
// removes the item. There is no upper bound.
func (s *CartService) UpdateQuantity(sessionID, key string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[sessionID]
	if cart == nil {
		return
	}
	if quantity < 1 {
		delete(cart, key)
		return
	}
	item, ok := cart[key]
	if !ok {
		return
	}
	item.Quantity = quantity
	cart[key] = item
}

// Clear empties the session cart unconditionally.
func (s *CartService) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
}

// Items returns the cart contents ordered by item key.
func (s *CartService) Items(sessionID string) []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart := s.carts[sessionID]
	items := make([]models.CartItem, 0, len(cart))
	for _, item := range cart {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Key < items[j].Key
	})
	return items
}

// Get returns a single cart item by key.
func (s *CartService) Get(sessionID, key string) (models.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.carts[sessionID][key]
	return item, ok
}

// Count returns the sum of all quantities in the session cart.
func (s *CartService) Count(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	for _, item := range s.carts[sessionID] {
		count += item.Quantity
	}
	return count
}

// Total sums price multiplied by quantity over the given keys. A nil key set
// totals the whole cart; keys not present in the cart are ignored. Checkout
// uses the subset form to total only the items the user selected.
func (s *CartService) Total(sessionID string, keys []string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart := s.carts[sessionID]
	if keys == nil {
		var total float64
		for _, item := range cart {
			total += item.Price * float64(item.Quantity)
		}
		return total
	}

	var total float64
	for _, key := range keys {
		if item, ok := cart[key]; ok {
			total += item.Price * float64(item.Quantity)
		}
	}
	return total
}
