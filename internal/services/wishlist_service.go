package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"permata/internal/models"
	"permata/internal/repositories"
)

// WishlistService maintains favorited products for both guests and
// authenticated users. Guests are keyed by a client-supplied device id backed
// by the guest store; authenticated users by their user id backed by the
// remote store. On login the guest set is migrated into the user's set.
//
// Authenticated wishlists additionally support snapshot subscriptions: every
// remote mutation pushes the new whole state to all subscribers of that user.
type WishlistService struct {
	guest  repositories.WishlistStore
	remote repositories.WishlistStore

	mu      sync.Mutex
	subs    map[string]map[int]chan []models.WishlistItem // user id -> subscription id -> channel
	nextSub int
}

// NewWishlistService creates a new WishlistService over the two stores.
func NewWishlistService(guest, remote repositories.WishlistStore) *WishlistService {
	return &WishlistService{
		guest:  guest,
		remote: remote,
		subs:   make(map[string]map[int]chan []models.WishlistItem),
	}
}

// resolve picks the store and owner for a request. An authenticated user id
// wins over a device id.
func (s *WishlistService) resolve(userID, deviceID string) (repositories.WishlistStore, string, error) {
	if userID != "" {
		return s.remote, userID, nil
	}
	if deviceID != "" {
		return s.guest, deviceID, nil
	}
	return nil, "", fmt.Errorf("wishlist requires a user or device identity")
}

// List returns the wishlist of the caller.
func (s *WishlistService) List(ctx context.Context, userID, deviceID string) ([]models.WishlistItem, error) {
	store, owner, err := s.resolve(userID, deviceID)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, owner)
}

// Toggle removes the product when present and adds it when absent. It returns
// whether the product is in the wishlist after the call.
func (s *WishlistService) Toggle(ctx context.Context, userID, deviceID string, item models.WishlistItem) (bool, error) {
	store, owner, err := s.resolve(userID, deviceID)
	if err != nil {
		return false, err
	}

	items, err := store.Get(ctx, owner)
	if err != nil {
		return false, err
	}
	present := false
	for _, existing := range items {
		if existing.ProductID == item.ProductID {
			present = true
			break
		}
	}

	if present {
		if err := store.Remove(ctx, owner, item.ProductID); err != nil {
			return true, err
		}
		s.notify(ctx, userID)
		return false, nil
	}
	if err := store.Add(ctx, owner, item); err != nil {
		return false, err
	}
	s.notify(ctx, userID)
	return true, nil
}

// Add puts a product into the wishlist. Idempotent.
func (s *WishlistService) Add(ctx context.Context, userID, deviceID string, item models.WishlistItem) error {
	store, owner, err := s.resolve(userID, deviceID)
	if err != nil {
		return err
	}
	if err := store.Add(ctx, owner, item); err != nil {
		return err
	}
	s.notify(ctx, userID)
	return nil
}

// Remove deletes a product from the wishlist. Idempotent.
func (s *WishlistService) Remove(ctx context.Context, userID, deviceID string, productID string) error {
	store, owner, err := s.resolve(userID, deviceID)
	if err != nil {
		return err
	}
	if err := store.Remove(ctx, owner, productID); err != nil {
		return err
	}
	s.notify(ctx, userID)
	return nil
}

// Migrate merges a guest wishlist into a user's wishlist at login. Items
// whose product id already exists remotely are skipped, so the remote copy
// wins on conflict. After a successful merge the guest set is cleared.
func (s *WishlistService) Migrate(ctx context.Context, deviceID, userID string) error {
	if deviceID == "" || userID == "" {
		return nil // Nothing to migrate.
	}

	guestItems, err := s.guest.Get(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("failed to read guest wishlist: %w", err)
	}
	if len(guestItems) == 0 {
		return nil
	}

	remoteItems, err := s.remote.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read remote wishlist: %w", err)
	}
	existing := make(map[string]bool, len(remoteItems))
	for _, item := range remoteItems {
		existing[item.ProductID] = true
	}

	for _, item := range guestItems {
		if existing[item.ProductID] {
			continue // Remote wins on conflict.
		}
		if err := s.remote.Add(ctx, userID, item); err != nil {
			return fmt.Errorf("failed to migrate wishlist item %s: %w", item.ProductID, err)
		}
	}

	if err := s.guest.Clear(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to clear guest wishlist after migration: %w", err)
	}

	s.notify(ctx, userID)
	return nil
}

// Subscribe registers a snapshot listener for a user's wishlist. The returned
// channel receives the whole wishlist after every remote mutation. The caller
// must call Unsubscribe with the returned id when done.
func (s *WishlistService) Subscribe(userID string) (int, <-chan []models.WishlistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	ch := make(chan []models.WishlistItem, 1)
	if s.subs[userID] == nil {
		s.subs[userID] = make(map[int]chan []models.WishlistItem)
	}
	s.subs[userID][id] = ch
	return id, ch
}

// Unsubscribe tears down a single subscription.
func (s *WishlistService) Unsubscribe(userID string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if subs, ok := s.subs[userID]; ok {
		if ch, ok := subs[id]; ok {
			close(ch)
			delete(subs, id)
		}
		if len(subs) == 0 {
			delete(s.subs, userID)
		}
	}
}

// UnsubscribeAll tears down every subscription of a user. Called on logout.
func (s *WishlistService) UnsubscribeAll(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs[userID] {
		close(ch)
	}
	delete(s.subs, userID)
}

// notify pushes the current remote state to all subscribers of a user. Each
// subscriber channel holds at most one pending snapshot; a newer snapshot
// replaces an unconsumed older one, so slow consumers always see the latest
// state.
func (s *WishlistService) notify(ctx context.Context, userID string) {
	if userID == "" {
		return // Guest wishlists have no subscribers.
	}

	items, err := s.remote.Get(ctx, userID)
	if err != nil {
		log.Printf("Failed to load wishlist snapshot for user %s: %v", userID, err)
		return
	}

	// Sends happen under the lock so a concurrent Unsubscribe cannot close a
	// channel mid-send.
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs[userID] {
		select {
		case ch <- items:
		default:
			// Replace the stale pending snapshot.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- items:
			default:
			}
		}
	}
}
