package models

import "time"

// WishlistItem is a favorited product with the fields needed for display.
// Membership is a set: a product id appears at most once per owner.
type WishlistItem struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}

// WishlistEntry is the persisted form of a WishlistItem for authenticated
// users, one row per (user, product).
type WishlistEntry struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    string    `json:"-" gorm:"index:idx_wishlist_user_product,unique;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"index:idx_wishlist_user_product,unique;type:varchar(36)"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}

// Item converts the persisted row back to its display form.
func (e WishlistEntry) Item() WishlistItem {
	return WishlistItem{
		ProductID: e.ProductID,
		Name:      e.Name,
		Price:     e.Price,
		ImageURL:  e.ImageURL,
		AddedAt:   e.AddedAt,
	}
}
