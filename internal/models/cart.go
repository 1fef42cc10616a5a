package models

// CartItem is one line in a session cart. Items are keyed by product id plus
// the chosen size, so the same product in two sizes occupies two lines while
// repeated adds of the same product+size only bump the quantity.
type CartItem struct {
	Key       string  `json:"key"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
}

// CartKey computes the identity key for a product and optional size.
func CartKey(productID, size string) string {
	if size == "" {
		return productID
	}
	return productID + "-" + size
}
