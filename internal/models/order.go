package models

import "time"

// Order statuses. Orders start pending; an admin moves them to shipping or
// cancelled, and shipping orders to completed. There are no other transitions.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipping  = "shipping"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Payment methods and states.
const (
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// OrderItem is a snapshot of a cart line at checkout time. Price and name are
// copied, not referenced, so later catalog or cart edits never change a
// placed order.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"` // Price at the time of order
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url"`
	Size      string  `json:"size,omitempty"`
}

// Order represents a customer order.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber   string      `json:"order_number" gorm:"uniqueIndex;type:varchar(40)"`
	UserID        string      `json:"user_id" gorm:"index;type:varchar(36)"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal      float64     `json:"subtotal"`
	ShippingFee   float64     `json:"shipping_fee"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"payment_method"`
	PaymentStatus string      `json:"payment_status"`
	Status        string      `json:"status"`

	// Shipping address snapshot.
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidTransition reports whether an order may move from one status to
// another.
func ValidTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusShipping || to == OrderStatusCancelled
	case OrderStatusShipping:
		return to == OrderStatusCompleted
	default:
		return false
	}
}
