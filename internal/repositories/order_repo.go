package repositories

import (
	"permata/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	Create(order *models.Order) error
	// UpdateStatus moves an order from one status to another. The update is
	// conditional on the current status matching from, so concurrent admin
	// updates cannot silently overwrite each other.
	UpdateStatus(id string, from, to string) error
}
