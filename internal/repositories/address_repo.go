package repositories

import "permata/internal/models"

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	Create(address *models.Address) error
	Update(address *models.Address) error
	GetByUser(userID string) ([]models.Address, error)
	GetByID(id string) (*models.Address, error)
	Delete(id string, userID string) error
	// ClearPrimary unsets the primary flag on all of a user's addresses,
	// so a newly chosen primary is the only one.
	ClearPrimary(userID string) error
}
