package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"permata/internal/models"
	"permata/internal/repositories"
	"permata/pkg/geocode"
)

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Forward(ctx context.Context, query string) (*geocode.Result, error)
}

// AddressService handles saved shipping addresses. Saving an address attempts
// to geocode it; when every geocoding endpoint fails the address is saved
// without coordinates rather than failing the operation.
type AddressService struct {
	repo     repositories.AddressRepository
	geocoder Geocoder // may be nil
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo repositories.AddressRepository, geocoder Geocoder) *AddressService {
	return &AddressService{
		repo:     repo,
		geocoder: geocoder,
	}
}

// GetAddresses returns all addresses of a user, primary first.
func (s *AddressService) GetAddresses(userID string) ([]models.Address, error) {
	return s.repo.GetByUser(userID)
}

// CreateAddress saves a new address for a user, geocoding it best-effort.
func (s *AddressService) CreateAddress(ctx context.Context, address *models.Address) error {
	s.fillCoordinates(ctx, address)

	if address.IsPrimary {
		if err := s.repo.ClearPrimary(address.UserID); err != nil {
			return err
		}
	}
	return s.repo.Create(address)
}

// UpdateAddress updates an existing address owned by the user, re-geocoding
// it best-effort.
func (s *AddressService) UpdateAddress(ctx context.Context, address *models.Address) error {
	existing, err := s.repo.GetByID(address.ID)
	if err != nil {
		return err
	}
	if existing.UserID != address.UserID {
		return fmt.Errorf("address with ID %s not found", address.ID)
	}

	s.fillCoordinates(ctx, address)

	if address.IsPrimary && !existing.IsPrimary {
		if err := s.repo.ClearPrimary(address.UserID); err != nil {
			return err
		}
	}
	return s.repo.Update(address)
}

// DeleteAddress removes an address owned by the user.
func (s *AddressService) DeleteAddress(id, userID string) error {
	return s.repo.Delete(id, userID)
}

// SetPrimary makes the given address the user's only primary address.
func (s *AddressService) SetPrimary(id, userID string) error {
	address, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if address.UserID != userID {
		return fmt.Errorf("address with ID %s not found", id)
	}

	if err := s.repo.ClearPrimary(userID); err != nil {
		return err
	}
	address.IsPrimary = true
	return s.repo.Update(address)
}

// fillCoordinates geocodes the address in place. Failures only log; the
// address is still saved without coordinates.
func (s *AddressService) fillCoordinates(ctx context.Context, address *models.Address) {
	if s.geocoder == nil {
		return
	}

	query := strings.Join([]string{address.Street, address.City, address.PostalCode}, ", ")
	result, err := s.geocoder.Forward(ctx, query)
	if err != nil {
		log.Printf("Geocoding failed for address %q: %v", query, err)
		address.Latitude = nil
		address.Longitude = nil
		return
	}
	address.Latitude = &result.Latitude
	address.Longitude = &result.Longitude
}
