package models

import "gorm.io/gorm"

// Address is a saved shipping address. Coordinates are filled in by the
// geocoder when available; an address without coordinates is still valid.
type Address struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string   `json:"user_id" gorm:"index;type:varchar(36)"`
	Label      string   `json:"label" validate:"required,max=50"`
	Recipient  string   `json:"recipient" validate:"required,max=100"`
	Phone      string   `json:"phone" validate:"required,max=20"`
	Street     string   `json:"street" validate:"required,max=200"`
	City       string   `json:"city" validate:"required,max=100"`
	PostalCode string   `json:"postal_code" validate:"required,max=10"`
	IsPrimary  bool     `json:"is_primary"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	gorm.Model
}
