package models

import "gorm.io/gorm"

// Product represents an item in the store catalog.
type Product struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string   `json:"name" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	CategoryID  string   `json:"category_id" gorm:"index;type:varchar(36)"`
	Sizes       []string `json:"sizes" gorm:"serializer:json"` // e.g. ring sizes; empty for one-size items
	Stock       int      `json:"stock" validate:"gte=0"`
	Featured    bool     `json:"featured"`
	gorm.Model  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Category groups products for browsing.
type Category struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	ImageURL   string `json:"image_url" validate:"omitempty,url"`
	gorm.Model
}
