package models

import "time"

type ProductCategory string

const (
	CategoryFood    ProductCategory = "food"
	CategoryDrink   ProductCategory = "drink"
	CategoryDessert ProductCategory = "dessert"
	CategorySnack   ProductCategory = "snack"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryDrink, CategoryDessert, CategorySnack:
		return true
	}
	return false
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(80);unique;not null;index" json:"name"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
	Price       float64         `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    ProductCategory `gorm:"type:varchar(20);not null" json:"category"`
	// Available=false is the soft-deleted state; unavailable products
	// stay referenced by historical order items. No column default on
	// purpose: gorm skips zero-value fields that carry one, which would
	// turn an explicit false into true on insert.
	Available bool      `gorm:"not null" json:"available"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
