package models

import "time"

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order     Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint  `gorm:"not null;index" json:"product_id"`
	// ProductName and UnitPrice are snapshots taken at order creation.
	// Later catalog edits never touch them.
	ProductName string    `gorm:"type:varchar(80);not null" json:"product_name"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (it OrderItem) Subtotal() float64 {
	return it.UnitPrice * float64(it.Quantity)
}
