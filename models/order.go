package models

import "time"

type Order struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`
	// Locator is the short pickup code customers use at the truck window.
	Locator     string      `gorm:"type:varchar(8);not null;index" json:"locator"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'created'" json:"status"`
	TotalAmount float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Notes       string      `gorm:"type:varchar(255)" json:"notes,omitempty"`
	Rating      *int        `json:"rating,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	PreparingAt *time.Time `json:"preparing_at,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

// RecalculateTotal sums the captured item prices. Only meaningful while
// the order is still in created status, where items may change.
func (o *Order) RecalculateTotal() {
	var total float64
	for _, item := range o.OrderItems {
		total += item.Subtotal()
	}
	o.TotalAmount = total
}

// StampTransition records when the order entered the target status.
func (o *Order) StampTransition(target OrderStatus, now time.Time) {
	switch target {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusPreparing:
		o.PreparingAt = &now
	case StatusReady:
		o.ReadyAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}
}
