package models

import (
	"time"
)

// Order represents a customer order. Subtotal and Total are derived fields,
// recomputed server-side after every mutation of the order's items.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	CustomerName    string      `gorm:"not null" json:"customer_name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Address         string      `json:"address"`
	Comment         string      `gorm:"type:text" json:"comment"`
	DeliveryDate    *time.Time  `json:"delivery_date"` // nullable, requested delivery day
	Confirmed       bool        `gorm:"not null;default:false" json:"confirmed"`
	Delivered       bool        `gorm:"not null;default:false" json:"delivered"`
	ShippingCharged float64     `gorm:"not null;default:0" json:"shipping_charged"`
	ShippingCost    float64     `gorm:"not null;default:0" json:"shipping_cost"`
	Subtotal        float64     `gorm:"not null;default:0" json:"subtotal"`
	Total           float64     `gorm:"not null;default:0" json:"total"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line item belonging to exactly one order. Code, Name and
// UnitPrice are snapshotted from the catalog at creation time, so later
// catalog changes never alter historical orders. ProductID is a weak
// reference kept for traceability only.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ProductID *uint     `gorm:"index" json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64   `gorm:"not null;default:0" json:"unit_price"`
	LineTotal float64   `gorm:"not null;default:0" json:"line_total"` // quantity * unit_price
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
