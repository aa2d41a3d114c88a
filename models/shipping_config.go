package models

import (
	"time"

	"gorm.io/datatypes"
)

// ShippingConfigID is the fixed key of the singleton configuration row.
const ShippingConfigID = 1

// TariffTier is a (zone, price) pair used to compute the shipping charge.
type TariffTier struct {
	Zone  string  `json:"zone"`
	Price float64 `json:"price"`
}

// DeliveryDay is a weekday rule for when orders can be delivered.
type DeliveryDay struct {
	Day     string `json:"day"`
	Enabled bool   `json:"enabled"`
	Cutoff  string `json:"cutoff,omitempty"` // "HH:MM", empty means no cutoff
}

// ShippingConfig is the singleton configuration record (ID = ShippingConfigID)
// holding shipping tariffs, delivery-day rules, catalog ordering preferences
// and the minimum order amount. The list fields are stored as JSON columns.
type ShippingConfig struct {
	ID               uint                                  `gorm:"primaryKey" json:"id"`
	ShippingTariffs  datatypes.JSONSlice[TariffTier]       `json:"shipping_tariffs"`
	DeliveryDays     datatypes.JSONSlice[DeliveryDay]      `json:"delivery_days"`
	CategoryOrder    datatypes.JSONSlice[string]           `json:"category_order"`
	SubcategoryOrder datatypes.JSONSlice[string]           `json:"subcategory_order"`
	MinimumOrder     float64                               `gorm:"not null;default:0" json:"minimum_order"`
	CreatedAt        time.Time                             `json:"created_at"`
	UpdatedAt        time.Time                             `json:"updated_at"`
}

// TableName specifies the table name for the ShippingConfig model
func (ShippingConfig) TableName() string {
	return "shipping_configs"
}
