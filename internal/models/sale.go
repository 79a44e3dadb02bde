package models

import (
	"time"

	"gorm.io/gorm"
)

// Sale represents a single sales transaction.
// TotalSale and Profit are derived at creation time and never set directly.
type Sale struct {
	gorm.Model
	ItemName     string    `gorm:"not null" json:"item_name"`
	Category     string    `gorm:"not null;index" json:"category"`
	PricePerUnit float64   `gorm:"not null" json:"price_per_unit"`
	QuantitySold int       `gorm:"not null" json:"quantity_sold"`
	TotalSale    float64   `gorm:"not null" json:"total_sale"`
	Cost         float64   `gorm:"not null" json:"cost"`
	Profit       float64   `gorm:"not null" json:"profit"`
	Currency     string    `gorm:"default:TRY" json:"currency"`
	Timestamp    time.Time `gorm:"index" json:"timestamp"`
}
