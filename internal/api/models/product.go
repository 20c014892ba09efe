package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID          string          `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Name              string          `gorm:"not null" json:"name"`
	SKU               string          `gorm:"uniqueIndex;not null" json:"sku"`
	Description       *string         `json:"description,omitempty"`
	Price             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock             int             `gorm:"not null;default:0" json:"stock"`
	LowStockThreshold int             `gorm:"not null;default:5" json:"low_stock_threshold"`
	Active            bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Vendor *User `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// LowOnStock reports whether the product is at or below its reorder point.
func (p *Product) LowOnStock() bool {
	return p.Stock <= p.LowStockThreshold
}
