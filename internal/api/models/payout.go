package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout statuses.
const (
	PayoutPending = "pending"
	PayoutPaid    = "paid"
)

// Payout is a vendor settlement for a period: gross sales, the platform
// commission taken out, and the net amount owed.
type Payout struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID   string          `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Period     string          `gorm:"not null" json:"period"` // e.g. "2026-08"
	Gross      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"gross"`
	Commission decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"commission"`
	Net        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"net"`
	Status     string          `gorm:"not null;default:'pending'" json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Vendor *User `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

func (Payout) TableName() string {
	return "payouts"
}
