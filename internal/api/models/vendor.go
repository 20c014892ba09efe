package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorProfile is the storefront record owned by a vendor-role user.
// CommissionRate, when set, overrides the platform-wide rate for payouts.
type VendorProfile struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string           `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	StoreName      string           `gorm:"not null" json:"store_name"`
	Description    *string          `json:"description,omitempty"`
	CommissionRate *decimal.Decimal `gorm:"type:numeric(5,4)" json:"commission_rate,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (VendorProfile) TableName() string {
	return "vendor_profiles"
}
