package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Transitions only move forward through the chain
// pending -> processing -> shipped -> delivered; cancelled is terminal and
// only reachable from pending or processing.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string          `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerID  string          `gorm:"type:uuid;not null;index" json:"customer_id"`
	VendorID    string          `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Status      string          `gorm:"not null;default:'pending';index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Customer *User       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vendor   *User       `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	ProductID int64           `gorm:"not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal is quantity x unit price for a single line.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
