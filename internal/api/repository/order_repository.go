package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vendorhub/internal/api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// SalesSummary is the per-vendor aggregate backing the sales view.
type SalesSummary struct {
	VendorID   string          `json:"vendor_id,omitempty"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type OrderRepository interface {
	// Create persists the order and its items and decrements product stock
	// in one transaction. A line whose quantity exceeds the available stock
	// aborts the whole transaction with ErrInsufficientStock.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, customerID, vendorID, status string, page, pageSize int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// CancelRestock marks the order cancelled and returns each line's
	// quantity to product stock, atomically.
	CancelRestock(ctx context.Context, order *models.Order) error
	// Summarize aggregates delivered orders; empty vendorID spans the
	// whole platform.
	Summarize(ctx context.Context, vendorID string) (*SalesSummary, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		assignNumber := order.OrderNumber == ""
		if assignNumber {
			// unique placeholder until the serial id is known
			order.OrderNumber = fmt.Sprintf("ORD-tmp-%d", time.Now().UnixNano())
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if assignNumber {
			order.OrderNumber = fmt.Sprintf("ORD-%d", order.ID)
			return tx.Model(&models.Order{}).
				Where("id = ?", order.ID).
				Update("order_number", order.OrderNumber).Error
		}
		return nil
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, customerID, vendorID, status string, page, pageSize int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Order{})
	if customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	if vendorID != "" {
		q = q.Where("vendor_id = ?", vendorID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) CancelRestock(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderCancelled).Error
	})
}

func (r *orderRepository) Summarize(ctx context.Context, vendorID string) (*SalesSummary, error) {
	var row struct {
		OrderCount int64
		Revenue    decimal.Decimal
	}
	q := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("status = ?", models.OrderDelivered)
	if vendorID != "" {
		q = q.Where("vendor_id = ?", vendorID)
	}
	if err := q.Scan(&row).Error; err != nil {
		return nil, err
	}
	return &SalesSummary{
		VendorID:   vendorID,
		OrderCount: row.OrderCount,
		Revenue:    row.Revenue,
	}, nil
}
