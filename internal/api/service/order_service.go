package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vendorhub/internal/api/models"
	"vendorhub/internal/api/repository"
	"vendorhub/internal/cache"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrMixedVendors       = errors.New("order items span multiple vendors")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInsufficientStock  = repository.ErrInsufficientStock
	ErrProductNotSellable = errors.New("product is not available for sale")
)

// Allowed forward transitions per status. Cancelled and delivered are
// terminal.
var orderTransitions = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

// OrderLine is a requested product/quantity pair on a new order.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

type OrderService interface {
	// Create validates the lines, decrements stock and persists the order
	// atomically, then raises the order-created notifications. All lines
	// must belong to a single vendor.
	Create(ctx context.Context, customerID string, lines []OrderLine) (*models.Order, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, customerID, vendorID, status string, page, pageSize int) ([]models.Order, int64, error)
	// UpdateStatus enforces the forward-only transition chain. Cancelling
	// restores stock for every line.
	UpdateStatus(ctx context.Context, id int64, newStatus string) (*models.Order, error)
	// SalesSummary aggregates delivered orders, served from the Redis cache
	// when fresh.
	SalesSummary(ctx context.Context, vendorID string) (*repository.SalesSummary, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	notifications NotificationService
	sales         *cache.SalesCache
	logger        *slog.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notifications NotificationService,
	sales *cache.SalesCache,
	logger *slog.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		notifications: notifications,
		sales:         sales,
		logger:        logger,
	}
}

func (s *orderService) Create(ctx context.Context, customerID string, lines []OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var (
		vendorID string
		items    []models.OrderItem
		total    = decimal.Zero
		products []*models.Product
	)
	for _, line := range lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if !product.Active {
			return nil, ErrProductNotSellable
		}
		if vendorID == "" {
			vendorID = product.VendorID
		} else if vendorID != product.VendorID {
			return nil, ErrMixedVendors
		}

		item := models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		}
		items = append(items, item)
		total = total.Add(item.Subtotal())
		products = append(products, product)
	}

	order := &models.Order{
		CustomerID:  customerID,
		VendorID:    vendorID,
		Status:      models.OrderPending,
		TotalAmount: total,
		Items:       items,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.notifications.NotifyOrderCreated(ctx, order); err != nil {
		s.logger.Error("failed to send order created notifications", "order_id", order.ID, "error", err)
	}

	// Stock moved; re-check each line's product for the low-stock warning.
	for _, p := range products {
		updated, err := s.productRepo.FindByID(ctx, p.ID)
		if err != nil {
			continue
		}
		if !p.LowOnStock() && updated.LowOnStock() {
			if err := s.notifications.NotifyLowStock(ctx, updated); err != nil {
				s.logger.Error("failed to send low stock notification", "product_id", updated.ID, "error", err)
			}
		}
	}

	return order, nil
}

func (s *orderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, customerID, vendorID, status string, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(ctx, customerID, vendorID, status, page, pageSize)
}

func (s *orderService) UpdateStatus(ctx context.Context, id int64, newStatus string) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	oldStatus := order.Status
	if newStatus == models.OrderCancelled {
		if err := s.orderRepo.CancelRestock(ctx, order); err != nil {
			return nil, err
		}
	} else {
		if err := s.orderRepo.UpdateStatus(ctx, id, newStatus); err != nil {
			return nil, err
		}
	}
	order.Status = newStatus

	if err := s.notifications.NotifyOrderStatusChanged(ctx, order, oldStatus); err != nil {
		s.logger.Error("failed to send status change notifications", "order_id", order.ID, "error", err)
	}

	if newStatus == models.OrderDelivered && s.sales != nil {
		// delivered orders feed the sales summary; drop the stale entry
		s.sales.Invalidate(ctx, order.VendorID)
	}

	return order, nil
}

func (s *orderService) SalesSummary(ctx context.Context, vendorID string) (*repository.SalesSummary, error) {
	if s.sales != nil {
		if summary, ok := s.sales.Get(ctx, vendorID); ok {
			return summary, nil
		}
	}

	summary, err := s.orderRepo.Summarize(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	if s.sales != nil {
		s.sales.Set(ctx, vendorID, summary)
	}
	return summary, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
