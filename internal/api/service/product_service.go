package service

import (
	"context"
	"errors"
	"log/slog"

	"vendorhub/internal/api/models"
	"vendorhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotOwner        = errors.New("product belongs to another vendor")
	ErrStockTooLow     = errors.New("stock cannot go negative")
)

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	Get(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, vendorID string, activeOnly bool, page, pageSize int) ([]models.Product, int64, error)
	// Update rejects writes by vendors who do not own the product; admins
	// may update any product.
	Update(ctx context.Context, actor *Claims, product *models.Product) error
	Delete(ctx context.Context, actor *Claims, id int64) error
	// AdjustStock applies a signed delta. Crossing the low-stock threshold
	// downward raises the low-stock notification to admins and the owner.
	AdjustStock(ctx context.Context, actor *Claims, id int64, delta int) (*models.Product, error)
}

type productService struct {
	repo          repository.ProductRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewProductService(repo repository.ProductRepository, notifications NotificationService, logger *slog.Logger) ProductService {
	return &productService{repo: repo, notifications: notifications, logger: logger}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	return s.repo.Create(ctx, product)
}

func (s *productService) Get(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, vendorID string, activeOnly bool, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(ctx, vendorID, activeOnly, page, pageSize)
}

func (s *productService) Update(ctx context.Context, actor *Claims, product *models.Product) error {
	existing, err := s.Get(ctx, product.ID)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin && existing.VendorID != actor.UserID {
		return ErrNotOwner
	}
	// ownership is immutable
	product.VendorID = existing.VendorID
	return s.repo.Update(ctx, product)
}

func (s *productService) Delete(ctx context.Context, actor *Claims, id int64) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin && existing.VendorID != actor.UserID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

func (s *productService) AdjustStock(ctx context.Context, actor *Claims, id int64, delta int) (*models.Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && existing.VendorID != actor.UserID {
		return nil, ErrNotOwner
	}

	wasLow := existing.LowOnStock()

	product, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockTooLow
		}
		return nil, err
	}

	if delta < 0 && !wasLow && product.LowOnStock() {
		if err := s.notifications.NotifyLowStock(ctx, product); err != nil {
			s.logger.Error("failed to send low stock notification", "product_id", product.ID, "error", err)
		}
	}

	return product, nil
}
