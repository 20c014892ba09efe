package repository

import (
	"context"
	"time"

	"vendorhub/internal/api/models"

	"gorm.io/gorm"
)

type PayoutRepository interface {
	Create(ctx context.Context, payout *models.Payout) error
	FindByID(ctx context.Context, id int64) (*models.Payout, error)
	ListByVendor(ctx context.Context, vendorID string, page, pageSize int) ([]models.Payout, int64, error)
	MarkPaid(ctx context.Context, id int64) error
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) Create(ctx context.Context, payout *models.Payout) error {
	return r.db.WithContext(ctx).Create(payout).Error
}

func (r *payoutRepository) FindByID(ctx context.Context, id int64) (*models.Payout, error) {
	var payout models.Payout
	if err := r.db.WithContext(ctx).First(&payout, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) ListByVendor(ctx context.Context, vendorID string, page, pageSize int) ([]models.Payout, int64, error) {
	var payouts []models.Payout
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Payout{})
	if vendorID != "" {
		q = q.Where("vendor_id = ?", vendorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&payouts).Error
	return payouts, total, err
}

func (r *payoutRepository) MarkPaid(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Payout{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  models.PayoutPaid,
			"paid_at": time.Now().UTC(),
		}).Error
}
