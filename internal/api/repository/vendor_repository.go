package repository

import (
	"context"

	"vendorhub/internal/api/models"

	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(ctx context.Context, profile *models.VendorProfile) error
	FindByUserID(ctx context.Context, userID string) (*models.VendorProfile, error)
	List(ctx context.Context, page, pageSize int) ([]models.VendorProfile, int64, error)
	Update(ctx context.Context, profile *models.VendorProfile) error
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(ctx context.Context, profile *models.VendorProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *vendorRepository) FindByUserID(ctx context.Context, userID string) (*models.VendorProfile, error) {
	var profile models.VendorProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *vendorRepository) List(ctx context.Context, page, pageSize int) ([]models.VendorProfile, int64, error) {
	var profiles []models.VendorProfile
	var total int64

	q := r.db.WithContext(ctx).Model(&models.VendorProfile{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&profiles).Error
	return profiles, total, err
}

func (r *vendorRepository) Update(ctx context.Context, profile *models.VendorProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
