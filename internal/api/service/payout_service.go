package service

import (
	"context"
	"errors"
	"log/slog"

	"vendorhub/internal/api/models"
	"vendorhub/internal/api/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPayoutNotFound    = errors.New("payout not found")
	ErrPayoutAlreadyPaid = errors.New("payout already paid")
	ErrNothingToPayOut   = errors.New("no delivered sales to pay out")
)

type PayoutService interface {
	// Generate settles a vendor's delivered sales for the period: gross
	// revenue, commission at the vendor's rate (platform default when the
	// profile has no override), net owed.
	Generate(ctx context.Context, vendorID, period string) (*models.Payout, error)
	Get(ctx context.Context, id int64) (*models.Payout, error)
	List(ctx context.Context, vendorID string, page, pageSize int) ([]models.Payout, int64, error)
	// MarkPaid flips the payout to paid and notifies the vendor.
	MarkPaid(ctx context.Context, id int64) (*models.Payout, error)
}

type payoutService struct {
	payoutRepo    repository.PayoutRepository
	orderRepo     repository.OrderRepository
	vendorRepo    repository.VendorRepository
	notifications NotificationService
	logger        *slog.Logger
	defaultRate   decimal.Decimal
}

func NewPayoutService(
	payoutRepo repository.PayoutRepository,
	orderRepo repository.OrderRepository,
	vendorRepo repository.VendorRepository,
	notifications NotificationService,
	defaultRate decimal.Decimal,
	logger *slog.Logger,
) PayoutService {
	return &payoutService{
		payoutRepo:    payoutRepo,
		orderRepo:     orderRepo,
		vendorRepo:    vendorRepo,
		notifications: notifications,
		logger:        logger,
		defaultRate:   defaultRate,
	}
}

func (s *payoutService) Generate(ctx context.Context, vendorID, period string) (*models.Payout, error) {
	summary, err := s.orderRepo.Summarize(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if summary.Revenue.IsZero() {
		return nil, ErrNothingToPayOut
	}

	rate := s.defaultRate
	if profile, err := s.vendorRepo.FindByUserID(ctx, vendorID); err == nil && profile.CommissionRate != nil {
		rate = *profile.CommissionRate
	}

	gross := summary.Revenue
	commission := gross.Mul(rate).Round(2)
	payout := &models.Payout{
		VendorID:   vendorID,
		Period:     period,
		Gross:      gross,
		Commission: commission,
		Net:        gross.Sub(commission),
		Status:     models.PayoutPending,
	}

	if err := s.payoutRepo.Create(ctx, payout); err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *payoutService) Get(ctx context.Context, id int64) (*models.Payout, error) {
	payout, err := s.payoutRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return payout, nil
}

func (s *payoutService) List(ctx context.Context, vendorID string, page, pageSize int) ([]models.Payout, int64, error) {
	return s.payoutRepo.ListByVendor(ctx, vendorID, page, pageSize)
}

func (s *payoutService) MarkPaid(ctx context.Context, id int64) (*models.Payout, error) {
	payout, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if payout.Status == models.PayoutPaid {
		return nil, ErrPayoutAlreadyPaid
	}

	if err := s.payoutRepo.MarkPaid(ctx, id); err != nil {
		return nil, err
	}
	payout.Status = models.PayoutPaid

	if err := s.notifications.NotifyPayoutPaid(ctx, payout); err != nil {
		s.logger.Error("failed to send payout notification", "payout_id", payout.ID, "error", err)
	}

	return payout, nil
}
