package service

import (
	"context"
	"errors"
	"log/slog"

	"vendorhub/internal/api/models"
	"vendorhub/internal/api/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidStatus = errors.New("invalid status")
)

// UserService backs the admin users/vendors views.
type UserService interface {
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, role, status string, page, pageSize int) ([]models.User, int64, error)
	// SetStatus suspends or reactivates an account and tells the owner via
	// a system notification.
	SetStatus(ctx context.Context, id, status string) (*models.User, error)

	CreateVendorProfile(ctx context.Context, profile *models.VendorProfile) error
	GetVendorProfile(ctx context.Context, userID string) (*models.VendorProfile, error)
	ListVendors(ctx context.Context, page, pageSize int) ([]models.VendorProfile, int64, error)
	UpdateVendorProfile(ctx context.Context, profile *models.VendorProfile) error
}

type userService struct {
	userRepo      repository.UserRepository
	vendorRepo    repository.VendorRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	vendorRepo repository.VendorRepository,
	notifications NotificationService,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:      userRepo,
		vendorRepo:    vendorRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, role, status string, page, pageSize int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, role, status, page, pageSize)
}

func (s *userService) SetStatus(ctx context.Context, id, status string) (*models.User, error) {
	if status != models.StatusActive && status != models.StatusSuspended {
		return nil, ErrInvalidStatus
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if user.Status == status {
		return user, nil
	}

	if err := s.userRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	user.Status = status

	message := "Your account has been reactivated"
	if status == models.StatusSuspended {
		message = "Your account has been suspended"
	}
	if _, err := s.notifications.SendToUser(ctx, id, "Account status changed", message,
		models.NotificationSystem, models.JSONMap{"status": status}); err != nil {
		s.logger.Error("failed to notify user of status change", "user_id", id, "error", err)
	}

	return user, nil
}

func (s *userService) CreateVendorProfile(ctx context.Context, profile *models.VendorProfile) error {
	user, err := s.userRepo.FindByID(ctx, profile.UserID)
	if err != nil {
		return ErrUserNotFound
	}
	if user.Role != models.RoleVendor {
		return ErrInvalidRole
	}
	return s.vendorRepo.Create(ctx, profile)
}

func (s *userService) GetVendorProfile(ctx context.Context, userID string) (*models.VendorProfile, error) {
	return s.vendorRepo.FindByUserID(ctx, userID)
}

func (s *userService) ListVendors(ctx context.Context, page, pageSize int) ([]models.VendorProfile, int64, error) {
	return s.vendorRepo.List(ctx, page, pageSize)
}

func (s *userService) UpdateVendorProfile(ctx context.Context, profile *models.VendorProfile) error {
	return s.vendorRepo.Update(ctx, profile)
}
