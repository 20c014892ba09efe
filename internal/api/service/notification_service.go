package service

import (
	"context"
	"fmt"
	"log/slog"

	"vendorhub/internal/api/models"
	"vendorhub/internal/api/repository"
)

// NotificationPublisher pushes a committed notification onto the realtime
// feed. Publishing is best-effort: the row in the notifications table is the
// source of truth and a missed publish only delays delivery until the next
// snapshot.
type NotificationPublisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

type NotificationService interface {
	// SendToUser inserts one unread notification for a single user.
	SendToUser(ctx context.Context, userID, title, message, ntype string, metadata models.JSONMap) (*models.Notification, error)
	// SendToUsers inserts one notification per id in a single batch; the
	// batch lands or fails as a whole.
	SendToUsers(ctx context.Context, userIDs []string, title, message, ntype string, metadata models.JSONMap) ([]models.Notification, error)
	// SendToRole fans out to every active user holding the role. Zero
	// matching users is not an error: the result is an empty slice and no
	// rows are inserted.
	SendToRole(ctx context.Context, role, title, message, ntype string, metadata models.JSONMap) ([]models.Notification, error)

	// Composers. Each issues independent dispatches with no transactional
	// linkage: if a later dispatch fails after an earlier one succeeded the
	// delivered subset stays delivered.
	NotifyOrderCreated(ctx context.Context, order *models.Order) error
	NotifyOrderStatusChanged(ctx context.Context, order *models.Order, oldStatus string) error
	NotifyLowStock(ctx context.Context, product *models.Product) error
	NotifyNewSignup(ctx context.Context, user *models.User) error
	NotifyPayoutPaid(ctx context.Context, payout *models.Payout) error

	ListForUser(ctx context.Context, userID string, onlyUnread bool, limit int, sinceID int64) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string, id int64) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo      repository.NotificationRepository
	userRepo  repository.UserRepository
	publisher NotificationPublisher
	logger    *slog.Logger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher NotificationPublisher,
	logger *slog.Logger,
) NotificationService {
	return &notificationService{
		repo:      repo,
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *notificationService) SendToUser(ctx context.Context, userID, title, message, ntype string, metadata models.JSONMap) (*models.Notification, error) {
	n := models.Notification{
		UserID:   userID,
		Type:     ntype,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		return nil, err
	}
	s.publish(ctx, &n)
	return &n, nil
}

func (s *notificationService) SendToUsers(ctx context.Context, userIDs []string, title, message, ntype string, metadata models.JSONMap) ([]models.Notification, error) {
	if len(userIDs) == 0 {
		return []models.Notification{}, nil
	}

	notifications := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, models.Notification{
			UserID:   id,
			Type:     ntype,
			Title:    title,
			Message:  message,
			Metadata: metadata,
		})
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return nil, err
	}
	for i := range notifications {
		s.publish(ctx, &notifications[i])
	}
	return notifications, nil
}

func (s *notificationService) SendToRole(ctx context.Context, role, title, message, ntype string, metadata models.JSONMap) ([]models.Notification, error) {
	users, err := s.userRepo.FindByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role %q: %w", role, err)
	}
	if len(users) == 0 {
		return []models.Notification{}, nil
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return s.SendToUsers(ctx, ids, title, message, ntype, metadata)
}

func (s *notificationService) NotifyOrderCreated(ctx context.Context, order *models.Order) error {
	metadata := models.JSONMap{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
		"vendor_id":    order.VendorID,
		"status":       order.Status,
		"total_amount": order.TotalAmount.String(),
	}
	title := "New order received"
	message := fmt.Sprintf("Order %s was placed for %s", order.OrderNumber, order.TotalAmount.StringFixed(2))

	if _, err := s.SendToRole(ctx, models.RoleAdmin, title, message, models.NotificationOrder, metadata); err != nil {
		return err
	}
	_, err := s.SendToUser(ctx, order.VendorID, title, message, models.NotificationOrder, metadata)
	return err
}

func (s *notificationService) NotifyOrderStatusChanged(ctx context.Context, order *models.Order, oldStatus string) error {
	metadata := models.JSONMap{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"old_status":   oldStatus,
		"new_status":   order.Status,
	}
	title := "Order status updated"
	message := fmt.Sprintf("Order %s moved from %s to %s", order.OrderNumber, oldStatus, order.Status)

	if _, err := s.SendToUser(ctx, order.CustomerID, title, message, models.NotificationStatusUpdate, metadata); err != nil {
		return err
	}
	_, err := s.SendToUser(ctx, order.VendorID, title, message, models.NotificationStatusUpdate, metadata)
	return err
}

func (s *notificationService) NotifyLowStock(ctx context.Context, product *models.Product) error {
	metadata := models.JSONMap{
		"product_id":    product.ID,
		"product_name":  product.Name,
		"current_stock": product.Stock,
		"threshold":     product.LowStockThreshold,
	}
	title := "Low stock warning"
	message := fmt.Sprintf("%s is down to %d units (threshold %d)", product.Name, product.Stock, product.LowStockThreshold)

	if _, err := s.SendToRole(ctx, models.RoleAdmin, title, message, models.NotificationStock, metadata); err != nil {
		return err
	}
	_, err := s.SendToUser(ctx, product.VendorID, title, message, models.NotificationStock, metadata)
	return err
}

func (s *notificationService) NotifyNewSignup(ctx context.Context, user *models.User) error {
	metadata := models.JSONMap{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}
	message := fmt.Sprintf("%s signed up as %s", user.Username, user.Role)

	_, err := s.SendToRole(ctx, models.RoleAdmin, "New signup", message, models.NotificationNewSignup, metadata)
	return err
}

func (s *notificationService) NotifyPayoutPaid(ctx context.Context, payout *models.Payout) error {
	metadata := models.JSONMap{
		"payout_id": payout.ID,
		"period":    payout.Period,
		"net":       payout.Net.String(),
	}
	message := fmt.Sprintf("Payout of %s for %s has been sent", payout.Net.StringFixed(2), payout.Period)

	_, err := s.SendToUser(ctx, payout.VendorID, "Payout sent", message, models.NotificationPayment, metadata)
	return err
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, onlyUnread bool, limit int, sinceID int64) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, onlyUnread, limit, sinceID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, id int64) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) publish(ctx context.Context, n *models.Notification) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Error("failed to publish notification", "id", n.ID, "user_id", n.UserID, "error", err)
	}
}
