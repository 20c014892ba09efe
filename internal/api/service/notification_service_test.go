package service

import (
	"context"
	"errors"
	"testing"

	"vendorhub/internal/api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newNotificationService(t *testing.T) (*MockNotificationRepository, *MockUserRepository, *MockPublisher, NotificationService) {
	repo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	svc := NewNotificationService(repo, userRepo, publisher, testLogger(t))
	return repo, userRepo, publisher, svc
}

func TestSendToUser_InsertsUnreadAndPublishes(t *testing.T) {
	repo, _, publisher, svc := newNotificationService(t)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).
		Run(func(args mock.Arguments) {
			n := args.Get(1).(*models.Notification)
			n.ID = 42
		}).
		Return(nil)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)

	n, err := svc.SendToUser(context.Background(), "user-1", "Title", "Message", models.NotificationSystem, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), n.ID)
	assert.Equal(t, "user-1", n.UserID)
	assert.False(t, n.Read)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSendToUser_PublishFailureDoesNotFailSend(t *testing.T) {
	repo, _, publisher, svc := newNotificationService(t)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("*models.Notification")).
		Return(errors.New("redis down"))

	n, err := svc.SendToUser(context.Background(), "user-1", "Title", "Message", models.NotificationSystem, nil)

	assert.NoError(t, err)
	assert.NotNil(t, n)
}

func TestSendToUser_InsertFailureReturnsError(t *testing.T) {
	repo, _, publisher, svc := newNotificationService(t)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).
		Return(errors.New("db down"))

	n, err := svc.SendToUser(context.Background(), "user-1", "Title", "Message", models.NotificationSystem, nil)

	assert.Error(t, err)
	assert.Nil(t, n)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSendToRole_NoMatchingUsers(t *testing.T) {
	repo, userRepo, _, svc := newNotificationService(t)

	userRepo.On("FindByRole", mock.Anything, models.RoleVendor).Return([]models.User{}, nil)

	sent, err := svc.SendToRole(context.Background(), models.RoleVendor, "Title", "Message", models.NotificationSystem, nil)

	assert.NoError(t, err)
	assert.Empty(t, sent)
	repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestSendToRole_FansOutToActiveHolders(t *testing.T) {
	repo, userRepo, publisher, svc := newNotificationService(t)

	admins := []models.User{
		{ID: "admin-1", Role: models.RoleAdmin, Status: models.StatusActive},
		{ID: "admin-2", Role: models.RoleAdmin, Status: models.StatusActive},
	}
	userRepo.On("FindByRole", mock.Anything, models.RoleAdmin).Return(admins, nil)
	repo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]models.Notification")).Return(nil)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)

	sent, err := svc.SendToRole(context.Background(), models.RoleAdmin, "Title", "Message", models.NotificationSystem, nil)

	assert.NoError(t, err)
	assert.Len(t, sent, 2)
	assert.Equal(t, "admin-1", sent[0].UserID)
	assert.Equal(t, "admin-2", sent[1].UserID)
	publisher.AssertNumberOfCalls(t, "Publish", 2)
}

func TestSendToRole_RepoErrorPropagates(t *testing.T) {
	_, userRepo, _, svc := newNotificationService(t)

	userRepo.On("FindByRole", mock.Anything, models.RoleAdmin).
		Return(nil, errors.New("db down"))

	sent, err := svc.SendToRole(context.Background(), models.RoleAdmin, "Title", "Message", models.NotificationSystem, nil)

	assert.Error(t, err)
	assert.Nil(t, sent)
}

func TestNotifyOrderCreated_TargetsAdminsAndVendorOnly(t *testing.T) {
	repo, userRepo, publisher, svc := newNotificationService(t)

	order := &models.Order{
		ID:          7,
		OrderNumber: "ORD-7",
		CustomerID:  "customer-1",
		VendorID:    "vendor-1",
		Status:      models.OrderPending,
		TotalAmount: decimal.NewFromFloat(59.90),
	}

	userRepo.On("FindByRole", mock.Anything, models.RoleAdmin).
		Return([]models.User{{ID: "admin-1"}}, nil)

	var recipients []string
	repo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]models.Notification")).
		Run(func(args mock.Arguments) {
			for _, n := range args.Get(1).([]models.Notification) {
				recipients = append(recipients, n.UserID)
			}
		}).
		Return(nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).
		Run(func(args mock.Arguments) {
			recipients = append(recipients, args.Get(1).(*models.Notification).UserID)
		}).
		Return(nil)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)

	err := svc.NotifyOrderCreated(context.Background(), order)

	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"admin-1", "vendor-1"}, recipients)
	assert.NotContains(t, recipients, "customer-1")
}

func TestNotifyOrderStatusChanged_TargetsCustomerAndVendor(t *testing.T) {
	repo, _, publisher, svc := newNotificationService(t)

	order := &models.Order{
		ID:          7,
		OrderNumber: "ORD-7",
		CustomerID:  "customer-1",
		VendorID:    "vendor-1",
		Status:      models.OrderShipped,
	}

	var recipients []string
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).
		Run(func(args mock.Arguments) {
			n := args.Get(1).(*models.Notification)
			recipients = append(recipients, n.UserID)
			assert.Equal(t, models.NotificationStatusUpdate, n.Type)
			assert.Equal(t, models.OrderProcessing, n.Metadata["old_status"])
			assert.Equal(t, models.OrderShipped, n.Metadata["new_status"])
		}).
		Return(nil)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)

	err := svc.NotifyOrderStatusChanged(context.Background(), order, models.OrderProcessing)

	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"customer-1", "vendor-1"}, recipients)
}

func TestNotifyLowStock_CarriesStockMetadata(t *testing.T) {
	repo, userRepo, publisher, svc := newNotificationService(t)

	product := &models.Product{
		ID:                3,
		VendorID:          "vendor-1",
		Name:              "Widget",
		Stock:             2,
		LowStockThreshold: 5,
	}

	userRepo.On("FindByRole", mock.Anything, models.RoleAdmin).
		Return([]models.User{{ID: "admin-1"}}, nil)
	repo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]models.Notification")).
		Run(func(args mock.Arguments) {
			n := args.Get(1).([]models.Notification)[0]
			assert.Equal(t, models.NotificationStock, n.Type)
			assert.Equal(t, 2, n.Metadata["current_stock"])
			assert.Equal(t, 5, n.Metadata["threshold"])
		}).
		Return(nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)

	err := svc.NotifyLowStock(context.Background(), product)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotifyNewSignup_GoesToAdmins(t *testing.T) {
	repo, userRepo, publisher, svc := newNotificationService(t)

	user := &models.User{ID: "user-9", Username: "newbie", Role: models.RoleCustomer}

	userRepo.On("FindByRole", mock.Anything, models.RoleAdmin).
		Return([]models.User{{ID: "admin-1"}}, nil)
	repo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]models.Notification")).
		Run(func(args mock.Arguments) {
			n := args.Get(1).([]models.Notification)[0]
			assert.Equal(t, models.NotificationNewSignup, n.Type)
			assert.Equal(t, "admin-1", n.UserID)
		}).
		Return(nil)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)

	err := svc.NotifyNewSignup(context.Background(), user)

	assert.NoError(t, err)
}

func TestMarkRead_DelegatesWithOwnerScope(t *testing.T) {
	repo, _, _, svc := newNotificationService(t)

	repo.On("MarkRead", mock.Anything, "user-1", int64(10)).Return(nil)

	err := svc.MarkRead(context.Background(), "user-1", 10)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListForUser_PassesFilters(t *testing.T) {
	repo, _, _, svc := newNotificationService(t)

	repo.On("ListByUser", mock.Anything, "user-1", true, 20, int64(5)).
		Return([]models.Notification{{ID: 6, UserID: "user-1"}}, nil)

	notifications, err := svc.ListForUser(context.Background(), "user-1", true, 20, 5)

	assert.NoError(t, err)
	assert.Len(t, notifications, 1)
	repo.AssertExpectations(t)
}
