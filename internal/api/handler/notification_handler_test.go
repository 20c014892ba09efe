package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vendorhub/internal/api/dto"
	"vendorhub/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotificationService mocks the NotificationService interface
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendToUser(ctx context.Context, userID, title, message, ntype string, metadata models.JSONMap) (*models.Notification, error) {
	args := m.Called(ctx, userID, title, message, ntype, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationService) SendToUsers(ctx context.Context, userIDs []string, title, message, ntype string, metadata models.JSONMap) ([]models.Notification, error) {
	args := m.Called(ctx, userIDs, title, message, ntype, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) SendToRole(ctx context.Context, role, title, message, ntype string, metadata models.JSONMap) ([]models.Notification, error) {
	args := m.Called(ctx, role, title, message, ntype, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) NotifyOrderCreated(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyOrderStatusChanged(ctx context.Context, order *models.Order, oldStatus string) error {
	args := m.Called(ctx, order, oldStatus)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyLowStock(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyNewSignup(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyPayoutPaid(ctx context.Context, payout *models.Payout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockNotificationService) ListForUser(ctx context.Context, userID string, onlyUnread bool, limit int, sinceID int64) ([]models.Notification, error) {
	args := m.Called(ctx, userID, onlyUnread, limit, sinceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID string, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// asUser injects the context keys AuthMiddleware would set.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func TestListNotifications(t *testing.T) {
	svc := new(MockNotificationService)
	handler := NewNotificationHandler(svc, 20)
	router := setupRouter()
	router.GET("/notifications", asUser("user-1"), handler.List)

	svc.On("ListForUser", mock.Anything, "user-1", false, 20, int64(0)).
		Return([]models.Notification{
			{ID: 2, UserID: "user-1", Type: models.NotificationOrder, Title: "New order received"},
			{ID: 1, UserID: "user-1", Type: models.NotificationSystem, Title: "Welcome"},
		}, nil)

	req, _ := http.NewRequest("GET", "/notifications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Notifications []models.Notification `json:"notifications"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Notifications, 2)
	assert.Equal(t, int64(2), response.Notifications[0].ID)
	svc.AssertExpectations(t)
}

func TestListNotifications_UnreadAndSinceFilters(t *testing.T) {
	svc := new(MockNotificationService)
	handler := NewNotificationHandler(svc, 20)
	router := setupRouter()
	router.GET("/notifications", asUser("user-1"), handler.List)

	svc.On("ListForUser", mock.Anything, "user-1", true, 10, int64(5)).
		Return([]models.Notification{}, nil)

	req, _ := http.NewRequest("GET", "/notifications?unread=true&limit=10&since=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUnreadCount(t *testing.T) {
	svc := new(MockNotificationService)
	handler := NewNotificationHandler(svc, 20)
	router := setupRouter()
	router.GET("/notifications/unread-count", asUser("user-1"), handler.UnreadCount)

	svc.On("UnreadCount", mock.Anything, "user-1").Return(int64(3), nil)

	req, _ := http.NewRequest("GET", "/notifications/unread-count", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]int64
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(3), response["unread_count"])
}

func TestMarkRead(t *testing.T) {
	svc := new(MockNotificationService)
	handler := NewNotificationHandler(svc, 20)
	router := setupRouter()
	router.PUT("/notifications/:id/read", asUser("user-1"), handler.MarkRead)

	svc.On("MarkRead", mock.Anything, "user-1", int64(7)).Return(nil)

	req, _ := http.NewRequest("PUT", "/notifications/7/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestMarkRead_InvalidID(t *testing.T) {
	svc := new(MockNotificationService)
	handler := NewNotificationHandler(svc, 20)
	router := setupRouter()
	router.PUT("/notifications/:id/read", asUser("user-1"), handler.MarkRead)

	req, _ := http.NewRequest("PUT", "/notifications/abc/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAllRead(t *testing.T) {
	svc := new(MockNotificationService)
	handler := NewNotificationHandler(svc, 20)
	router := setupRouter()
	router.PUT("/notifications/read-all", asUser("user-1"), handler.MarkAllRead)

	svc.On("MarkAllRead", mock.Anything, "user-1").Return(nil)

	req, _ := http.NewRequest("PUT", "/notifications/read-all", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestSendNotification_ToRole(t *testing.T) {
	svc := new(MockNotificationService)
	handler := NewNotificationHandler(svc, 20)
	router := setupRouter()
	router.POST("/notifications", handler.Send)

	svc.On("SendToRole", mock.Anything, models.RoleVendor, "Maintenance", "Scheduled downtime tonight", models.NotificationSystem, models.JSONMap(nil)).
		Return([]models.Notification{
			{ID: 1, UserID: "vendor-1"},
			{ID: 2, UserID: "vendor-2"},
		}, nil)

	body, _ := json.Marshal(dto.SendNotificationRequest{
		Role:    models.RoleVendor,
		Title:   "Maintenance",
		Message: "Scheduled downtime tonight",
	})

	req, _ := http.NewRequest("POST", "/notifications", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Sent int `json:"sent"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 2, response.Sent)
}

func TestSendNotification_EmptyRoleStillSucceeds(t *testing.T) {
	svc := new(MockNotificationService)
	handler := NewNotificationHandler(svc, 20)
	router := setupRouter()
	router.POST("/notifications", handler.Send)

	svc.On("SendToRole", mock.Anything, models.RoleVendor, "Hello", "World", models.NotificationSystem, models.JSONMap(nil)).
		Return([]models.Notification{}, nil)

	body, _ := json.Marshal(dto.SendNotificationRequest{
		Role:    models.RoleVendor,
		Title:   "Hello",
		Message: "World",
	})

	req, _ := http.NewRequest("POST", "/notifications", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Sent int `json:"sent"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 0, response.Sent)
}

func TestSendNotification_RequiresExactlyOneTarget(t *testing.T) {
	svc := new(MockNotificationService)
	handler := NewNotificationHandler(svc, 20)
	router := setupRouter()
	router.POST("/notifications", handler.Send)

	// both a user and a role set
	body, _ := json.Marshal(dto.SendNotificationRequest{
		UserID:  "user-1",
		Role:    models.RoleVendor,
		Title:   "Hello",
		Message: "World",
	})

	req, _ := http.NewRequest("POST", "/notifications", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "SendToRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
