package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"vendorhub/internal/api/dto"
	"vendorhub/internal/api/middleware"
	"vendorhub/internal/api/models"
	"vendorhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc         service.NotificationService
	recentLimit int
}

func NewNotificationHandler(svc service.NotificationService, recentLimit int) *NotificationHandler {
	return &NotificationHandler{svc: svc, recentLimit: recentLimit}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.PUT("/:id/read", h.MarkRead)
	rg.PUT("/read-all", h.MarkAllRead)

	// Admin-only broadcast
	rg.POST("/", middleware.RequireAdmin(), h.Send)
}

// List returns the authenticated user's notifications, newest first.
// ?unread=true narrows to unread, ?since=<id> bounds to newer records.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	onlyUnread := c.Query("unread") == "true"

	limit := h.recentLimit
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	var since int64
	if s := c.Query("since"); s != "" {
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil && parsed > 0 {
			since = parsed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notifications, err := h.svc.ListForUser(ctx, userID.(string), onlyUnread, limit, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// UnreadCount returns how many unread notifications the user has
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	count, err := h.svc.UnreadCount(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead marks a specific notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.MarkRead(ctx, userID.(string), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead marks all notifications as read for the user
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.MarkAllRead(ctx, userID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Send dispatches a notification to a user, a list of users, or a role.
// A role with zero members succeeds with an empty result; callers check
// the returned count.
func (h *NotificationHandler) Send(c *gin.Context) {
	var req dto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TargetCount() != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of user_id, user_ids, role must be set"})
		return
	}

	ntype := req.Type
	if ntype == "" {
		ntype = models.NotificationSystem
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var (
		sent []models.Notification
		err  error
	)
	switch {
	case req.UserID != "":
		var n *models.Notification
		n, err = h.svc.SendToUser(ctx, req.UserID, req.Title, req.Message, ntype, req.Meta)
		if n != nil {
			sent = []models.Notification{*n}
		}
	case len(req.UserIDs) > 0:
		sent, err = h.svc.SendToUsers(ctx, req.UserIDs, req.Title, req.Message, ntype, req.Meta)
	default:
		sent, err = h.svc.SendToRole(ctx, req.Role, req.Title, req.Message, ntype, req.Meta)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sent":          len(sent),
		"notifications": sent,
	})
}
