package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"vendorhub/internal/api/dto"
	"vendorhub/internal/api/middleware"
	"vendorhub/internal/api/models"
	"vendorhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/", middleware.RequireRole(models.RoleCustomer), h.Create)
	rg.PUT("/:id/status", middleware.RequireAnyRole(models.RoleVendor, models.RoleAdmin), h.UpdateStatus)
	rg.GET("/sales/summary", middleware.RequireAnyRole(models.RoleVendor, models.RoleAdmin), h.SalesSummary)
}

// List scopes results by role: customers see their purchases, vendors
// their sales, admins everything.
func (h *OrderHandler) List(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	page, pageSize := parsePagination(c)
	status := c.Query("status")

	var customerID, vendorID string
	switch claims.Role {
	case models.RoleCustomer:
		customerID = claims.UserID
	case models.RoleVendor:
		vendorID = claims.UserID
	default:
		customerID = c.Query("customer_id")
		vendorID = c.Query("vendor_id")
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, total, err := h.svc.List(ctx, customerID, vendorID, status, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       orders,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (h *OrderHandler) Get(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// participants only
	if claims.Role != models.RoleAdmin && order.CustomerID != claims.UserID && order.VendorID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Create(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.svc.Create(ctx, claims.UserID, lines)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
		case errors.Is(err, service.ErrMixedVendors),
			errors.Is(err, service.ErrEmptyOrder),
			errors.Is(err, service.ErrProductNotSellable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if claims.Role == models.RoleVendor && order.VendorID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return
	}

	updated, err := h.svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// SalesSummary returns delivered-order aggregates. Vendors get their own
// numbers; admins may ask for any vendor or the whole platform.
func (h *OrderHandler) SalesSummary(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	vendorID := c.Query("vendor_id")
	if claims.Role == models.RoleVendor {
		vendorID = claims.UserID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.svc.SalesSummary(ctx, vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
