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

type PayoutHandler struct {
	svc service.PayoutService
}

func NewPayoutHandler(svc service.PayoutService) *PayoutHandler {
	return &PayoutHandler{svc: svc}
}

func (h *PayoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", middleware.RequireAnyRole(models.RoleVendor, models.RoleAdmin), h.List)
	rg.GET("/:id", middleware.RequireAnyRole(models.RoleVendor, models.RoleAdmin), h.Get)
	rg.POST("/", middleware.RequireAdmin(), h.Generate)
	rg.PUT("/:id/paid", middleware.RequireAdmin(), h.MarkPaid)
}

func (h *PayoutHandler) List(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	page, pageSize := parsePagination(c)

	vendorID := c.Query("vendor_id")
	if claims.Role == models.RoleVendor {
		vendorID = claims.UserID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	payouts, total, err := h.svc.List(ctx, vendorID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       payouts,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (h *PayoutHandler) Get(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payout id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	payout, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrPayoutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payout not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if claims.Role == models.RoleVendor && payout.VendorID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your payout"})
		return
	}

	c.JSON(http.StatusOK, payout)
}

func (h *PayoutHandler) Generate(c *gin.Context) {
	var req dto.GeneratePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	payout, err := h.svc.Generate(ctx, req.VendorID, req.Period)
	if err != nil {
		if errors.Is(err, service.ErrNothingToPayOut) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no delivered sales to pay out"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, payout)
}

func (h *PayoutHandler) MarkPaid(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payout id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	payout, err := h.svc.MarkPaid(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPayoutNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "payout not found"})
		case errors.Is(err, service.ErrPayoutAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": "payout already paid"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, payout)
}
