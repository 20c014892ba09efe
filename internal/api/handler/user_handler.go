package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"vendorhub/internal/api/dto"
	"vendorhub/internal/api/middleware"
	"vendorhub/internal/api/models"
	"vendorhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

// UserHandler backs the admin users and vendors views.
type UserHandler struct {
	users service.UserService
	auth  service.AuthService
}

func NewUserHandler(users service.UserService, auth service.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Admin-only user administration
	rg.GET("/", middleware.RequireAdmin(), h.List)
	rg.POST("/", middleware.RequireAdmin(), h.Create)
	rg.GET("/:id", middleware.RequireAdmin(), h.Get)
	rg.PUT("/:id/status", middleware.RequireAdmin(), h.SetStatus)

	// Vendor directory
	rg.GET("/vendors", middleware.RequireAdmin(), h.ListVendors)
	rg.POST("/vendors", middleware.RequireAdmin(), h.CreateVendorProfile)
	rg.GET("/vendors/me", middleware.RequireRole(models.RoleVendor), h.MyVendorProfile)
	rg.PUT("/vendors/me", middleware.RequireRole(models.RoleVendor), h.UpdateMyVendorProfile)
}

func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, total, err := h.users.List(ctx, c.Query("role"), c.Query("status"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.FromUserModel(u))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       resp,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

// Create lets an admin provision an account with any role.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.auth.Register(ctx, req.Username, req.Password, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrNameInUse) || errors.Is(err, service.ErrEmailInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "Account creation failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromUserModel(*user))
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.Get(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, dto.FromUserModel(*user))
}

func (h *UserHandler) SetStatus(c *gin.Context) {
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.SetStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromUserModel(*user))
}

func (h *UserHandler) ListVendors(c *gin.Context) {
	page, pageSize := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	vendors, total, err := h.users.ListVendors(ctx, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       vendors,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (h *UserHandler) CreateVendorProfile(c *gin.Context) {
	var req dto.CreateVendorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := models.VendorProfile{
		UserID:         req.UserID,
		StoreName:      req.StoreName,
		Description:    req.Description,
		CommissionRate: req.CommissionRate,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.users.CreateVendorProfile(ctx, &profile); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "user is not a vendor"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *UserHandler) MyVendorProfile(c *gin.Context) {
	userID, _ := c.Get("userID")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.users.GetVendorProfile(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vendor profile not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateMyVendorProfile(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req dto.UpdateVendorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.users.GetVendorProfile(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vendor profile not found"})
		return
	}

	req.ApplyTo(profile)

	if err := h.users.UpdateVendorProfile(ctx, profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}
