package dto

import (
	"time"

	"vendorhub/internal/api/models"

	"github.com/shopspring/decimal"
)

// UserResponse hides credential fields from listings.
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func FromUserModel(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

// SetStatusRequest: suspend or reactivate an account
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended"`
}

// CreateVendorProfileRequest: attach a storefront to a vendor user
type CreateVendorProfileRequest struct {
	UserID         string           `json:"user_id" binding:"required,uuid"`
	StoreName      string           `json:"store_name" binding:"required"`
	Description    *string          `json:"description,omitempty"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
}

// UpdateVendorProfileRequest: partial updates allowed
type UpdateVendorProfileRequest struct {
	StoreName      *string          `json:"store_name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
}

func (d UpdateVendorProfileRequest) ApplyTo(p *models.VendorProfile) {
	if d.StoreName != nil {
		p.StoreName = *d.StoreName
	}
	if d.Description != nil {
		p.Description = d.Description
	}
	if d.CommissionRate != nil {
		p.CommissionRate = d.CommissionRate
	}
}
