package dto

import (
	"vendorhub/internal/api/models"

	"github.com/shopspring/decimal"
)

// CreateProductRequest used for POST /api/products
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	SKU               string          `json:"sku" binding:"required"`
	Description       *string         `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	Stock             int             `json:"stock" binding:"gte=0"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"`
}

func (d CreateProductRequest) ToModel(vendorID string, defaultThreshold int) models.Product {
	threshold := defaultThreshold
	if d.LowStockThreshold != nil {
		threshold = *d.LowStockThreshold
	}
	return models.Product{
		VendorID:          vendorID,
		Name:              d.Name,
		SKU:               d.SKU,
		Description:       d.Description,
		Price:             d.Price,
		Stock:             d.Stock,
		LowStockThreshold: threshold,
		Active:            true,
	}
}

// UpdateProductRequest used for PUT /api/products/:id (partial updates allowed)
type UpdateProductRequest struct {
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	LowStockThreshold *int             `json:"low_stock_threshold,omitempty"`
	Active            *bool            `json:"active,omitempty"`
}

func (d UpdateProductRequest) ApplyTo(p *models.Product) {
	if d.Name != nil {
		p.Name = *d.Name
	}
	if d.Description != nil {
		p.Description = d.Description
	}
	if d.Price != nil {
		p.Price = *d.Price
	}
	if d.LowStockThreshold != nil {
		p.LowStockThreshold = *d.LowStockThreshold
	}
	if d.Active != nil {
		p.Active = *d.Active
	}
}

// AdjustStockRequest applies a signed stock delta
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}
