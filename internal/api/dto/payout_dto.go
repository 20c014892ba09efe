package dto

// GeneratePayoutRequest settles a vendor's delivered sales for a period
type GeneratePayoutRequest struct {
	VendorID string `json:"vendor_id" binding:"required,uuid"`
	Period   string `json:"period" binding:"required"`
}
