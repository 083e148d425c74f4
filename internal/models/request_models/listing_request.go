package request_models

import "estatehub/internal/models/db_models"

// ListingInput is the JSON carried in the "listing" multipart field.
type ListingInput struct {
	Title        string                    `json:"title" binding:"required,max=200"`
	Description  string                    `json:"description" binding:"max=10000"`
	Price        float64                   `json:"price" binding:"gte=0"`
	ListingType  string                    `json:"listingType" binding:"required,oneof=sale rent"`
	PropertyType string                    `json:"propertyType" binding:"required,max=32"`
	Category     string                    `json:"category" binding:"omitempty,max=32"`
	Bedrooms     int                       `json:"bedrooms" binding:"gte=0"`
	Bathrooms    int                       `json:"bathrooms" binding:"gte=0"`
	Area         float64                   `json:"area" binding:"gte=0"`
	Garage       int                       `json:"garage" binding:"gte=0"`
	YearBuilt    int                       `json:"yearBuilt" binding:"omitempty,gte=1800,lte=2100"`
	Furnished    bool                      `json:"furnished"`
	Features     db_models.ListingFeatures `json:"features"`
	Province     string                    `json:"province" binding:"required,max=64"`
	City         string                    `json:"city" binding:"max=64"`
	Neighborhood string                    `json:"neighborhood" binding:"max=128"`
	Address      string                    `json:"address" binding:"required,max=300"`
	CoverIndex   int                       `json:"coverIndex" binding:"gte=0"`
}

type InquiryRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
	Message string `json:"message" binding:"required,max=5000"`
}
