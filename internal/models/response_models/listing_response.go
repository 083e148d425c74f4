package response_models

import (
	"github.com/google/uuid"

	"estatehub/internal/models/db_models"
)

type ListingResponse struct {
	ID           uuid.UUID                 `json:"id"`
	Title        string                    `json:"title"`
	Description  string                    `json:"description"`
	Price        float64                   `json:"price"`
	ListingType  string                    `json:"listingType"`
	PropertyType string                    `json:"propertyType"`
	Category     string                    `json:"category"`
	Bedrooms     int                       `json:"bedrooms"`
	Bathrooms    int                       `json:"bathrooms"`
	Area         float64                   `json:"area"`
	Garage       int                       `json:"garage"`
	YearBuilt    int                       `json:"yearBuilt"`
	Furnished    bool                      `json:"furnished"`
	Features     db_models.ListingFeatures `json:"features"`
	Province     string                    `json:"province"`
	City         string                    `json:"city"`
	Neighborhood string                    `json:"neighborhood"`
	Address      string                    `json:"address"`
	Images       []string                  `json:"images"`
	CoverIndex   int                       `json:"coverIndex"`
	CoverImage   string                    `json:"coverImage"`
	OwnerID      uuid.UUID                 `json:"ownerId"`
	OwnerKind    string                    `json:"ownerKind"`
	Status       string                    `json:"status"`
	ViewCount    int64                     `json:"viewCount"`
	InquiryCount int64                     `json:"inquiryCount"`
	CreatedAt    string                    `json:"createdAt"`
	UpdatedAt    string                    `json:"updatedAt"`
}

type RejectedImage struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// ListingSaveResult is returned by create and update; rejected images do
// not fail the request.
type ListingSaveResult struct {
	Listing        ListingResponse `json:"listing"`
	RejectedImages []RejectedImage `json:"rejected_images"`
}

type SavedListingsResponse struct {
	IDs []string `json:"ids"`
}

type ViewResponse struct {
	Counted bool `json:"counted"`
}
