// Package search turns a listing filter into store predicates and applies
// the text matching the store cannot do.
package search

import (
	"strings"

	"estatehub/pkg/utils"
)

// Filter is the user-edited search state. Every field except ListingType
// is optional; nil pointers and empty strings mean "not set".
type Filter struct {
	Location     string   `form:"location" json:"location"`
	Province     string   `form:"province" json:"province"`
	MinPrice     *float64 `form:"min_price" json:"min_price"`
	MaxPrice     *float64 `form:"max_price" json:"max_price"`
	PropertyType string   `form:"property_type" json:"property_type"`
	Category     string   `form:"category" json:"category"`
	Amenities    []string `form:"amenities" json:"amenities"`
	YearBuilt    *int     `form:"year_built" json:"year_built"`
	Bedrooms     *int     `form:"bedrooms" json:"bedrooms"`
	Bathrooms    *int     `form:"bathrooms" json:"bathrooms"`
	Garage       *int     `form:"garage" json:"garage"`
	Furnished    *bool    `form:"furnished" json:"furnished"`
	ListingType  string   `form:"listing_type" json:"listing_type"`
}

// Validate rejects filters that must never reach the store.
func (f Filter) Validate() error {
	if strings.TrimSpace(f.ListingType) == "" {
		return utils.ErrListingTypeRequired
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return utils.ErrInvalidPriceRange
	}
	return nil
}
