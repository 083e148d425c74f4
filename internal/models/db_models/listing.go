package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

func (t ListingType) Valid() bool {
	return t == ListingTypeSale || t == ListingTypeRent
}

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusSold     ListingStatus = "sold"
	ListingStatusRented   ListingStatus = "rented"
	ListingStatusInactive ListingStatus = "inactive"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusActive, ListingStatusSold, ListingStatusRented, ListingStatusInactive:
		return true
	}
	return false
}

// ListingFeatures is stored as a jsonb bag; the json keys are the nested
// paths searched on (features.<key>).
type ListingFeatures struct {
	Pool             bool `json:"pool"`
	Garden           bool `json:"garden"`
	Security         bool `json:"security"`
	Parking          bool `json:"parking"`
	AirConditioning  bool `json:"airConditioning"`
	Gym              bool `json:"gym"`
	Balcony          bool `json:"balcony"`
	Borehole         bool `json:"borehole"`
	SolarPower       bool `json:"solarPower"`
	Internet         bool `json:"internet"`
	ElectricFence    bool `json:"electricFence"`
	ServantsQuarters bool `json:"servantsQuarters"`
	PetFriendly      bool `json:"petFriendly"`
}

// Labels lists the human-readable names of the features present, in a
// fixed order.
func (f ListingFeatures) Labels() []string {
	all := []struct {
		on    bool
		label string
	}{
		{f.Pool, "Swimming pool"},
		{f.Garden, "Garden"},
		{f.Security, "24/7 security"},
		{f.Parking, "Parking"},
		{f.AirConditioning, "Air conditioning"},
		{f.Gym, "Gym"},
		{f.Balcony, "Balcony"},
		{f.Borehole, "Borehole"},
		{f.SolarPower, "Solar power"},
		{f.Internet, "Internet"},
		{f.ElectricFence, "Electric fence"},
		{f.ServantsQuarters, "Servants quarters"},
		{f.PetFriendly, "Pet friendly"},
	}
	var out []string
	for _, a := range all {
		if a.on {
			out = append(out, a.label)
		}
	}
	return out
}

type Listing struct {
	BaseModel
	Title        string      `gorm:"not null"`
	Description  string      `gorm:"type:text"`
	Price        float64     `gorm:"index"`
	ListingType  ListingType `gorm:"size:8;index"`
	PropertyType string      `gorm:"size:32;index"`
	Category     string      `gorm:"size:32"`
	Bedrooms     int
	Bathrooms    int
	Area         float64
	Garage       int
	YearBuilt    int
	Furnished    bool
	Features     datatypes.JSONType[ListingFeatures] `gorm:"type:jsonb"`

	Province     string `gorm:"size:64;index"`
	City         string `gorm:"size:64"`
	Neighborhood string `gorm:"size:128"`
	Address      string

	Images     pq.StringArray `gorm:"type:text[]"`
	CoverIndex int

	OwnerID   uuid.UUID `gorm:"type:uuid;index"`
	OwnerKind string    `gorm:"size:16"`

	Status       ListingStatus `gorm:"size:16;index;default:active"`
	ViewCount    int64         `gorm:"default:0"`
	InquiryCount int64         `gorm:"default:0"`
}

// CoverImage returns the designated cover photo, or "" when there are none.
func (l *Listing) CoverImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[ClampCoverIndex(l.CoverIndex, len(l.Images))]
}

// ClampCoverIndex keeps idx inside [0, n).
func ClampCoverIndex(idx, n int) int {
	if n <= 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
