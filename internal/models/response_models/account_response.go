package response_models

import "github.com/google/uuid"

type AccountLoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}

type SubscriptionResponse struct {
	PackageID      string `json:"package_id"`
	PlanName       string `json:"plan_name"`
	ListingsUsed   int    `json:"listings_used"`
	ListingsTotal  int    `json:"listings_total"`
	ListingsLeft   int    `json:"listings_left"`
	Status         string `json:"status"`
	PeriodStart    string `json:"period_start,omitempty"`
	PeriodRenewsAt string `json:"period_renews_at,omitempty"`
}

type AccountResponse struct {
	ID              uuid.UUID            `json:"id"`
	Kind            string               `json:"kind"`
	Name            string               `json:"name"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone,omitempty"`
	Bio             string               `json:"bio,omitempty"`
	AvatarURL       string               `json:"avatar_url,omitempty"`
	CompanyName     string               `json:"company_name,omitempty"`
	LicenseNo       string               `json:"license_no,omitempty"`
	Website         string               `json:"website,omitempty"`
	Status          string               `json:"status"`
	SavedListingIDs []string             `json:"saved_listing_ids"`
	Subscription    SubscriptionResponse `json:"subscription"`
	CreatedAt       string               `json:"created_at"`
}

// PublicProfileResponse is what buyers see for an agent or agency.
type PublicProfileResponse struct {
	ID          uuid.UUID         `json:"id"`
	Kind        string            `json:"kind"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone,omitempty"`
	Bio         string            `json:"bio,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	CompanyName string            `json:"company_name,omitempty"`
	LicenseNo   string            `json:"license_no,omitempty"`
	Website     string            `json:"website,omitempty"`
	Listings    []ListingResponse `json:"listings,omitempty"`
}

type AdminResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"created_at"`
}

type AdminLoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt string        `json:"expires_at"`
	Admin     AdminResponse `json:"admin"`
}

type PackageResponse struct {
	ID               string   `json:"id"`
	Tier             int      `json:"tier"`
	Name             string   `json:"name"`
	Price            float64  `json:"price"`
	Currency         string   `json:"currency"`
	ListingsPerMonth int      `json:"listings_per_month"`
	Features         []string `json:"features"`
}
