package response_models

import (
	"time"

	"github.com/google/uuid"
)

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// "day" | "week" | "month"
	Interval string `json:"interval"`
	// Optional: timezone used for bucketing (defaults to UTC if empty)
	Timezone string `json:"timezone,omitempty"`
}

type KPIBlock struct {
	TotalAccounts  int64            `json:"total_accounts"`
	AccountsByKind map[string]int64 `json:"accounts_by_kind"`
	NewAccounts    int64            `json:"new_accounts"`
	TotalListings  int64            `json:"total_listings"`
	ActiveListings int64            `json:"active_listings"`
	TotalViews     int64            `json:"total_views"`
	TotalInquiries int64            `json:"total_inquiries"`
	PendingAdmins  int64            `json:"pending_admins"`
	InquiryRatePct float64          `json:"inquiry_rate_pct"` // inquiries / views * 100
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type CountSeries struct {
	Points []SeriesPoint `json:"points"`
	Total  int64         `json:"total"`
}

// ListingBreakdown is keyed by listing type, then status.
type ListingBreakdown map[string]map[string]int64

type PackageMixItem struct {
	PackageID string  `json:"package_id"`
	PlanName  string  `json:"plan_name"`
	Count     int64   `json:"count"`
	Percent   float64 `json:"percent"`
}

type TopLocation struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

type RecentListing struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	ListingType string    `json:"listing_type"`
	Price       float64   `json:"price"`
	Province    string    `json:"province"`
	CreatedAt   string    `json:"created_at"`
}

type DashboardReport struct {
	Range          TimeRange        `json:"range"`
	KPIs           KPIBlock         `json:"kpis"`
	Listings       ListingBreakdown `json:"listings"`
	NewListings    CountSeries      `json:"new_listings"`
	NewAccounts    CountSeries      `json:"new_accounts"`
	PackageMix     []PackageMixItem `json:"package_mix"`
	TopProvinces   []TopLocation    `json:"top_provinces"`
	RecentListings []RecentListing  `json:"recent_listings"`
}

// SellerDashboard is the agent / agency view of their own portfolio.
type SellerDashboard struct {
	Listings       ListingBreakdown     `json:"listings"`
	TotalListings  int64                `json:"total_listings"`
	TotalViews     int64                `json:"total_views"`
	TotalInquiries int64                `json:"total_inquiries"`
	Subscription   SubscriptionResponse `json:"subscription"`
}
