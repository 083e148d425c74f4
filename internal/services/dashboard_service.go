package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbm "estatehub/internal/models/db_models"
	resp "estatehub/internal/models/response_models"
	"estatehub/internal/repositories"
	"estatehub/pkg/utils"
)

type DashboardService interface {
	BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error)
	BuildSellerDashboard(ctx context.Context, accountID uuid.UUID) (*resp.SellerDashboard, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	subs SubscriptionServiceInterface
	log  *zap.Logger
}

func NewDashboardService(repo repositories.DashboardRepository, subs SubscriptionServiceInterface, log *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, subs: subs, log: log}
}

// normalizeRange ensures sane defaults and ordering
func normalizeRange(r resp.TimeRange) resp.TimeRange {
	out := r
	if out.Interval == "" {
		out.Interval = "day"
	}
	if out.End.IsZero() {
		out.End = time.Now().UTC()
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -30) // last 30 days default
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

func breakdown(rows []repositories.ListingBucket) (resp.ListingBreakdown, int64, int64) {
	out := resp.ListingBreakdown{}
	var total, active int64
	for _, r := range rows {
		if out[r.ListingType] == nil {
			out[r.ListingType] = map[string]int64{}
		}
		out[r.ListingType][r.Status] += r.Count
		total += r.Count
		if r.Status == string(dbm.ListingStatusActive) {
			active += r.Count
		}
	}
	return out, total, active
}

func toSeries(rows []repositories.BucketSum) resp.CountSeries {
	series := resp.CountSeries{Points: make([]resp.SeriesPoint, 0, len(rows))}
	for _, r := range rows {
		series.Points = append(series.Points, resp.SeriesPoint{Bucket: r.Bucket, Value: r.Sum})
		series.Total += r.Sum
	}
	return series
}

func (s *dashboardService) fail(step string, err error) error {
	s.log.Error("dashboard query failed", zap.String("step", step), zap.Error(err))
	return utils.ErrDatabaseError
}

func (s *dashboardService) BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error) {
	rng = normalizeRange(rng)

	// ---------- Core counts ----------
	kindRows, err := s.repo.CountAccountsByKind(ctx)
	if err != nil {
		return nil, s.fail("accounts by kind", err)
	}
	byKind := make(map[string]int64, len(kindRows))
	var totalAccounts int64
	for _, r := range kindRows {
		byKind[r.Kind] = r.Count
		totalAccounts += r.Count
	}

	newAccounts, err := s.repo.CountNewAccounts(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, s.fail("new accounts", err)
	}

	listingRows, err := s.repo.CountListingsByTypeAndStatus(ctx, nil)
	if err != nil {
		return nil, s.fail("listings by type", err)
	}
	listings, totalListings, activeListings := breakdown(listingRows)

	engagement, err := s.repo.SumEngagement(ctx, nil)
	if err != nil {
		return nil, s.fail("engagement", err)
	}
	var inquiryRate float64
	if engagement.Views > 0 {
		inquiryRate = float64(engagement.Inquiries) * 100.0 / float64(engagement.Views)
	}

	pendingAdmins, err := s.repo.CountAdminsByStatus(ctx, dbm.AdminStatusPending)
	if err != nil {
		return nil, s.fail("pending admins", err)
	}

	// ---------- Series ----------
	listingSeries, err := s.repo.NewListingsSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
	if err != nil {
		return nil, s.fail("listing series", err)
	}
	accountSeries, err := s.repo.NewAccountsSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
	if err != nil {
		return nil, s.fail("account series", err)
	}

	// ---------- Package mix ----------
	mixRows, err := s.repo.PackageMix(ctx)
	if err != nil {
		return nil, s.fail("package mix", err)
	}
	var totalActive float64
	for _, r := range mixRows {
		totalActive += float64(r.Count)
	}
	mix := make([]resp.PackageMixItem, 0, len(mixRows))
	for _, r := range mixRows {
		var pct float64
		if totalActive > 0 {
			pct = float64(r.Count) * 100.0 / totalActive
		}
		name := r.PackageID
		if p, ok := FindPackage(r.PackageID); ok {
			name = p.Name
		}
		mix = append(mix, resp.PackageMixItem{
			PackageID: r.PackageID,
			PlanName:  name,
			Count:     r.Count,
			Percent:   pct,
		})
	}

	// ---------- Top locations ----------
	locRows, err := s.repo.TopProvinces(ctx, 10)
	if err != nil {
		return nil, s.fail("top provinces", err)
	}
	topProvinces := make([]resp.TopLocation, 0, len(locRows))
	for _, r := range locRows {
		topProvinces = append(topProvinces, resp.TopLocation{Location: r.Location, Count: r.Count})
	}

	// ---------- Recent listings ----------
	recentRows, err := s.repo.RecentListings(ctx, 10)
	if err != nil {
		return nil, s.fail("recent listings", err)
	}
	recent := make([]resp.RecentListing, 0, len(recentRows))
	for _, l := range recentRows {
		recent = append(recent, resp.RecentListing{
			ID:          l.ID,
			Title:       l.Title,
			ListingType: string(l.ListingType),
			Price:       l.Price,
			Province:    l.Province,
			CreatedAt:   utils.FormatRFC3339(utils.FromUnixSeconds(l.CreatedAt)),
		})
	}

	return &resp.DashboardReport{
		Range: rng,
		KPIs: resp.KPIBlock{
			TotalAccounts:  totalAccounts,
			AccountsByKind: byKind,
			NewAccounts:    newAccounts,
			TotalListings:  totalListings,
			ActiveListings: activeListings,
			TotalViews:     engagement.Views,
			TotalInquiries: engagement.Inquiries,
			PendingAdmins:  pendingAdmins,
			InquiryRatePct: inquiryRate,
		},
		Listings:       listings,
		NewListings:    toSeries(listingSeries),
		NewAccounts:    toSeries(accountSeries),
		PackageMix:     mix,
		TopProvinces:   topProvinces,
		RecentListings: recent,
	}, nil
}

func (s *dashboardService) BuildSellerDashboard(ctx context.Context, accountID uuid.UUID) (*resp.SellerDashboard, error) {
	sub, err := s.subs.Current(ctx, accountID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.CountListingsByTypeAndStatus(ctx, &accountID)
	if err != nil {
		return nil, s.fail("own listings", err)
	}
	listings, total, _ := breakdown(rows)

	engagement, err := s.repo.SumEngagement(ctx, &accountID)
	if err != nil {
		return nil, s.fail("own engagement", err)
	}

	return &resp.SellerDashboard{
		Listings:       listings,
		TotalListings:  total,
		TotalViews:     engagement.Views,
		TotalInquiries: engagement.Inquiries,
		Subscription:   *sub,
	}, nil
}
