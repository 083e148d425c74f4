package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbm "estatehub/internal/models/db_models"
	resp "estatehub/internal/models/response_models"
	"estatehub/internal/repositories"
	"estatehub/pkg/utils"
)

type fakeDashboardRepo struct {
	buckets    []repositories.ListingBucket
	engagement repositories.EngagementRow
	mix        []repositories.PackageMixRow
	ownerSeen  *uuid.UUID
	seriesErr  error
}

func (r *fakeDashboardRepo) CountAccountsByKind(context.Context) ([]repositories.KindCount, error) {
	return []repositories.KindCount{{Kind: "user", Count: 7}, {Kind: "agent", Count: 3}}, nil
}

func (r *fakeDashboardRepo) CountNewAccounts(context.Context, time.Time, time.Time) (int64, error) {
	return 4, nil
}

func (r *fakeDashboardRepo) CountListingsByTypeAndStatus(_ context.Context, owner *uuid.UUID) ([]repositories.ListingBucket, error) {
	r.ownerSeen = owner
	return r.buckets, nil
}

func (r *fakeDashboardRepo) SumEngagement(context.Context, *uuid.UUID) (repositories.EngagementRow, error) {
	return r.engagement, nil
}

func (r *fakeDashboardRepo) CountAdminsByStatus(context.Context, dbm.AdminStatus) (int64, error) {
	return 2, nil
}

func (r *fakeDashboardRepo) PackageMix(context.Context) ([]repositories.PackageMixRow, error) {
	return r.mix, nil
}

func (r *fakeDashboardRepo) NewListingsSeries(_ context.Context, start, _ time.Time, _, _ string) ([]repositories.BucketSum, error) {
	if r.seriesErr != nil {
		return nil, r.seriesErr
	}
	return []repositories.BucketSum{{Bucket: start, Sum: 2}, {Bucket: start.AddDate(0, 0, 1), Sum: 5}}, nil
}

func (r *fakeDashboardRepo) NewAccountsSeries(context.Context, time.Time, time.Time, string, string) ([]repositories.BucketSum, error) {
	return nil, nil
}

func (r *fakeDashboardRepo) TopProvinces(context.Context, int) ([]repositories.LocationRow, error) {
	return []repositories.LocationRow{{Location: "lusaka", Count: 9}}, nil
}

func (r *fakeDashboardRepo) RecentListings(context.Context, int) ([]dbm.Listing, error) {
	return []dbm.Listing{fixtureListing("Fresh", "sale", "lusaka", "Lusaka", 3)}, nil
}

func TestNormalizeRange(t *testing.T) {
	got := normalizeRange(resp.TimeRange{})
	if got.Interval != "day" {
		t.Fatalf("interval = %q", got.Interval)
	}
	if d := got.End.Sub(got.Start); d != 30*24*time.Hour {
		t.Fatalf("default window = %v", d)
	}

	a := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	got = normalizeRange(resp.TimeRange{Start: b, End: a, Interval: "week"})
	if !got.Start.Equal(a) || !got.End.Equal(b) || got.Interval != "week" {
		t.Fatalf("swapped range = %+v", got)
	}
}

func TestBuildDashboard(t *testing.T) {
	repo := &fakeDashboardRepo{
		buckets: []repositories.ListingBucket{
			{ListingType: "sale", Status: "active", Count: 6},
			{ListingType: "sale", Status: "sold", Count: 2},
			{ListingType: "rent", Status: "active", Count: 4},
		},
		engagement: repositories.EngagementRow{Views: 200, Inquiries: 5},
		mix: []repositories.PackageMixRow{
			{PackageID: "basic", Count: 3},
			{PackageID: "legacy", Count: 1},
		},
	}
	svc := NewDashboardService(repo, NewSubscriptionService(newFakeAccountRepo(), zap.NewNop()), zap.NewNop())

	report, err := svc.BuildDashboard(context.Background(), resp.TimeRange{})
	if err != nil {
		t.Fatalf("BuildDashboard: %v", err)
	}
	k := report.KPIs
	if k.TotalAccounts != 10 || k.AccountsByKind["agent"] != 3 || k.NewAccounts != 4 {
		t.Fatalf("account kpis = %+v", k)
	}
	if k.TotalListings != 12 || k.ActiveListings != 10 || k.PendingAdmins != 2 {
		t.Fatalf("listing kpis = %+v", k)
	}
	if math.Abs(k.InquiryRatePct-2.5) > 1e-9 {
		t.Fatalf("inquiry rate = %v", k.InquiryRatePct)
	}
	if report.Listings["sale"]["sold"] != 2 || report.Listings["rent"]["active"] != 4 {
		t.Fatalf("breakdown = %v", report.Listings)
	}
	if report.NewListings.Total != 7 || len(report.NewListings.Points) != 2 {
		t.Fatalf("listing series = %+v", report.NewListings)
	}
	if report.NewAccounts.Points == nil {
		t.Fatal("empty series should encode as an empty list")
	}
	if len(report.PackageMix) != 2 || report.PackageMix[0].PlanName != "Basic" || report.PackageMix[1].PlanName != "legacy" {
		t.Fatalf("package mix = %+v", report.PackageMix)
	}
	if report.PackageMix[0].Percent != 75 {
		t.Fatalf("mix percent = %v", report.PackageMix[0].Percent)
	}
	if repo.ownerSeen != nil {
		t.Fatal("platform dashboard filtered by owner")
	}
}

func TestBuildDashboardMapsRepositoryErrors(t *testing.T) {
	repo := &fakeDashboardRepo{seriesErr: errors.New("connection reset")}
	svc := NewDashboardService(repo, NewSubscriptionService(newFakeAccountRepo(), zap.NewNop()), zap.NewNop())
	if _, err := svc.BuildDashboard(context.Background(), resp.TimeRange{}); !errors.Is(err, utils.ErrDatabaseError) {
		t.Fatalf("err = %v, want ErrDatabaseError", err)
	}
}

func TestBuildSellerDashboard(t *testing.T) {
	seller := sellerAccount("standard", 4)
	repo := &fakeDashboardRepo{
		buckets:    []repositories.ListingBucket{{ListingType: "rent", Status: "active", Count: 4}},
		engagement: repositories.EngagementRow{Views: 40, Inquiries: 3},
	}
	svc := NewDashboardService(repo, NewSubscriptionService(newFakeAccountRepo(seller), zap.NewNop()), zap.NewNop())

	got, err := svc.BuildSellerDashboard(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("BuildSellerDashboard: %v", err)
	}
	if repo.ownerSeen == nil || *repo.ownerSeen != seller.ID {
		t.Fatal("seller dashboard not scoped to the seller")
	}
	if got.TotalListings != 4 || got.TotalViews != 40 || got.TotalInquiries != 3 {
		t.Fatalf("seller dashboard = %+v", got)
	}
	if got.Subscription.PackageID != "standard" || got.Subscription.ListingsLeft != 11 {
		t.Fatalf("subscription = %+v", got.Subscription)
	}
}
