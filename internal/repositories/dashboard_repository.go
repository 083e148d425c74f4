package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "estatehub/internal/models/db_models"
)

type DashboardRepository interface {
	// KPIs / counts
	CountAccountsByKind(ctx context.Context) ([]KindCount, error)
	CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error)
	CountListingsByTypeAndStatus(ctx context.Context, ownerID *uuid.UUID) ([]ListingBucket, error)
	SumEngagement(ctx context.Context, ownerID *uuid.UUID) (EngagementRow, error)
	CountAdminsByStatus(ctx context.Context, status dbm.AdminStatus) (int64, error)
	PackageMix(ctx context.Context) ([]PackageMixRow, error)

	// Time series
	NewListingsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)
	NewAccountsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)

	TopProvinces(ctx context.Context, limit int) ([]LocationRow, error)
	RecentListings(ctx context.Context, limit int) ([]dbm.Listing, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type BucketSum struct {
	Bucket time.Time `gorm:"column:bucket"`
	Sum    int64     `gorm:"column:sum"`
}

type KindCount struct {
	Kind  string `gorm:"column:kind"`
	Count int64  `gorm:"column:count"`
}

type ListingBucket struct {
	ListingType string `gorm:"column:listing_type"`
	Status      string `gorm:"column:status"`
	Count       int64  `gorm:"column:count"`
}

type EngagementRow struct {
	Views     int64 `gorm:"column:views"`
	Inquiries int64 `gorm:"column:inquiries"`
}

type PackageMixRow struct {
	PackageID string `gorm:"column:package_id"`
	Count     int64  `gorm:"column:count"`
}

type LocationRow struct {
	Location string `gorm:"column:location"`
	Count    int64  `gorm:"column:count"`
}

// ---------- Helpers ----------
func dateTrunc(tz string, unixColumn string) string {
	// unixColumn holds UNIX seconds; it is converted to timestamptz and
	// truncated in the requested timezone.
	if tz == "" {
		return "date_trunc(?, to_timestamp(" + unixColumn + "))"
	}
	return "date_trunc(?, timezone(?, to_timestamp(" + unixColumn + ")))"
}

func truncArgs(interval, tz string) []interface{} {
	if tz == "" {
		return []interface{}{interval}
	}
	return []interface{}{interval, tz}
}

func scopeOwner(tx *gorm.DB, ownerID *uuid.UUID) *gorm.DB {
	if ownerID != nil {
		return tx.Where("owner_id = ?", *ownerID)
	}
	return tx
}

// ---------- Counts ----------
func (r *dashboardRepository) CountAccountsByKind(ctx context.Context) ([]KindCount, error) {
	var rows []KindCount
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Select("kind, COUNT(*) AS count").
		Group("kind").
		Order("kind ASC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountListingsByTypeAndStatus(ctx context.Context, ownerID *uuid.UUID) ([]ListingBucket, error) {
	var rows []ListingBucket
	tx := scopeOwner(r.db.WithContext(ctx).Model(&dbm.Listing{}), ownerID)
	err := tx.
		Select("listing_type, status, COUNT(*) AS count").
		Group("listing_type, status").
		Order("listing_type ASC, status ASC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) SumEngagement(ctx context.Context, ownerID *uuid.UUID) (EngagementRow, error) {
	var row EngagementRow
	tx := scopeOwner(r.db.WithContext(ctx).Model(&dbm.Listing{}), ownerID)
	err := tx.
		Select("COALESCE(SUM(view_count), 0) AS views, COALESCE(SUM(inquiry_count), 0) AS inquiries").
		Scan(&row).Error
	return row, err
}

func (r *dashboardRepository) CountAdminsByStatus(ctx context.Context, status dbm.AdminStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Admin{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) PackageMix(ctx context.Context) ([]PackageMixRow, error) {
	var rows []PackageMixRow
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Select("subscription_package_id AS package_id, COUNT(*) AS count").
		Where("subscription_status = ?", dbm.SubStatusActive).
		Group("subscription_package_id").
		Order("count DESC").
		Find(&rows).Error
	return rows, err
}

// ---------- Series ----------
func (r *dashboardRepository) NewListingsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	var rows []BucketSum
	err := r.db.WithContext(ctx).
		Table("listings").
		Select(dateTrunc(tz, "created_at")+" AS bucket, COUNT(*) AS sum", truncArgs(interval, tz)...).
		Where("deleted_at IS NULL").
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Group("bucket").
		Order("bucket ASC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) NewAccountsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	var rows []BucketSum
	err := r.db.WithContext(ctx).
		Table("accounts").
		Select(dateTrunc(tz, "created_at")+" AS bucket, COUNT(*) AS sum", truncArgs(interval, tz)...).
		Where("deleted_at IS NULL").
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Group("bucket").
		Order("bucket ASC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) TopProvinces(ctx context.Context, limit int) ([]LocationRow, error) {
	var rows []LocationRow
	err := r.db.WithContext(ctx).
		Model(&dbm.Listing{}).
		Select("province AS location, COUNT(*) AS count").
		Where("province <> ''").
		Group("province").
		Order("count DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) RecentListings(ctx context.Context, limit int) ([]dbm.Listing, error) {
	var rows []dbm.Listing
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
