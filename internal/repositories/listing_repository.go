package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"estatehub/internal/models/db_models"
	"estatehub/internal/search"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *db_models.Listing) error
	Update(ctx context.Context, listing *db_models.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Listing, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.Listing, error)
	List(ctx context.Context, listingType string, page, pageSize int) ([]db_models.Listing, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]db_models.Listing, error)
	Search(ctx context.Context, preds []search.Predicate) ([]db_models.Listing, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.ListingStatus) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementInquiries(ctx context.Context, id uuid.UUID) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// listingColumns is the set of logical fields a predicate may address.
var listingColumns = map[string]string{
	search.FieldListingType:  "listing_type",
	search.FieldPrice:        "price",
	search.FieldPropertyType: "property_type",
	search.FieldProvince:     "province",
	search.FieldCategory:     "category",
	search.FieldYearBuilt:    "year_built",
	search.FieldBedrooms:     "bedrooms",
	search.FieldBathrooms:    "bathrooms",
	search.FieldGarage:       "garage",
	search.FieldFurnished:    "furnished",
}

var sqlOps = map[search.Op]string{
	search.OpEq:  "=",
	search.OpGte: ">=",
	search.OpLte: "<=",
}

// applyPredicates turns predicates into WHERE clauses. Feature-bag paths
// become jsonb lookups; anything else must be a known column.
func applyPredicates(tx *gorm.DB, preds []search.Predicate) (*gorm.DB, error) {
	for _, p := range preds {
		if key, ok := search.IsFeatureField(p.Field); ok {
			if p.Op != search.OpEq {
				return nil, fmt.Errorf("unsupported operator %q on %s", p.Op, p.Field)
			}
			tx = tx.Where(datatypes.JSONQuery("features").Equals(p.Value, key))
			continue
		}

		column, ok := listingColumns[p.Field]
		if !ok {
			return nil, fmt.Errorf("unknown listing field %q", p.Field)
		}
		op, ok := sqlOps[p.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %q on %s", p.Op, p.Field)
		}
		tx = tx.Where(column+" "+op+" ?", p.Value)
	}
	return tx, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *db_models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// listingEditColumns are the columns an owner's edit may write. Counters,
// ownership and status have their own atomic updates.
var listingEditColumns = []string{
	"title", "description", "price", "listing_type", "property_type", "category",
	"bedrooms", "bathrooms", "area", "garage", "year_built", "furnished", "features",
	"province", "city", "neighborhood", "address", "images", "cover_index", "updated_at",
}

func updateListing(db *gorm.DB, listing *db_models.Listing) *gorm.DB {
	return db.Model(listing).Select(listingEditColumns).Updates(listing)
}

// Update writes the edit columns of an existing, non-deleted listing.
func (r *listingRepository) Update(ctx context.Context, listing *db_models.Listing) error {
	result := updateListing(r.db.WithContext(ctx), listing)
	if result.Error != nil {
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&db_models.Listing{}, "id = ?", id).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// Read helpers return (nil, nil) when no row is found.
func (r *listingRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Listing, error) {
	var listing db_models.Listing
	err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.Listing, error) {
	if len(ids) == 0 {
		return []db_models.Listing{}, nil
	}
	var listings []db_models.Listing
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) List(ctx context.Context, listingType string, page, pageSize int) ([]db_models.Listing, error) {
	var listings []db_models.Listing
	offset := (page - 1) * pageSize

	tx := r.db.WithContext(ctx).Where("status = ?", db_models.ListingStatusActive)
	if listingType != "" {
		tx = tx.Where("listing_type = ?", listingType)
	}
	err := tx.Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]db_models.Listing, error) {
	var listings []db_models.Listing
	tx := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if activeOnly {
		tx = tx.Where("status = ?", db_models.ListingStatusActive)
	}
	if err := tx.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// Search returns active listings matching every predicate, newest first.
func (r *listingRepository) Search(ctx context.Context, preds []search.Predicate) ([]db_models.Listing, error) {
	tx, err := applyPredicates(
		r.db.WithContext(ctx).Model(&db_models.Listing{}).Where("status = ?", db_models.ListingStatusActive),
		preds,
	)
	if err != nil {
		return nil, err
	}

	var listings []db_models.Listing
	if err := tx.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.ListingStatus) error {
	result := r.db.WithContext(ctx).Model(&db_models.Listing{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listingRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.increment(ctx, id, "view_count")
}

func (r *listingRepository) IncrementInquiries(ctx context.Context, id uuid.UUID) error {
	return r.increment(ctx, id, "inquiry_count")
}

func (r *listingRepository) increment(ctx context.Context, id uuid.UUID, column string) error {
	result := r.db.WithContext(ctx).
		Model(&db_models.Listing{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
