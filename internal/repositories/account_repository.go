package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatehub/internal/models/db_models"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	// UpdateProfile writes the self-editable profile columns only.
	UpdateProfile(ctx context.Context, account *db_models.Account) error
	LinkFirebaseUID(ctx context.Context, id uuid.UUID, uid string) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	FindByFirebaseUID(ctx context.Context, uid string) (*db_models.Account, error)
	ListByKind(ctx context.Context, kind string, page, pageSize int) ([]db_models.Account, error)

	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.AccountStatus) error
	SetAvatarURL(ctx context.Context, id uuid.UUID, url string) error
	SetSavedListings(ctx context.Context, id uuid.UUID, ids []string) error
	SetSubscription(ctx context.Context, id uuid.UUID, snapshot db_models.SubscriptionSnapshot) error
	// ConsumeListingSlot increments listings_used only while it is below
	// listings_total. It reports whether a slot was taken.
	ConsumeListingSlot(ctx context.Context, id uuid.UUID) (bool, error)
	ReleaseListingSlot(ctx context.Context, id uuid.UUID) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Create(account).Error
}

var profileColumns = []string{
	"name", "phone", "bio", "avatar_url", "company_name", "license_no", "website", "updated_at",
}

func updateProfile(db *gorm.DB, account *db_models.Account) *gorm.DB {
	return db.Model(account).Select(profileColumns).Updates(account)
}

func (a *accountRepository) UpdateProfile(ctx context.Context, account *db_models.Account) error {
	result := updateProfile(a.db.WithContext(ctx), account)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *accountRepository) first(ctx context.Context, query string, args ...interface{}) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).Where(query, args...).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	return a.first(ctx, "id = ?", id)
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	return a.first(ctx, "lower(email) = lower(?)", email)
}

func (a *accountRepository) FindByFirebaseUID(ctx context.Context, uid string) (*db_models.Account, error) {
	return a.first(ctx, "firebase_uid = ?", uid)
}

func (a *accountRepository) ListByKind(ctx context.Context, kind string, page, pageSize int) ([]db_models.Account, error) {
	var accounts []db_models.Account
	tx := a.db.WithContext(ctx)
	if kind != "" {
		tx = tx.Where("kind = ?", kind)
	}
	err := tx.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (a *accountRepository) updateColumns(ctx context.Context, id uuid.UUID, values map[string]interface{}) error {
	result := a.db.WithContext(ctx).Model(&db_models.Account{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *accountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return a.updateColumns(ctx, id, map[string]interface{}{"password_hash": hash})
}

func (a *accountRepository) LinkFirebaseUID(ctx context.Context, id uuid.UUID, uid string) error {
	return a.updateColumns(ctx, id, map[string]interface{}{"firebase_uid": uid})
}

func (a *accountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.AccountStatus) error {
	return a.updateColumns(ctx, id, map[string]interface{}{"status": status})
}

func (a *accountRepository) SetAvatarURL(ctx context.Context, id uuid.UUID, url string) error {
	return a.updateColumns(ctx, id, map[string]interface{}{"avatar_url": url})
}

func (a *accountRepository) SetSavedListings(ctx context.Context, id uuid.UUID, ids []string) error {
	return a.updateColumns(ctx, id, map[string]interface{}{"saved_listing_ids": pqArray(ids)})
}

func (a *accountRepository) SetSubscription(ctx context.Context, id uuid.UUID, s db_models.SubscriptionSnapshot) error {
	return a.updateColumns(ctx, id, map[string]interface{}{
		"subscription_package_id":     s.PackageID,
		"subscription_plan_name":      s.PlanName,
		"subscription_listings_used":  s.ListingsUsed,
		"subscription_listings_total": s.ListingsTotal,
		"subscription_status":         s.Status,
		"subscription_period_start":   s.PeriodStart,
	})
}

func (a *accountRepository) ConsumeListingSlot(ctx context.Context, id uuid.UUID) (bool, error) {
	result := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ? AND subscription_status = ? AND subscription_listings_used < subscription_listings_total",
			id, db_models.SubStatusActive).
		UpdateColumn("subscription_listings_used", gorm.Expr("subscription_listings_used + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (a *accountRepository) ReleaseListingSlot(ctx context.Context, id uuid.UUID) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ? AND subscription_listings_used > 0", id).
		UpdateColumn("subscription_listings_used", gorm.Expr("subscription_listings_used - 1")).Error
}
