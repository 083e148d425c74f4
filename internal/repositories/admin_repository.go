package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatehub/internal/models/db_models"
)

type AdminRepository interface {
	Insert(ctx context.Context, admin *db_models.Admin) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Admin, error)
	FindByFirebaseUID(ctx context.Context, uid string) (*db_models.Admin, error)
	List(ctx context.Context, status string) ([]db_models.Admin, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.AdminStatus) error
	LinkFirebaseUID(ctx context.Context, id uuid.UUID, uid string) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Insert(ctx context.Context, admin *db_models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) first(ctx context.Context, query string, args ...interface{}) (*db_models.Admin, error) {
	var admin db_models.Admin
	err := r.db.WithContext(ctx).Where(query, args...).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Admin, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*db_models.Admin, error) {
	return r.first(ctx, "lower(email) = lower(?)", email)
}

func (r *adminRepository) FindByFirebaseUID(ctx context.Context, uid string) (*db_models.Admin, error) {
	return r.first(ctx, "firebase_uid = ?", uid)
}

func (r *adminRepository) List(ctx context.Context, status string) ([]db_models.Admin, error) {
	var admins []db_models.Admin
	tx := r.db.WithContext(ctx)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if err := tx.Order("created_at DESC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *adminRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.AdminStatus) error {
	result := r.db.WithContext(ctx).Model(&db_models.Admin{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *adminRepository) LinkFirebaseUID(ctx context.Context, id uuid.UUID, uid string) error {
	return r.db.WithContext(ctx).Model(&db_models.Admin{}).Where("id = ?", id).Update("firebase_uid", uid).Error
}
