package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"estatehub/internal/models/db_models"
)

type ImageDeletionRepository interface {
	Stage(ctx context.Context, entityID uuid.UUID, keys []string, reason string) error
	Due(ctx context.Context, maxAttempts, limit int) ([]db_models.PendingImageDeletion, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type imageDeletionRepository struct {
	db *gorm.DB
}

func NewImageDeletionRepository(db *gorm.DB) ImageDeletionRepository {
	return &imageDeletionRepository{db: db}
}

// Stage records keys for a later delete. Re-staging a key is a no-op.
func (r *imageDeletionRepository) Stage(ctx context.Context, entityID uuid.UUID, keys []string, reason string) error {
	if len(keys) == 0 {
		return nil
	}
	rows := make([]db_models.PendingImageDeletion, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, db_models.PendingImageDeletion{ObjectKey: key, EntityID: entityID, LastError: reason})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "object_key"}}, DoNothing: true}).
		Create(&rows).Error
}

func (r *imageDeletionRepository) Due(ctx context.Context, maxAttempts, limit int) ([]db_models.PendingImageDeletion, error) {
	var rows []db_models.PendingImageDeletion
	err := r.db.WithContext(ctx).
		Where("attempts < ?", maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *imageDeletionRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&db_models.PendingImageDeletion{}, "id = ?", id).Error
}

func (r *imageDeletionRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.PendingImageDeletion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
}
