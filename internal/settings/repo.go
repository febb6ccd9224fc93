package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qrdine/qrdine-backend/pkg/db/models"
)

// Repository handles settings persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to settings operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads a setting row by key. A missing key returns gorm.ErrRecordNotFound.
func (r *Repository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert writes a setting value, last write wins.
func (r *Repository) Upsert(ctx context.Context, key string, value map[string]any) error {
	setting := models.Setting{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
}
