package settings

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for settings data access.
type Repository interface {
	ListByStore(ctx context.Context, storeID int) ([]*Setting, error)
	Save(ctx context.Context, storeID int, upserts map[string]string, deletes []string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByStore(ctx context.Context, storeID int) ([]*Setting, error) {
	var rows []*Setting
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Find(&rows).Error
	return rows, err
}

// Save upserts and deletes the given names for one store in a single transaction.
func (r *repository) Save(ctx context.Context, storeID int, upserts map[string]string, deletes []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for name, value := range upserts {
			row := &Setting{StoreID: storeID, Name: name, Value: value, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "store_id"}, {Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(row).Error
			if err != nil {
				return err
			}
		}

		if len(deletes) > 0 {
			err := tx.Where("store_id = ? AND name IN ?", storeID, deletes).
				Delete(&Setting{}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
