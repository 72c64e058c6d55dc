package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
)

// SnapshotRepository persists carts as rows of cart_snapshots.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository binds the repository to the provided GORM handle.
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var row models.CartSnapshot
	err := r.db.WithContext(ctx).
		Where("state_key = ?", key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	return []byte(row.Payload), nil
}

// Set upserts the snapshot for key.
func (r *SnapshotRepository) Set(ctx context.Context, key string, payload []byte) error {
	row := models.CartSnapshot{
		StateKey:  key,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).
		Where("state_key = ?", key).
		Delete(&models.CartSnapshot{}).Error
	if err != nil {
		return fmt.Errorf("delete cart snapshot: %w", err)
	}
	return nil
}

// PurgeOlderThan deletes snapshots last written before cutoff and reports how
// many rows were removed.
func (r *SnapshotRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff.UTC()).
		Delete(&models.CartSnapshot{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge cart snapshots: %w", res.Error)
	}
	return res.RowsAffected, nil
}
