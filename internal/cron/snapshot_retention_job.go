package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

const SnapshotRetentionJobName = "snapshot-retention"

type snapshotPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SnapshotRetentionJobParams struct {
	Logger     *logger.Logger
	Repository snapshotPurger
	Retention  time.Duration
}

// NewSnapshotRetentionJob deletes SQL cart snapshots that have not been saved
// within the retention window, mirroring the Redis key TTL.
func NewSnapshotRetentionJob(params SnapshotRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("snapshot repository required")
	}
	if params.Retention <= 0 {
		return nil, fmt.Errorf("retention must be positive")
	}
	return &snapshotRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: params.Retention,
		now:       time.Now,
	}, nil
}

type snapshotRetentionJob struct {
	logg      *logger.Logger
	repo      snapshotPurger
	retention time.Duration
	now       func() time.Time
}

func (j *snapshotRetentionJob) Name() string { return SnapshotRetentionJobName }

func (j *snapshotRetentionJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("snapshot retention: %w", err)
	}
	if deleted > 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"cutoff":       cutoff,
			"rows_deleted": deleted,
		})
		j.logg.Info(logCtx, "expired cart snapshots purged")
	}
	return deleted, nil
}
