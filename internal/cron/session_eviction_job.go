package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

const SessionEvictionJobName = "session-eviction"

type idleEvicter interface {
	EvictIdle(cutoff time.Time) int
}

type SessionEvictionJobParams struct {
	Logger   *logger.Logger
	Sessions idleEvicter
	IdleTTL  time.Duration
}

// NewSessionEvictionJob releases in-memory stores of sessions that have been
// quiet for IdleTTL. Their carts remain in the storage backend.
func NewSessionEvictionJob(params SessionEvictionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session registry required")
	}
	if params.IdleTTL <= 0 {
		return nil, fmt.Errorf("idle ttl must be positive")
	}
	return &sessionEvictionJob{
		logg:     params.Logger,
		sessions: params.Sessions,
		idleTTL:  params.IdleTTL,
		now:      time.Now,
	}, nil
}

type sessionEvictionJob struct {
	logg     *logger.Logger
	sessions idleEvicter
	idleTTL  time.Duration
	now      func() time.Time
}

func (j *sessionEvictionJob) Name() string { return SessionEvictionJobName }

func (j *sessionEvictionJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.idleTTL)
	evicted := j.sessions.EvictIdle(cutoff)
	if evicted > 0 {
		j.logg.Info(j.logg.WithField(ctx, "sessions_evicted", evicted), "idle cart sessions released")
	}
	return int64(evicted), nil
}
