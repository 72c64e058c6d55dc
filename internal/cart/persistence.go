package cart

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

// Persistence reads and writes one cart under a fixed key. It never fails
// loudly: unreadable data loads as nil and write errors are only logged.
type Persistence struct {
	backend StateStore
	key     string
	timeout time.Duration
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewPersistence binds a persistence adapter to one key of the backend.
func NewPersistence(backend StateStore, key string, timeout time.Duration, logg *logger.Logger, m *metrics.CartMetrics) *Persistence {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Persistence{
		backend: backend,
		key:     key,
		timeout: timeout,
		logg:    logg,
		metrics: m,
	}
}

// Key returns the backend key this adapter owns.
func (p *Persistence) Key() string {
	return p.key
}

// Load returns the persisted state, or nil when it is missing or unreadable.
func (p *Persistence) Load(ctx context.Context) *State {
	ioCtx, cancel := p.ioContext(ctx)
	defer cancel()

	start := time.Now()
	payload, err := p.backend.Get(ioCtx, p.key)
	p.metrics.ObservePersistence("load", time.Since(start))
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil
		}
		p.metrics.IncPersistenceFailure("load")
		p.logg.Error(p.logg.WithField(ctx, "state_key", p.key), "failed to read persisted cart", err)
		return nil
	}

	state, err := Decode(payload, time.Now().UTC())
	if err != nil {
		p.metrics.IncPersistenceFailure("decode")
		p.logg.Warn(p.logg.WithFields(ctx, map[string]any{
			"state_key": p.key,
			"reason":    err.Error(),
		}), "discarding unreadable persisted cart")
		return nil
	}
	return &state
}

// Save writes the state. Failures are logged and counted, never returned.
func (p *Persistence) Save(ctx context.Context, state State) {
	payload, err := Encode(state)
	if err != nil {
		p.metrics.IncPersistenceFailure("encode")
		p.logg.Error(p.logg.WithField(ctx, "state_key", p.key), "failed to encode cart", err)
		return
	}

	ioCtx, cancel := p.ioContext(ctx)
	defer cancel()

	start := time.Now()
	err = p.backend.Set(ioCtx, p.key, payload)
	p.metrics.ObservePersistence("save", time.Since(start))
	if err != nil {
		p.metrics.IncPersistenceFailure("save")
		p.logg.Error(p.logg.WithField(ctx, "state_key", p.key), "failed to persist cart", err)
	}
}

// Forget removes the persisted state.
func (p *Persistence) Forget(ctx context.Context) error {
	ioCtx, cancel := p.ioContext(ctx)
	defer cancel()
	return p.backend.Delete(ioCtx, p.key)
}

// ioContext detaches backend I/O from request cancellation and bounds it.
func (p *Persistence) ioContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}
