package cart

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

// RegistryConfig describes how per-session stores are built.
type RegistryConfig struct {
	Options    Options
	StorageKey string
	Timeout    time.Duration
}

// Registry keeps exactly one Store per browsing session.
type Registry struct {
	backend StateStore
	cfg     RegistryConfig
	logg    *logger.Logger
	metrics *metrics.CartMetrics

	mu       sync.Mutex
	stores   map[string]*Store
	lastSeen map[string]time.Time
}

func NewRegistry(backend StateStore, cfg RegistryConfig, logg *logger.Logger, m *metrics.CartMetrics) *Registry {
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if logg == nil {
		logg = logger.Nop()
	}
	cfg.Options = cfg.Options.withDefaults()
	return &Registry{
		backend:  backend,
		cfg:      cfg,
		logg:     logg,
		metrics:  m,
		stores:   make(map[string]*Store),
		lastSeen: make(map[string]time.Time),
	}
}

// Get returns the hydrated store of the session, creating it on first use.
// Hydration happens outside the registry lock so one slow backend read does
// not block other sessions.
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	store, ok := r.stores[sessionID]
	if !ok {
		persistence := NewPersistence(r.backend, r.StateKey(sessionID), r.cfg.Timeout, r.logg, r.metrics)
		store = NewStore(r.cfg.Options, persistence, r.logg, r.metrics)
		r.stores[sessionID] = store
		r.metrics.SetActiveSessions(len(r.stores))
	}
	r.lastSeen[sessionID] = r.cfg.Options.Clock()
	r.mu.Unlock()

	store.Hydrate(ctx)
	return store
}

// StateKey is the backend key holding the session's cart.
func (r *Registry) StateKey(sessionID string) string {
	return sessionID + ":" + r.cfg.StorageKey
}

// Reset discards the session's store and deletes its persisted cart. The next
// Get starts from an empty cart.
func (r *Registry) Reset(ctx context.Context, sessionID string) error {
	r.drop(sessionID)
	persistence := NewPersistence(r.backend, r.StateKey(sessionID), r.cfg.Timeout, r.logg, r.metrics)
	if err := persistence.Forget(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to reset cart")
	}
	return nil
}

// drop forgets the in-memory store of a session. The persisted cart is kept.
func (r *Registry) drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sessionID)
	delete(r.lastSeen, sessionID)
	r.metrics.SetActiveSessions(len(r.stores))
}

// EvictIdle drops every store not requested since cutoff and returns how many
// were dropped. Evicted carts stay in the backend and are reloaded on the
// session's next request.
func (r *Registry) EvictIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for sessionID, seen := range r.lastSeen {
		if !seen.Before(cutoff) {
			continue
		}
		delete(r.stores, sessionID)
		delete(r.lastSeen, sessionID)
		evicted++
	}
	if evicted > 0 {
		r.metrics.SetActiveSessions(len(r.stores))
	}
	return evicted
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
