package cart

import (
	"context"
	"sort"
	"sync"

	"github.com/angelmondragon/storefront-cart/internal/catalog"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

const (
	opAddItem        = "add_item"
	opRemoveItem     = "remove_item"
	opUpdateQuantity = "update_quantity"
	opClear          = "clear"
)

// Listener receives a copy of the state after every change.
type Listener func(State)

type pendingMutation struct {
	op    string
	apply func(*State)
}

// Store is the single authoritative cart of one browsing session.
//
// A Store starts uninitialized and becomes ready once Hydrate has loaded the
// persisted state. Mutations issued before that are queued and replayed on
// top of the loaded state. Invalid input never produces an error: it degrades
// to a no-op or a clamped quantity.
type Store struct {
	opts        Options
	persistence *Persistence
	logg        *logger.Logger
	metrics     *metrics.CartMetrics

	mu        sync.Mutex
	state     State
	version   uint64
	hydrated  bool
	pending   []pendingMutation
	listeners map[uint64]Listener
	nextID    uint64

	hydrateOnce sync.Once

	// flushMu orders saves and notifications; versions older than the last
	// flushed one are dropped.
	flushMu        sync.Mutex
	flushedVersion uint64
}

// NewStore builds an uninitialized store. persistence may be nil for a purely
// in-memory cart.
func NewStore(opts Options, persistence *Persistence, logg *logger.Logger, m *metrics.CartMetrics) *Store {
	opts = opts.withDefaults()
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{
		opts:        opts,
		persistence: persistence,
		logg:        logg,
		metrics:     m,
		state:       EmptyState(opts.Clock()),
		listeners:   make(map[uint64]Listener),
	}
}

// Hydrate loads the persisted state once and flips the store to ready. Later
// calls return immediately.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() { s.hydrate(ctx) })
}

func (s *Store) hydrate(ctx context.Context) {
	var loaded *State
	if s.persistence != nil {
		loaded = s.persistence.Load(ctx)
	}

	s.mu.Lock()
	if loaded != nil {
		s.state = loaded.Clone()
		if boundQuantities(s.state.Items, s.opts.MinQuantity, s.opts.MaxQuantity) {
			s.state.ItemCount, s.state.Subtotal = RecomputeAggregates(s.state.Items)
		}
	}
	replayed := s.pending
	s.pending = nil
	for _, m := range replayed {
		m.apply(&s.state)
		s.finalize(&s.state)
	}
	s.hydrated = true
	s.version++
	snapshot, version := s.state.Clone(), s.version
	listeners := s.listenerList()
	s.mu.Unlock()

	for _, m := range replayed {
		s.metrics.IncOperation(m.op)
	}
	s.metrics.IncHydration(loaded != nil)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"restored":  loaded != nil,
		"replayed":  len(replayed),
		"itemCount": snapshot.ItemCount,
	}), "cart hydrated")

	s.flush(ctx, snapshot, version, listeners)
}

// IsHydrated reports whether the persisted state has been loaded. It never
// reverts to false.
func (s *Store) IsHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// AddItem adds quantity units of the product configuration. An existing line
// with the same identity is merged and capped at the maximum quantity.
func (s *Store) AddItem(ctx context.Context, product catalog.Product, quantity int, variants ...VariantChoice) {
	if quantity <= 0 {
		return
	}
	choices := cloneChoices(variants)
	key := ItemKey(product.ID, choices)
	unit := UnitPrice(product.Price, choices, product.Variants)

	s.mutate(ctx, opAddItem, func(state *State) {
		if idx := state.indexOf(key); idx >= 0 {
			item := &state.Items[idx]
			item.Quantity = MergeQuantity(item.Quantity, quantity, s.opts.MinQuantity, s.opts.MaxQuantity)
			item.TotalPrice = LineTotal(unit, item.Quantity)
			return
		}

		qty := ClampQuantity(quantity, s.opts.MinQuantity, s.opts.MaxQuantity)
		state.Items = append(state.Items, LineItem{
			ProductID:        product.ID,
			ProductName:      product.Name,
			ProductSlug:      product.Slug,
			ProductImage:     s.imageFor(product),
			ProductType:      product.ProductType,
			BasePrice:        product.Price,
			SelectedVariants: cloneChoices(choices),
			Quantity:         qty,
			TotalPrice:       LineTotal(unit, qty),
		})
	})
}

// RemoveItem deletes the matching line. Removing an absent line is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string, variants ...VariantChoice) {
	key := ItemKey(productID, variants)
	s.mutate(ctx, opRemoveItem, removeByKey(key))
}

// UpdateQuantity sets the quantity of a line, clamped to the configured
// bounds, and reprices it with the unit price stored on the line. A quantity
// of zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int, variants ...VariantChoice) {
	key := ItemKey(productID, variants)
	if quantity <= 0 {
		s.mutate(ctx, opUpdateQuantity, removeByKey(key))
		return
	}

	s.mutate(ctx, opUpdateQuantity, func(state *State) {
		idx := state.indexOf(key)
		if idx < 0 {
			return
		}
		item := &state.Items[idx]
		unit := storedUnitPrice(*item)
		item.Quantity = ClampQuantity(quantity, s.opts.MinQuantity, s.opts.MaxQuantity)
		item.TotalPrice = LineTotal(unit, item.Quantity)
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, opClear, func(state *State) {
		state.Items = []LineItem{}
	})
}

// IsInCart reports whether the configuration is in the cart.
func (s *Store) IsInCart(productID string, variants ...VariantChoice) bool {
	_, ok := s.Item(productID, variants...)
	return ok
}

// ItemQuantity returns the quantity of the configuration, or 0.
func (s *Store) ItemQuantity(productID string, variants ...VariantChoice) int {
	item, _ := s.Item(productID, variants...)
	return item.Quantity
}

// Item returns a copy of the matching line.
func (s *Store) Item(productID string, variants ...VariantChoice) (LineItem, bool) {
	key := ItemKey(productID, variants)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.indexOf(key)
	if idx < 0 {
		return LineItem{}, false
	}
	item := s.state.Items[idx]
	item.SelectedVariants = cloneChoices(item.SelectedVariants)
	return item, true
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers a listener called after hydration and after every
// mutation. Listeners run synchronously and must not call back into the
// store's mutating methods. The returned func unsubscribes.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) mutate(ctx context.Context, op string, apply func(*State)) {
	s.mu.Lock()
	if !s.hydrated {
		s.pending = append(s.pending, pendingMutation{op: op, apply: apply})
		s.mu.Unlock()
		s.logg.Debug(s.logg.WithField(ctx, "op", op), "cart mutation queued until hydration")
		return
	}

	apply(&s.state)
	s.finalize(&s.state)
	s.version++
	snapshot, version := s.state.Clone(), s.version
	listeners := s.listenerList()
	s.mu.Unlock()

	s.metrics.IncOperation(op)
	s.flush(ctx, snapshot, version, listeners)
}

// finalize recomputes the aggregates from scratch and stamps the change.
func (s *Store) finalize(state *State) {
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	state.ItemCount, state.Subtotal = RecomputeAggregates(state.Items)
	state.LastUpdated = s.opts.Clock()
}

func (s *Store) flush(ctx context.Context, snapshot State, version uint64, listeners []Listener) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if version <= s.flushedVersion {
		return
	}
	s.flushedVersion = version

	if s.persistence != nil {
		s.persistence.Save(ctx, snapshot)
	}
	for _, listener := range listeners {
		listener(snapshot.Clone())
	}
}

// listenerList must be called with mu held.
func (s *Store) listenerList() []Listener {
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}

func (s *Store) imageFor(product catalog.Product) string {
	if len(product.Images) > 0 && product.Images[0] != "" {
		return product.Images[0]
	}
	return s.opts.PlaceholderImage
}

func removeByKey(key string) func(*State) {
	return func(state *State) {
		idx := state.indexOf(key)
		if idx < 0 {
			return
		}
		state.Items = append(state.Items[:idx:idx], state.Items[idx+1:]...)
	}
}
