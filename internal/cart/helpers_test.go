package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-cart/internal/catalog"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: fixedNow}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func floatPtr(v float64) *float64 { return &v }

func productA() catalog.Product {
	return catalog.Product{
		ID:          "A",
		Slug:        "product-a",
		Name:        "Product A",
		Price:       10,
		Images:      []string{"/a.jpg"},
		ProductType: enums.ProductTypePhysical,
	}
}

func productB() catalog.Product {
	return catalog.Product{
		ID:          "B",
		Slug:        "product-b",
		Name:        "Product B",
		Price:       50,
		ProductType: enums.ProductTypePhysical,
		Variants: []catalog.Variant{
			{
				ID:   "size",
				Name: "Size",
				Options: []catalog.VariantOption{
					{ID: "sm", Value: "S", Label: "Small", InStock: true},
					{ID: "lg", Value: "L", Label: "Large", PriceModifier: floatPtr(5), InStock: true},
				},
			},
			{
				ID:   "color",
				Name: "Color",
				Options: []catalog.VariantOption{
					{ID: "red", Value: "Red", Label: "Red", PriceModifier: floatPtr(1.5), InStock: true},
					{ID: "blue", Value: "Blue", Label: "Blue", InStock: false},
				},
			},
		},
	}
}

func newReadyStore(t *testing.T, backend StateStore) (*Store, *tickingClock) {
	t.Helper()
	clock := newTickingClock()
	var persistence *Persistence
	if backend != nil {
		persistence = NewPersistence(backend, DefaultStorageKey, time.Second, nil, nil)
	}
	store := NewStore(Options{Clock: clock.Now}, persistence, nil, nil)
	store.Hydrate(context.Background())
	return store, clock
}

func assertAggregates(t *testing.T, state State) {
	t.Helper()
	count, subtotal := RecomputeAggregates(state.Items)
	if state.ItemCount != count {
		t.Fatalf("itemCount %d != sum of quantities %d", state.ItemCount, count)
	}
	if state.Subtotal != subtotal {
		t.Fatalf("subtotal %v != sum of totals %v", state.Subtotal, subtotal)
	}
}

// flakyStateStore fails writes on demand and counts calls.
type flakyStateStore struct {
	*MemoryStateStore
	mu      sync.Mutex
	failSet bool
	failGet bool
	sets    int
}

func newFlakyStateStore() *flakyStateStore {
	return &flakyStateStore{MemoryStateStore: NewMemoryStateStore()}
}

func (f *flakyStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, errors.New("backend unavailable")
	}
	return f.MemoryStateStore.Get(ctx, key)
}

func (f *flakyStateStore) Set(ctx context.Context, key string, payload []byte) error {
	f.mu.Lock()
	f.sets++
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return errors.New("quota exceeded")
	}
	return f.MemoryStateStore.Set(ctx, key, payload)
}

func (f *flakyStateStore) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// counterValue reads the counter sample whose label value matches. An empty
// label value selects an unlabelled gauge.
func counterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if labelValue == "" && len(metric.GetLabel()) == 0 {
				return metric.GetGauge().GetValue()
			}
			for _, label := range metric.GetLabel() {
				if label.GetValue() == labelValue {
					if metric.GetCounter() != nil {
						return metric.GetCounter().GetValue()
					}
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	return 0
}
