package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var errUnreadableState = errors.New("persisted cart is unreadable")

// persistedState mirrors the stored layout loosely so structural problems can
// be told apart from type errors. Aggregates are never trusted on load.
type persistedState struct {
	Items       json.RawMessage `json:"items"`
	LastUpdated json.RawMessage `json:"lastUpdated"`
}

// Encode renders the state in its persisted JSON layout.
func Encode(state State) ([]byte, error) {
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	for i := range state.Items {
		if state.Items[i].SelectedVariants == nil {
			state.Items[i].SelectedVariants = []VariantChoice{}
		}
	}
	return json.Marshal(state)
}

// Decode parses a persisted cart. Anything other than an object holding an
// items array is rejected. now replaces a missing or unparsable lastUpdated.
func Decode(payload []byte, now time.Time) (State, error) {
	var raw persistedState
	if err := json.Unmarshal(payload, &raw); err != nil {
		return State{}, fmt.Errorf("%w: %v", errUnreadableState, err)
	}

	itemsJSON := bytes.TrimSpace(raw.Items)
	if len(itemsJSON) == 0 || itemsJSON[0] != '[' {
		return State{}, fmt.Errorf("%w: items is not an array", errUnreadableState)
	}

	var decoded []LineItem
	if err := json.Unmarshal(itemsJSON, &decoded); err != nil {
		return State{}, fmt.Errorf("%w: %v", errUnreadableState, err)
	}

	items := make([]LineItem, 0, len(decoded))
	seen := make(map[string]struct{}, len(decoded))
	for _, item := range decoded {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		if item.SelectedVariants == nil {
			item.SelectedVariants = []VariantChoice{}
		}
		key := item.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, item)
	}

	state := State{Items: items, LastUpdated: now}
	var stamp string
	if err := json.Unmarshal(raw.LastUpdated, &stamp); err == nil {
		if parsed, err := time.Parse(time.RFC3339Nano, stamp); err == nil {
			state.LastUpdated = parsed
		}
	}
	state.ItemCount, state.Subtotal = RecomputeAggregates(state.Items)
	return state, nil
}
