package cart

import (
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

// VariantChoice is the option picked for one variant axis of a product.
type VariantChoice struct {
	VariantID string `json:"variantId"`
	OptionID  string `json:"optionId"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

// LineItem is one distinct purchasable configuration in the cart. Catalog
// fields are snapshotted when the item is first added.
type LineItem struct {
	ProductID        string            `json:"productId"`
	ProductName      string            `json:"productName"`
	ProductSlug      string            `json:"productSlug"`
	ProductImage     string            `json:"productImage"`
	ProductType      enums.ProductType `json:"productType"`
	BasePrice        float64           `json:"basePrice"`
	SelectedVariants []VariantChoice   `json:"selectedVariants"`
	Quantity         int               `json:"quantity"`
	TotalPrice       float64           `json:"totalPrice"`
}

// Key returns the identity key of the line item.
func (i LineItem) Key() string {
	return ItemKey(i.ProductID, i.SelectedVariants)
}

// State is the whole cart as persisted and as handed to subscribers.
type State struct {
	Items       []LineItem `json:"items"`
	ItemCount   int        `json:"itemCount"`
	Subtotal    float64    `json:"subtotal"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// EmptyState returns a cart with no items.
func EmptyState(now time.Time) State {
	return State{Items: []LineItem{}, LastUpdated: now}
}

// Clone deep-copies the state so callers can hold it past the next mutation.
func (s State) Clone() State {
	out := s
	out.Items = make([]LineItem, len(s.Items))
	for i, item := range s.Items {
		item.SelectedVariants = cloneChoices(item.SelectedVariants)
		out.Items[i] = item
	}
	return out
}

func (s State) indexOf(key string) int {
	for i, item := range s.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func cloneChoices(choices []VariantChoice) []VariantChoice {
	out := make([]VariantChoice, len(choices))
	copy(out, choices)
	return out
}

// Options tunes quantity bounds and snapshot defaults of a Store.
type Options struct {
	MinQuantity      int
	MaxQuantity      int
	PlaceholderImage string
	Clock            func() time.Time
}

const (
	DefaultMinQuantity      = 1
	DefaultMaxQuantity      = 99
	DefaultStorageKey       = "ecom-cart"
	DefaultPlaceholderImage = "/placeholder-product.svg"
)

// OptionsFromConfig maps the cart section of the service config.
func OptionsFromConfig(cfg config.CartConfig) Options {
	return Options{
		MinQuantity:      cfg.MinQuantityPerItem,
		MaxQuantity:      cfg.MaxQuantityPerItem,
		PlaceholderImage: cfg.PlaceholderImage,
	}
}

func (o Options) withDefaults() Options {
	if o.MinQuantity < 1 {
		o.MinQuantity = DefaultMinQuantity
	}
	if o.MaxQuantity < o.MinQuantity {
		o.MaxQuantity = DefaultMaxQuantity
		if o.MaxQuantity < o.MinQuantity {
			o.MaxQuantity = o.MinQuantity
		}
	}
	if o.PlaceholderImage == "" {
		o.PlaceholderImage = DefaultPlaceholderImage
	}
	if o.Clock == nil {
		o.Clock = func() time.Time { return time.Now().UTC() }
	}
	return o
}
