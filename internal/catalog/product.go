package catalog

import "github.com/angelmondragon/storefront-cart/pkg/enums"

// Product is the read-only catalog entry the cart snapshots at add time.
type Product struct {
	ID             string            `yaml:"id" json:"id"`
	Slug           string            `yaml:"slug" json:"slug"`
	Name           string            `yaml:"name" json:"name"`
	Price          float64           `yaml:"price" json:"price"`
	CompareAtPrice *float64          `yaml:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	Images         []string          `yaml:"images" json:"images"`
	ProductType    enums.ProductType `yaml:"productType" json:"productType"`
	Variants       []Variant         `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// Variant is one selectable axis of a product, e.g. "Size".
type Variant struct {
	ID      string          `yaml:"id" json:"id"`
	Name    string          `yaml:"name" json:"name"`
	Options []VariantOption `yaml:"options" json:"options"`
}

type VariantOption struct {
	ID            string   `yaml:"id" json:"id"`
	Value         string   `yaml:"value" json:"value"`
	Label         string   `yaml:"label" json:"label"`
	PriceModifier *float64 `yaml:"priceModifier,omitempty" json:"priceModifier,omitempty"`
	InStock       bool     `yaml:"inStock" json:"inStock"`
}

// Variant returns the variant definition with the given id.
func (p Product) Variant(variantID string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return Variant{}, false
}

// Option returns the option with the given id.
func (v Variant) Option(optionID string) (VariantOption, bool) {
	for _, o := range v.Options {
		if o.ID == optionID {
			return o, true
		}
	}
	return VariantOption{}, false
}
