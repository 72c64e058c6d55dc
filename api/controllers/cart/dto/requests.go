package dto

// VariantChoice is a selected option as sent by the storefront. Name and
// value are optional; they are filled from the catalog when omitted.
type VariantChoice struct {
	VariantID string `json:"variantId" validate:"required,max=128"`
	OptionID  string `json:"optionId" validate:"required,max=128"`
	Name      string `json:"name,omitempty" validate:"max=256"`
	Value     string `json:"value,omitempty" validate:"max=256"`
}

// AddItemRequest adds quantity units of a product configuration. A
// non-positive quantity is accepted and ignored.
type AddItemRequest struct {
	ProductID        string          `json:"productId" validate:"required,max=128"`
	Quantity         int             `json:"quantity"`
	SelectedVariants []VariantChoice `json:"selectedVariants" validate:"omitempty,max=32,unique=VariantID,dive"`
}

// UpdateQuantityRequest sets the quantity of a line; zero or less removes it.
type UpdateQuantityRequest struct {
	ProductID        string          `json:"productId" validate:"required,max=128"`
	Quantity         int             `json:"quantity"`
	SelectedVariants []VariantChoice `json:"selectedVariants" validate:"omitempty,max=32,unique=VariantID,dive"`
}

// ItemRef identifies a line for removal or lookup.
type ItemRef struct {
	ProductID        string          `json:"productId" validate:"required,max=128"`
	SelectedVariants []VariantChoice `json:"selectedVariants" validate:"omitempty,max=32,unique=VariantID,dive"`
}
