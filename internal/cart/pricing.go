package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-cart/internal/catalog"
)

// UnitPrice adds the modifier of every selected option to the base price.
// Unknown variants, unknown options and options without a modifier count as
// zero. No rounding is applied.
func UnitPrice(basePrice float64, variants []VariantChoice, definitions []catalog.Variant) float64 {
	total := decimal.NewFromFloat(basePrice)
	for _, choice := range variants {
		total = total.Add(decimal.NewFromFloat(priceModifier(choice, definitions)))
	}
	return total.InexactFloat64()
}

func priceModifier(choice VariantChoice, definitions []catalog.Variant) float64 {
	for _, variant := range definitions {
		if variant.ID != choice.VariantID {
			continue
		}
		option, ok := variant.Option(choice.OptionID)
		if !ok || option.PriceModifier == nil {
			return 0
		}
		return *option.PriceModifier
	}
	return 0
}

// LineTotal returns unitPrice * quantity.
func LineTotal(unitPrice float64, quantity int) float64 {
	return decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		InexactFloat64()
}

// RecomputeAggregates folds the items into item count and subtotal.
func RecomputeAggregates(items []LineItem) (int, float64) {
	count := 0
	subtotal := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		subtotal = subtotal.Add(decimal.NewFromFloat(item.TotalPrice))
	}
	return count, subtotal.InexactFloat64()
}

// ClampQuantity bounds q to [min, max].
func ClampQuantity(q, min, max int) int {
	if q < min {
		return min
	}
	if q > max {
		return max
	}
	return q
}

// storedUnitPrice recovers the unit price captured on the line item, so a
// quantity change keeps the price the shopper saw when adding it.
func storedUnitPrice(item LineItem) float64 {
	if item.Quantity <= 0 {
		return item.BasePrice
	}
	return decimal.NewFromFloat(item.TotalPrice).
		Div(decimal.NewFromInt(int64(item.Quantity))).
		InexactFloat64()
}

// MergeQuantity adds delta to a non-negative current quantity and bounds the
// result to [min, max] without overflowing int.
func MergeQuantity(current, delta, min, max int) int {
	if delta > 0 && current > max-delta {
		return max
	}
	return ClampQuantity(current+delta, min, max)
}

// boundQuantities clamps every line into [min, max], repricing changed lines
// at their stored unit price. It reports whether anything changed.
func boundQuantities(items []LineItem, min, max int) bool {
	changed := false
	for i := range items {
		qty := ClampQuantity(items[i].Quantity, min, max)
		if qty == items[i].Quantity {
			continue
		}
		unit := storedUnitPrice(items[i])
		items[i].Quantity = qty
		items[i].TotalPrice = LineTotal(unit, qty)
		changed = true
	}
	return changed
}
