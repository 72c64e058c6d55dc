package cart

import (
	"sort"
	"strings"
)

const (
	keySeparator    = "__"
	choiceSeparator = "|"
)

// ItemKey derives the canonical identity of a product configuration. Choices
// are sorted by variant id so selection order never matters; without choices
// the key is the product id itself.
func ItemKey(productID string, variants []VariantChoice) string {
	if len(variants) == 0 {
		return productID
	}

	sorted := cloneChoices(variants)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].VariantID != sorted[j].VariantID {
			return sorted[i].VariantID < sorted[j].VariantID
		}
		return sorted[i].OptionID < sorted[j].OptionID
	})

	pairs := make([]string, len(sorted))
	for i, choice := range sorted {
		pairs[i] = choice.VariantID + ":" + choice.OptionID
	}
	return productID + keySeparator + strings.Join(pairs, choiceSeparator)
}
