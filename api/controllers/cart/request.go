package cart

import (
	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
)

func toVariantChoices(in []cartdto.VariantChoice) []cartsvc.VariantChoice {
	out := make([]cartsvc.VariantChoice, 0, len(in))
	for _, choice := range in {
		out = append(out, cartsvc.VariantChoice{
			VariantID: choice.VariantID,
			OptionID:  choice.OptionID,
			Name:      choice.Name,
			Value:     choice.Value,
		})
	}
	return out
}

// describeChoices fills missing display names from the product's variant
// definitions. Unknown variants or options are kept exactly as sent.
func describeChoices(product catalog.Product, choices []cartsvc.VariantChoice) []cartsvc.VariantChoice {
	for i, choice := range choices {
		variant, ok := product.Variant(choice.VariantID)
		if !ok {
			continue
		}
		if choice.Name == "" {
			choices[i].Name = variant.Name
		}
		if choice.Value == "" {
			if option, ok := variant.Option(choice.OptionID); ok {
				choices[i].Value = option.Value
			}
		}
	}
	return choices
}
