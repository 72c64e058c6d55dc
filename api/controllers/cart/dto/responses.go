package dto

import (
	"time"

	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
)

// CartView is the reactive {cart, isHydrated} pair consumed by storefront UIs.
type CartView struct {
	Cart       Cart `json:"cart"`
	IsHydrated bool `json:"isHydrated"`
}

type Cart struct {
	Items       []cartsvc.LineItem `json:"items"`
	ItemCount   int                `json:"itemCount"`
	Subtotal    float64            `json:"subtotal"`
	LastUpdated time.Time          `json:"lastUpdated"`
}

// ItemLookup answers isInCart, getItemQuantity and getCartItem in one call.
type ItemLookup struct {
	InCart   bool              `json:"inCart"`
	Quantity int               `json:"quantity"`
	Item     *cartsvc.LineItem `json:"item,omitempty"`
}

func NewCartView(state cartsvc.State, hydrated bool) CartView {
	items := state.Items
	if items == nil {
		items = []cartsvc.LineItem{}
	}
	return CartView{
		Cart: Cart{
			Items:       items,
			ItemCount:   state.ItemCount,
			Subtotal:    state.Subtotal,
			LastUpdated: state.LastUpdated,
		},
		IsHydrated: hydrated,
	}
}
