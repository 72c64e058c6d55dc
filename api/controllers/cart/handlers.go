package cart

import (
	"context"
	"net/http"
	"time"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// Sessions hands out the authoritative cart store of a browsing session.
type Sessions interface {
	Get(ctx context.Context, sessionID string) *cartsvc.Store
	Reset(ctx context.Context, sessionID string) error
}

// CartFetch returns the session's cart and hydration flag.
func CartFetch(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, store)
	}
}

// CartAddItem resolves the product in the catalog and adds it to the cart.
func CartAddItem(sessions Sessions, products catalog.Lookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		store, err := storeFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.Lookup(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		choices := describeChoices(product, toVariantChoices(payload.SelectedVariants))
		store.AddItem(r.Context(), product, payload.Quantity, choices...)
		writeCart(w, store)
	}
}

// CartUpdateItem sets the quantity of a line.
func CartUpdateItem(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(r.Context(), payload.ProductID, payload.Quantity, toVariantChoices(payload.SelectedVariants)...)
		writeCart(w, store)
	}
}

// CartRemoveItem deletes a line; removing an absent line succeeds.
func CartRemoveItem(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.ItemRef
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.RemoveItem(r.Context(), payload.ProductID, toVariantChoices(payload.SelectedVariants)...)
		writeCart(w, store)
	}
}

// CartLookupItem reports whether a configuration is in the cart.
func CartLookupItem(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.ItemRef
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := cartdto.ItemLookup{}
		if item, ok := store.Item(payload.ProductID, toVariantChoices(payload.SelectedVariants)...); ok {
			result.InCart = true
			result.Quantity = item.Quantity
			result.Item = &item
		}
		responses.WriteSuccess(w, result)
	}
}

// CartClear empties the cart.
func CartClear(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.Clear(r.Context())
		writeCart(w, store)
	}
}

// CartReset deletes the session's persisted cart instead of storing an empty one.
func CartReset(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart sessions unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required"))
			return
		}
		if err := sessions.Reset(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartdto.NewCartView(cartsvc.EmptyState(time.Now().UTC()), true))
	}
}

// CartCheckout is a placeholder until a checkout provider exists.
func CartCheckout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout coming soon"))
	}
}

func storeFromRequest(r *http.Request, sessions Sessions) (*cartsvc.Store, error) {
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart sessions unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return sessions.Get(r.Context(), sessionID), nil
}

func writeCart(w http.ResponseWriter, store *cartsvc.Store) {
	responses.WriteSuccess(w, cartdto.NewCartView(store.Snapshot(), store.IsHydrated()))
}
