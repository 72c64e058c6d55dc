package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

type choicePayload struct {
	VariantID string `json:"variantId" validate:"required"`
	OptionID  string `json:"optionId" validate:"required"`
}

type itemPayload struct {
	ProductID string          `json:"productId" validate:"required,max=8"`
	Quantity  int             `json:"quantity"`
	Variants  []choicePayload `json:"selectedVariants" validate:"omitempty,dive"`
}

func decode(t *testing.T, body string) (itemPayload, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest itemPayload
	err := DecodeJSONBody(req, &dest)
	return dest, err
}

func TestDecodeJSONBodySuccess(t *testing.T) {
	got, err := decode(t, `{"productId":"A","quantity":2,"selectedVariants":[{"variantId":"size","optionId":"lg"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProductID != "A" || got.Quantity != 2 || len(got.Variants) != 1 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	_, err := decode(t, `{"productId":"A","price":1}`)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	_, err := decode(t, `{"productId":`)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldPaths(t *testing.T) {
	_, err := decode(t, `{"productId":"much-too-long","selectedVariants":[{"variantId":"size"}]}`)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["productId"] != "must be at most 8" {
		t.Fatalf("unexpected productId detail %q", details["productId"])
	}
	if details["selectedVariants[0].optionId"] != "is required" {
		t.Fatalf("unexpected variant detail: %v", details)
	}
}

func TestIsOpaqueID(t *testing.T) {
	cases := map[string]bool{
		"":                                     false,
		"abc-DEF_123.x":                        true,
		"has space":                            false,
		"semi;colon":                           false,
		"3f2c1b9e-8d7a-4c6b-9e5f-1a2b3c4d5e6f": true,
		strings.Repeat("a", 129):               false,
	}
	for input, want := range cases {
		if got := IsOpaqueID(input, 128); got != want {
			t.Fatalf("IsOpaqueID(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  abcdef  ", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString(" x ", 0); got != "x" {
		t.Fatalf("unexpected %q", got)
	}
}
