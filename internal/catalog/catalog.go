package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Lookup resolves products by id. The cart only reads the catalog when an
// item is added.
type Lookup interface {
	Lookup(ctx context.Context, productID string) (Product, error)
}

// Catalog is an immutable in-memory product index.
type Catalog struct {
	products []Product
	byID     map[string]int
}

type catalogFile struct {
	Products []Product `yaml:"products"`
}

// New indexes the given products. Ids must be unique and non-empty.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("product at index %d has no id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if p.ProductType == "" {
			p.ProductType = enums.ProductTypePhysical
		}
		if !p.ProductType.IsValid() {
			return nil, fmt.Errorf("product %q: invalid product type %q", p.ID, p.ProductType)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q: negative price", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Parse builds a catalog from a YAML document with a top-level products list.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return New(file.Products)
}

// LoadFile reads a YAML catalog from disk. An empty path yields the bundled
// demo catalog.
func LoadFile(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(defaultCatalogYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", path, err)
	}
	return Parse(data)
}

// Lookup returns the product with the given id or a NOT_FOUND error.
func (c *Catalog) Lookup(_ context.Context, productID string) (Product, error) {
	idx, ok := c.byID[strings.TrimSpace(productID)]
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"productId": productID})
	}
	return c.products[idx], nil
}

func (c *Catalog) Len() int {
	return len(c.products)
}
