package product

import (
	_ "embed"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var seed []byte

type catalogFile struct {
	Products []Product `yaml:"products"`
}

// Catalog is the read-only product list. It is safe to share between
// goroutines because nothing mutates it after construction.
type Catalog struct {
	products []Product
	byID     map[int]int
}

// LoadCatalog parses the compiled-in seed.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(seed)
}

// ParseCatalog decodes a YAML document with a top-level "products" list.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(f.Products)
}

// NewCatalog validates products and indexes them by ID.
func NewCatalog(products []Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	v := validator.New()
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}

	for _, p := range products {
		if err := v.Struct(p); err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrInvalidProduct, p.ID, err)
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateProductID, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p.Clone())
	}

	return c, nil
}

// All returns every product in seed order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) ByID(id int) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i].Clone(), true
}

// MustByID is for seed code that references known IDs.
func (c *Catalog) MustByID(id int) Product {
	p, ok := c.ByID(id)
	if !ok {
		panic(fmt.Sprintf("product %d not in catalog", id))
	}
	return p
}
