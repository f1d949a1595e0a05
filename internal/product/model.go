package product

type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryFashion     Category = "Fashion"
	CategoryAccessories Category = "Accessories"
	CategoryHome        Category = "Home"

	// CategoryAll is a filter value only; no product carries it.
	CategoryAll Category = "All"
)

// Categories lists the filterable categories in display order.
var Categories = []Category{CategoryAll, CategoryElectronics, CategoryFashion, CategoryAccessories, CategoryHome}

type Review struct {
	ID      int    `json:"id" yaml:"id" validate:"required"`
	User    string `json:"user" yaml:"user" validate:"required"`
	Rating  int    `json:"rating" yaml:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" yaml:"comment"`
	Date    string `json:"date" yaml:"date"`
}

type Product struct {
	ID          int               `json:"id" yaml:"id" validate:"required"`
	Name        string            `json:"name" yaml:"name" validate:"required"`
	Price       float64           `json:"price" yaml:"price" validate:"gte=0"`
	Category    Category          `json:"category" yaml:"category" validate:"oneof=Electronics Fashion Accessories Home"`
	Rating      float64           `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	ReviewCount int               `json:"reviews" yaml:"reviews" validate:"gte=0"`
	Image       string            `json:"image" yaml:"image"`
	Description string            `json:"description" yaml:"description"`
	IsNew       bool              `json:"isNew,omitempty" yaml:"isNew"`
	IsOnSale    bool              `json:"isOnSale,omitempty" yaml:"isOnSale"`
	Specs       map[string]string `json:"specs,omitempty" yaml:"specs"`
	Reviews     []Review          `json:"userReviews,omitempty" yaml:"userReviews" validate:"dive"`
}

// Clone returns a copy that shares no maps or slices with p.
func (p Product) Clone() Product {
	c := p
	if p.Specs != nil {
		c.Specs = make(map[string]string, len(p.Specs))
		for k, v := range p.Specs {
			c.Specs[k] = v
		}
	}
	if p.Reviews != nil {
		c.Reviews = append([]Review(nil), p.Reviews...)
	}
	return c
}

type SortOption string

const (
	SortRelevance SortOption = "relevance"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortNewest    SortOption = "newest"
)

// Query filters the catalog the way the shop page does.
type Query struct {
	Text     string
	Category Category
	// MaxPrice of zero disables the price filter.
	MaxPrice float64
	Sort     SortOption
}
