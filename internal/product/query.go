package product

import (
	"sort"
	"strings"
)

// Search applies text, category and price filters, then the requested sort.
func (c *Catalog) Search(q Query) ([]Product, error) {
	switch q.Sort {
	case "", SortRelevance, SortPriceAsc, SortPriceDesc, SortNewest:
	default:
		return nil, ErrInvalidSort
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	result := make([]Product, 0, len(c.products))

	for _, p := range c.products {
		if q.Category != "" && q.Category != CategoryAll && p.Category != q.Category {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(p.Description), text) {
			continue
		}
		result = append(result, p.Clone())
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	case SortNewest:
		sort.SliceStable(result, func(i, j int) bool { return result[i].IsNew && !result[j].IsNew })
	}

	return result, nil
}

// Related returns up to n products from the same category as id. When the
// category has no other products it falls back to any other products.
func (c *Catalog) Related(id, n int) []Product {
	src, ok := c.ByID(id)
	if !ok || n <= 0 {
		return nil
	}

	related := make([]Product, 0, n)
	for _, p := range c.products {
		if len(related) == n {
			break
		}
		if p.ID != id && p.Category == src.Category {
			related = append(related, p.Clone())
		}
	}
	if len(related) > 0 {
		return related
	}

	for _, p := range c.products {
		if len(related) == n {
			break
		}
		if p.ID != id {
			related = append(related, p.Clone())
		}
	}
	return related
}
