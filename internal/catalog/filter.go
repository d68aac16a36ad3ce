package catalog

import (
	"strings"

	"farmlink-be/internal/product"
)

// AllCategories disables the category filter.
const AllCategories = "all"

type Filter struct {
	Category string
	Query    string
}

func (f Filter) categoryActive() bool {
	return f.Category != "" && f.Category != AllCategories
}

// Matches reports whether p passes both the category and the text filter.
func (f Filter) Matches(p product.Product) bool {
	if f.categoryActive() && p.Category != f.Category {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.FarmName), q)
}

// Apply keeps the input order.
func Apply(products []product.Product, f Filter) []product.Product {
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists the distinct labels in first-seen order.
func Categories(products []product.Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		c := p.Category
		if c == "" {
			c = product.DefaultCategory
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
