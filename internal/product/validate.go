package product

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MaxImageSize  = 5 << 20
	maxNameLength = 120
	maxDescLength = 2000
)

func validateInput(idx int, in CreateProductInput) ValidationErrors {
	var errs ValidationErrors
	fail := func(field, msg string) {
		errs = append(errs, &ValidationError{Index: idx, Field: field, Message: msg})
	}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		fail("name", "is required")
	case len(name) > maxNameLength:
		fail("name", "is too long")
	}

	desc := strings.TrimSpace(in.Description)
	switch {
	case desc == "":
		fail("description", "is required")
	case len(desc) > maxDescLength:
		fail("description", "is too long")
	}

	if !in.Price.GreaterThan(decimal.Zero) {
		fail("price", "must be greater than zero")
	}
	if in.StockLevel < 0 {
		fail("stockLevel", "cannot be negative")
	}
	if strings.TrimSpace(in.Category) == "" {
		fail("category", "is required")
	}
	if strings.TrimSpace(in.Unit) == "" {
		fail("unit", "is required")
	}
	return errs
}

func (in CreateProductInput) toProduct(farmerID string) Product {
	p := Product{
		FarmerID:    farmerID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		StockLevel:  in.StockLevel,
		Category:    in.Category,
		Unit:        in.Unit,
		IsOrganic:   in.IsOrganic,
		ImageURL:    in.ImageURL,
	}
	p.Normalize()
	return p
}
