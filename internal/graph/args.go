package graph

import (
	"strings"

	"farmlink-be/internal/product"
	"farmlink-be/internal/utils"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
)

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]interface{}, key string) int {
	n, _ := args[key].(int)
	return n
}

func boolArg(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// optionalString distinguishes an omitted field (nil) from an explicit value.
func optionalString(args map[string]interface{}, key string) *string {
	s, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func inputArg(p graphql.ResolveParams, key string) map[string]interface{} {
	m, _ := p.Args[key].(map[string]interface{})
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}

// toProductInput converts one ProductInput; idx is its position in a bulk
// submission, or -1.
func toProductInput(idx int, m map[string]interface{}) (product.CreateProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(stringArg(m, "price")))
	if err != nil {
		return product.CreateProductInput{}, &product.ValidationError{
			Index: idx, Field: "price", Message: "must be a decimal number",
		}
	}
	return product.CreateProductInput{
		Name:        stringArg(m, "name"),
		Description: stringArg(m, "description"),
		Price:       price,
		StockLevel:  intArg(m, "stockLevel"),
		Category:    stringArg(m, "category"),
		Unit:        stringArg(m, "unit"),
		IsOrganic:   boolArg(m, "isOrganic"),
		ImageURL:    utils.NilIfBlank(stringArg(m, "imageUrl")),
	}, nil
}
