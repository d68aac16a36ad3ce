package graph

import (
	"context"

	"farmlink-be/internal/catalog"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/product"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// products renders the shopper catalog. Load failures surface in the view
// state rather than as a GraphQL error.
func (r *Resolver) products(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	view := r.Catalog.Browse(ctx, catalog.Filter{
		Category: stringArg(p.Args, "category"),
		Query:    stringArg(p.Args, "search"),
	})
	return mapCatalog(view), nil
}

func (r *Resolver) product(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	prod, err := r.Catalog.Product(ctx, stringArg(p.Args, "id"))
	if err != nil {
		return nil, err
	}
	return mapProduct(prod), nil
}

func (r *Resolver) myProducts(ctx context.Context, _ graphql.ResolveParams) (interface{}, error) {
	userID, err := requireFarmer(ctx)
	if err != nil {
		return nil, err
	}

	list, err := r.Products.MyProducts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapProducts(list), nil
}

func (r *Resolver) createProduct(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := requireFarmer(ctx)
	if err != nil {
		return nil, err
	}

	in, err := toProductInput(-1, inputArg(p, "input"))
	if err != nil {
		return nil, err
	}

	prod, err := r.Products.CreateProduct(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return mapProduct(prod), nil
}

func (r *Resolver) bulkCreateProducts(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := requireFarmer(ctx)
	if err != nil {
		return nil, err
	}

	raw, _ := p.Args["inputs"].([]interface{})
	inputs := make([]product.CreateProductInput, 0, len(raw))
	var invalid product.ValidationErrors
	for i, item := range raw {
		m, _ := item.(map[string]interface{})
		in, err := toProductInput(i, m)
		if err != nil {
			invalid = append(invalid, err.(*product.ValidationError))
			continue
		}
		inputs = append(inputs, in)
	}
	if len(invalid) > 0 {
		return nil, invalid
	}

	created, err := r.Products.BulkCreate(ctx, userID, inputs)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("bulk products created", zap.Int("count", len(created)))
	return mapProducts(created), nil
}

func (r *Resolver) deleteProduct(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := requireFarmer(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.Products.DeleteProduct(ctx, userID, stringArg(p.Args, "id")); err != nil {
		return nil, err
	}
	return true, nil
}
