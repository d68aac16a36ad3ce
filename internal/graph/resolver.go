package graph

import (
	"context"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/catalog"
	"farmlink-be/internal/checkout"
	"farmlink-be/internal/message"
	"farmlink-be/internal/product"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"github.com/graphql-go/graphql"
)

type Resolver struct {
	Users    user.Service
	Catalog  catalog.Service
	Products product.Service
	Carts    cart.Service
	Checkout checkout.Service
	Messages message.Service

	// SecureCookies marks the session cookie Secure (production).
	SecureCookies bool
}

func NewSchema(r *Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: r.queryFields(),
	})
	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Mutation",
		Fields: r.mutationFields(),
	})
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// resolveFn adapts a context-first resolver and maps its errors.
func resolveFn(fn func(ctx context.Context, p graphql.ResolveParams) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		ctx := p.Context
		if ctx == nil {
			ctx = context.Background()
		}
		out, err := fn(ctx, p)
		if err != nil {
			return nil, toGQLError(ctx, err)
		}
		return out, nil
	}
}

func requireFarmer(ctx context.Context) (string, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return "", err
	}
	if utils.GetUserRoleFromContext(ctx) != utils.RoleFarmer {
		return "", errFarmerOnly
	}
	return userID, nil
}
