package graph

import (
	"context"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/utils"

	"github.com/graphql-go/graphql"
)

func (r *Resolver) cart(ctx context.Context, _ graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	c, err := r.Carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapCart(c), nil
}

func (r *Resolver) addToCart(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	return r.mutateCart(ctx, func(userID string) (*cart.Cart, error) {
		return r.Carts.Add(ctx, userID, stringArg(p.Args, "productId"), intArg(p.Args, "quantity"))
	})
}

func (r *Resolver) setCartQuantity(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	return r.mutateCart(ctx, func(userID string) (*cart.Cart, error) {
		return r.Carts.SetQuantity(ctx, userID, stringArg(p.Args, "productId"), intArg(p.Args, "quantity"))
	})
}

func (r *Resolver) removeFromCart(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	return r.mutateCart(ctx, func(userID string) (*cart.Cart, error) {
		return r.Carts.Remove(ctx, userID, stringArg(p.Args, "productId"))
	})
}

func (r *Resolver) clearCart(ctx context.Context, _ graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.Carts.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) mutateCart(ctx context.Context, fn func(userID string) (*cart.Cart, error)) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	c, err := fn(userID)
	if err != nil {
		return nil, err
	}
	return mapCart(c), nil
}
