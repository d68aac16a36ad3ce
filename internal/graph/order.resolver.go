package graph

import (
	"context"

	"farmlink-be/internal/checkout"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/transport"
	"farmlink-be/internal/utils"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

func (r *Resolver) orders(ctx context.Context, _ graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	list, err := r.Checkout.Orders(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapOrders(list), nil
}

func (r *Resolver) order(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	o, err := r.Checkout.Order(ctx, userID, stringArg(p.Args, "id"))
	if err != nil {
		return nil, err
	}
	return mapOrder(o), nil
}

func (r *Resolver) checkout(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	in := inputArg(p, "input")
	res, err := r.Checkout.PlaceOrder(ctx, userID, checkout.Input{
		DeliveryAddress: stringArg(in, "deliveryAddress"),
		ContactNumber:   stringArg(in, "contactNumber"),
		Notes:           stringArg(in, "notes"),
		Origin:          transport.Origin(ctx, ""),
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("checkout redirect issued", zap.String("order_id", res.OrderID))
	return mapCheckout(res), nil
}

// confirmPayment is only available to the consumer who placed the order.
func (r *Resolver) confirmPayment(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	orderID := stringArg(p.Args, "orderId")
	if _, err := r.Checkout.Order(ctx, userID, orderID); err != nil {
		return nil, err
	}

	o, err := r.Checkout.ConfirmPayment(ctx, orderID, stringArg(p.Args, "sessionId"))
	if err != nil {
		return nil, err
	}
	return mapOrder(o), nil
}
