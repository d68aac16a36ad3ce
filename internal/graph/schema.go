package graph

import "github.com/graphql-go/graphql"

func arg(t graphql.Input) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: t}
}

func requiredArg(t graphql.Input) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(t)}
}

func (r *Resolver) queryFields() graphql.Fields {
	return graphql.Fields{
		"me": &graphql.Field{
			Type:    accountType,
			Resolve: resolveFn(r.me),
		},
		"products": &graphql.Field{
			Type: nonNull(catalogType),
			Args: graphql.FieldConfigArgument{
				"category": arg(graphql.String),
				"search":   arg(graphql.String),
			},
			Resolve: resolveFn(r.products),
		},
		"product": &graphql.Field{
			Type:    productType,
			Args:    graphql.FieldConfigArgument{"id": requiredArg(graphql.ID)},
			Resolve: resolveFn(r.product),
		},
		"myProducts": &graphql.Field{
			Type:    listOf(productType),
			Resolve: resolveFn(r.myProducts),
		},
		"cart": &graphql.Field{
			Type:    nonNull(cartType),
			Resolve: resolveFn(r.cart),
		},
		"orders": &graphql.Field{
			Type:    listOf(orderType),
			Resolve: resolveFn(r.orders),
		},
		"order": &graphql.Field{
			Type:    orderType,
			Args:    graphql.FieldConfigArgument{"id": requiredArg(graphql.ID)},
			Resolve: resolveFn(r.order),
		},
		"conversations": &graphql.Field{
			Type:    listOf(conversationType),
			Resolve: resolveFn(r.conversations),
		},
		"thread": &graphql.Field{
			Type: listOf(messageType),
			Args: graphql.FieldConfigArgument{
				"counterpartyId": arg(graphql.ID),
				"farmerId":       arg(graphql.ID),
			},
			Resolve: resolveFn(r.thread),
		},
		"farmerUserId": &graphql.Field{
			Type:    nonNull(graphql.ID),
			Args:    graphql.FieldConfigArgument{"farmerId": requiredArg(graphql.ID)},
			Resolve: resolveFn(r.farmerUserID),
		},
		"recipients": &graphql.Field{
			Type:    listOf(partyType),
			Args:    graphql.FieldConfigArgument{"search": arg(graphql.String)},
			Resolve: resolveFn(r.recipients),
		},
	}
}

func (r *Resolver) mutationFields() graphql.Fields {
	return graphql.Fields{
		"signUp": &graphql.Field{
			Type:    nonNull(authPayloadType),
			Args:    graphql.FieldConfigArgument{"input": requiredArg(signUpInput)},
			Resolve: resolveFn(r.signUp),
		},
		"signIn": &graphql.Field{
			Type: nonNull(authPayloadType),
			Args: graphql.FieldConfigArgument{
				"email":    requiredArg(graphql.String),
				"password": requiredArg(graphql.String),
			},
			Resolve: resolveFn(r.signIn),
		},
		"signOut": &graphql.Field{
			Type:    nonNull(graphql.Boolean),
			Resolve: resolveFn(r.signOut),
		},
		"updateProfile": &graphql.Field{
			Type:    nonNull(accountType),
			Args:    graphql.FieldConfigArgument{"input": requiredArg(updateProfileInput)},
			Resolve: resolveFn(r.updateProfile),
		},
		"createProduct": &graphql.Field{
			Type:    nonNull(productType),
			Args:    graphql.FieldConfigArgument{"input": requiredArg(productInput)},
			Resolve: resolveFn(r.createProduct),
		},
		"bulkCreateProducts": &graphql.Field{
			Type: listOf(productType),
			Args: graphql.FieldConfigArgument{
				"inputs": requiredArg(graphql.NewList(graphql.NewNonNull(productInput))),
			},
			Resolve: resolveFn(r.bulkCreateProducts),
		},
		"deleteProduct": &graphql.Field{
			Type:    nonNull(graphql.Boolean),
			Args:    graphql.FieldConfigArgument{"id": requiredArg(graphql.ID)},
			Resolve: resolveFn(r.deleteProduct),
		},
		"addToCart": &graphql.Field{
			Type: nonNull(cartType),
			Args: graphql.FieldConfigArgument{
				"productId": requiredArg(graphql.ID),
				"quantity":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
			},
			Resolve: resolveFn(r.addToCart),
		},
		"setCartQuantity": &graphql.Field{
			Type: nonNull(cartType),
			Args: graphql.FieldConfigArgument{
				"productId": requiredArg(graphql.ID),
				"quantity":  requiredArg(graphql.Int),
			},
			Resolve: resolveFn(r.setCartQuantity),
		},
		"removeFromCart": &graphql.Field{
			Type:    nonNull(cartType),
			Args:    graphql.FieldConfigArgument{"productId": requiredArg(graphql.ID)},
			Resolve: resolveFn(r.removeFromCart),
		},
		"clearCart": &graphql.Field{
			Type:    nonNull(graphql.Boolean),
			Resolve: resolveFn(r.clearCart),
		},
		"checkout": &graphql.Field{
			Type:    nonNull(checkoutResultType),
			Args:    graphql.FieldConfigArgument{"input": requiredArg(checkoutInput)},
			Resolve: resolveFn(r.checkout),
		},
		"confirmPayment": &graphql.Field{
			Type: nonNull(orderType),
			Args: graphql.FieldConfigArgument{
				"orderId":   requiredArg(graphql.ID),
				"sessionId": requiredArg(graphql.String),
			},
			Resolve: resolveFn(r.confirmPayment),
		},
		"sendMessage": &graphql.Field{
			Type: nonNull(messageType),
			Args: graphql.FieldConfigArgument{
				"receiverId": requiredArg(graphql.ID),
				"content":    requiredArg(graphql.String),
			},
			Resolve: resolveFn(r.sendMessage),
		},
	}
}
