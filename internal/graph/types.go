package graph

import (
	"farmlink-be/internal/order"
	"farmlink-be/internal/user"

	"github.com/graphql-go/graphql"
)

func nonNull(t graphql.Output) graphql.Output { return graphql.NewNonNull(t) }

func listOf(t graphql.Output) graphql.Output {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

var roleEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "Role",
	Values: graphql.EnumValueConfigMap{
		"FARMER":   &graphql.EnumValueConfig{Value: string(user.RoleFarmer)},
		"CONSUMER": &graphql.EnumValueConfig{Value: string(user.RoleConsumer)},
	},
})

var orderStatusEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "OrderStatus",
	Values: graphql.EnumValueConfigMap{
		"PENDING":   &graphql.EnumValueConfig{Value: string(order.StatusPending)},
		"CONFIRMED": &graphql.EnumValueConfig{Value: string(order.StatusConfirmed)},
		"COMPLETED": &graphql.EnumValueConfig{Value: string(order.StatusCompleted)},
		"CANCELLED": &graphql.EnumValueConfig{Value: string(order.StatusCancelled)},
	},
})

var catalogStateEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "CatalogState",
	Values: graphql.EnumValueConfigMap{
		"OK":          &graphql.EnumValueConfig{Value: "OK"},
		"ERROR":       &graphql.EnumValueConfig{Value: "ERROR"},
		"NO_PRODUCTS": &graphql.EnumValueConfig{Value: "NO_PRODUCTS"},
		"NO_MATCHES":  &graphql.EnumValueConfig{Value: "NO_MATCHES"},
	},
})

/* ---------- ACCOUNTS ---------- */

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: nonNull(graphql.ID)},
		"email":       &graphql.Field{Type: nonNull(graphql.String)},
		"username":    &graphql.Field{Type: nonNull(graphql.String)},
		"role":        &graphql.Field{Type: nonNull(roleEnum)},
		"contactInfo": &graphql.Field{Type: graphql.String},
		"createdAt":   &graphql.Field{Type: graphql.String},
	},
})

var farmerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Farmer",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: nonNull(graphql.ID)},
		"farmName":     &graphql.Field{Type: nonNull(graphql.String)},
		"farmLocation": &graphql.Field{Type: nonNull(graphql.String)},
		"profileImage": &graphql.Field{Type: graphql.String},
	},
})

var consumerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Consumer",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: nonNull(graphql.ID)},
		"location":     &graphql.Field{Type: graphql.String},
		"profileImage": &graphql.Field{Type: graphql.String},
	},
})

var accountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Account",
	Fields: graphql.Fields{
		"user":     &graphql.Field{Type: nonNull(userType)},
		"farmer":   &graphql.Field{Type: farmerType},
		"consumer": &graphql.Field{Type: consumerType},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token":     &graphql.Field{Type: nonNull(graphql.String)},
		"expiresAt": &graphql.Field{Type: nonNull(graphql.String)},
		"user":      &graphql.Field{Type: nonNull(userType)},
	},
})

var partyType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Party",
	Fields: graphql.Fields{
		"userId": &graphql.Field{Type: nonNull(graphql.ID)},
		"name":   &graphql.Field{Type: nonNull(graphql.String)},
		"info":   &graphql.Field{Type: graphql.String},
		"role":   &graphql.Field{Type: roleEnum},
	},
})

/* ---------- CATALOG ---------- */

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: nonNull(graphql.ID)},
		"farmerId":    &graphql.Field{Type: nonNull(graphql.ID)},
		"name":        &graphql.Field{Type: nonNull(graphql.String)},
		"description": &graphql.Field{Type: nonNull(graphql.String)},
		"price":       &graphql.Field{Type: nonNull(graphql.String)},
		"stockLevel":  &graphql.Field{Type: nonNull(graphql.Int)},
		"imageUrl":    &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: nonNull(graphql.String)},
		"isOrganic":   &graphql.Field{Type: nonNull(graphql.Boolean)},
		"unit":        &graphql.Field{Type: nonNull(graphql.String)},
		"farmName":    &graphql.Field{Type: graphql.String},
		"farmerName":  &graphql.Field{Type: graphql.String},
		"createdAt":   &graphql.Field{Type: graphql.String},
	},
})

var catalogType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Catalog",
	Fields: graphql.Fields{
		"state":      &graphql.Field{Type: nonNull(catalogStateEnum)},
		"message":    &graphql.Field{Type: graphql.String},
		"products":   &graphql.Field{Type: listOf(productType)},
		"categories": &graphql.Field{Type: listOf(graphql.String)},
		"filtered":   &graphql.Field{Type: listOf(productType)},
	},
})

/* ---------- CART & ORDERS ---------- */

var cartItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartItem",
	Fields: graphql.Fields{
		"productId":    &graphql.Field{Type: nonNull(graphql.ID)},
		"productName":  &graphql.Field{Type: nonNull(graphql.String)},
		"productImage": &graphql.Field{Type: graphql.String},
		"quantity":     &graphql.Field{Type: nonNull(graphql.Int)},
		"pricePerItem": &graphql.Field{Type: nonNull(graphql.String)},
		"subtotal":     &graphql.Field{Type: nonNull(graphql.String)},
	},
})

var cartType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Cart",
	Fields: graphql.Fields{
		"items":       &graphql.Field{Type: listOf(cartItemType)},
		"totalItems":  &graphql.Field{Type: nonNull(graphql.Int)},
		"totalPrice":  &graphql.Field{Type: nonNull(graphql.String)},
		"deliveryFee": &graphql.Field{Type: nonNull(graphql.String)},
		"total":       &graphql.Field{Type: nonNull(graphql.String)},
	},
})

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: nonNull(graphql.ID)},
		"productId":    &graphql.Field{Type: nonNull(graphql.ID)},
		"productName":  &graphql.Field{Type: graphql.String},
		"quantity":     &graphql.Field{Type: nonNull(graphql.Int)},
		"pricePerItem": &graphql.Field{Type: nonNull(graphql.String)},
		"subtotal":     &graphql.Field{Type: nonNull(graphql.String)},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: nonNull(graphql.ID)},
		"orderDate":  &graphql.Field{Type: nonNull(graphql.String)},
		"status":     &graphql.Field{Type: nonNull(orderStatusEnum)},
		"totalPrice": &graphql.Field{Type: nonNull(graphql.String)},
		"itemsTotal": &graphql.Field{Type: nonNull(graphql.String)},
		"items":      &graphql.Field{Type: listOf(orderItemType)},
	},
})

var checkoutResultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CheckoutResult",
	Fields: graphql.Fields{
		"orderId":     &graphql.Field{Type: nonNull(graphql.ID)},
		"sessionId":   &graphql.Field{Type: nonNull(graphql.String)},
		"redirectUrl": &graphql.Field{Type: nonNull(graphql.String)},
		"subtotal":    &graphql.Field{Type: nonNull(graphql.String)},
		"deliveryFee": &graphql.Field{Type: nonNull(graphql.String)},
		"total":       &graphql.Field{Type: nonNull(graphql.String)},
	},
})

/* ---------- MESSAGING ---------- */

var messageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Message",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: nonNull(graphql.ID)},
		"senderId":   &graphql.Field{Type: nonNull(graphql.ID)},
		"receiverId": &graphql.Field{Type: nonNull(graphql.ID)},
		"content":    &graphql.Field{Type: nonNull(graphql.String)},
		"timestamp":  &graphql.Field{Type: nonNull(graphql.String)},
		"isRead":     &graphql.Field{Type: nonNull(graphql.Boolean)},
		"isMine":     &graphql.Field{Type: nonNull(graphql.Boolean)},
	},
})

var conversationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Conversation",
	Fields: graphql.Fields{
		"counterparty":  &graphql.Field{Type: nonNull(partyType)},
		"lastMessage":   &graphql.Field{Type: nonNull(graphql.String)},
		"lastTimestamp": &graphql.Field{Type: nonNull(graphql.String)},
		"unread":        &graphql.Field{Type: nonNull(graphql.Int)},
	},
})

/* ---------- INPUTS ---------- */

var signUpInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "SignUpInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"username": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"role":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(roleEnum)},
		"location": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var updateProfileInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateProfileInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"username":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"contactInfo":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"farmName":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"farmLocation": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"location":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"profileImage": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var productInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"price":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"stockLevel":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		"category":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"unit":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		"isOrganic":   &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		"imageUrl":    &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var checkoutInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CheckoutInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"deliveryAddress": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"contactNumber":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"notes":           &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})
