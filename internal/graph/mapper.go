package graph

import (
	"time"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/catalog"
	"farmlink-be/internal/checkout"
	"farmlink-be/internal/message"
	"farmlink-be/internal/order"
	"farmlink-be/internal/product"
	"farmlink-be/internal/user"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func optional(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func mapUser(u *user.User) map[string]interface{} {
	if u == nil {
		return nil
	}
	return map[string]interface{}{
		"id":          u.ID,
		"email":       u.Email,
		"username":    u.Username,
		"role":        string(u.Role),
		"contactInfo": optional(u.ContactInfo),
		"createdAt":   timestamp(u.CreatedAt),
	}
}

func mapAccount(a *user.Account) map[string]interface{} {
	out := map[string]interface{}{
		"user":     mapUser(a.User),
		"farmer":   nil,
		"consumer": nil,
	}
	if f := a.Farmer; f != nil {
		out["farmer"] = map[string]interface{}{
			"id":           f.ID,
			"farmName":     f.FarmName,
			"farmLocation": f.FarmLocation,
			"profileImage": optional(f.ProfileImage),
		}
	}
	if c := a.Consumer; c != nil {
		out["consumer"] = map[string]interface{}{
			"id":           c.ID,
			"location":     c.Location,
			"profileImage": optional(c.ProfileImage),
		}
	}
	return out
}

func mapSession(s *user.Session) map[string]interface{} {
	return map[string]interface{}{
		"token":     s.Token,
		"expiresAt": timestamp(s.ExpiresAt),
		"user":      mapUser(s.User),
	}
}

func mapParty(p user.Party) map[string]interface{} {
	return map[string]interface{}{
		"userId": p.UserID,
		"name":   p.Name,
		"info":   p.Info,
		"role":   string(p.Role),
	}
}

func mapParties(ps []user.Party) []interface{} {
	out := make([]interface{}, 0, len(ps))
	for _, p := range ps {
		out = append(out, mapParty(p))
	}
	return out
}

func mapProduct(p *product.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"farmerId":    p.FarmerID,
		"name":        p.Name,
		"description": p.Description,
		"price":       money(p.Price),
		"stockLevel":  p.StockLevel,
		"imageUrl":    optional(p.ImageURL),
		"category":    p.Category,
		"isOrganic":   p.IsOrganic,
		"unit":        p.Unit,
		"farmName":    p.FarmName,
		"farmerName":  p.FarmerName,
		"createdAt":   timestamp(p.CreatedAt),
	}
}

func mapProducts(ps []product.Product) []interface{} {
	out := make([]interface{}, 0, len(ps))
	for i := range ps {
		out = append(out, mapProduct(&ps[i]))
	}
	return out
}

func mapCatalog(v *catalog.View) map[string]interface{} {
	return map[string]interface{}{
		"state":      string(v.State),
		"message":    v.Message,
		"products":   mapProducts(v.Products),
		"categories": v.Categories,
		"filtered":   mapProducts(v.Filtered),
	}
}

// mapCart includes the delivery fee the cart would be charged at checkout.
func mapCart(c *cart.Cart) map[string]interface{} {
	items := make([]interface{}, 0, len(c.Items))
	for _, li := range c.Items {
		items = append(items, map[string]interface{}{
			"productId":    li.ProductID,
			"productName":  li.ProductName,
			"productImage": optional(li.ProductImage),
			"quantity":     li.Quantity,
			"pricePerItem": money(li.PricePerItem),
			"subtotal":     money(li.Subtotal()),
		})
	}

	subtotal := c.TotalPrice()
	fee := decimal.Zero
	if !c.IsEmpty() {
		fee = checkout.DeliveryFee(subtotal)
	}
	return map[string]interface{}{
		"items":       items,
		"totalItems":  c.TotalItems(),
		"totalPrice":  money(subtotal),
		"deliveryFee": money(fee),
		"total":       money(subtotal.Add(fee)),
	}
}

func mapOrder(o *order.Order) map[string]interface{} {
	items := make([]interface{}, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]interface{}{
			"id":           it.ID,
			"productId":    it.ProductID,
			"productName":  it.ProductName,
			"quantity":     it.Quantity,
			"pricePerItem": money(it.PricePerItem),
			"subtotal":     money(it.Subtotal()),
		})
	}
	return map[string]interface{}{
		"id":         o.ID,
		"orderDate":  timestamp(o.OrderDate),
		"status":     string(o.Status),
		"totalPrice": money(o.TotalPrice),
		"itemsTotal": money(o.ItemsTotal()),
		"items":      items,
	}
}

func mapOrders(os []order.Order) []interface{} {
	out := make([]interface{}, 0, len(os))
	for i := range os {
		out = append(out, mapOrder(&os[i]))
	}
	return out
}

func mapCheckout(r *checkout.Result) map[string]interface{} {
	return map[string]interface{}{
		"orderId":     r.OrderID,
		"sessionId":   r.SessionID,
		"redirectUrl": r.RedirectURL,
		"subtotal":    money(r.Subtotal),
		"deliveryFee": money(r.DeliveryFee),
		"total":       money(r.Total),
	}
}

func mapMessage(m *message.Message, viewerID string) map[string]interface{} {
	return map[string]interface{}{
		"id":         m.ID,
		"senderId":   m.SenderID,
		"receiverId": m.ReceiverID,
		"content":    m.Content,
		"timestamp":  timestamp(m.Timestamp),
		"isRead":     m.IsRead,
		"isMine":     m.SenderID == viewerID,
	}
}

func mapConversation(c message.Conversation) map[string]interface{} {
	return map[string]interface{}{
		"counterparty":  mapParty(c.Counterparty),
		"lastMessage":   c.LastMessage,
		"lastTimestamp": timestamp(c.LastTimestamp),
		"unread":        c.Unread,
	}
}
