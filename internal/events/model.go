package events

import "time"

const (
	TopicOrderCreated   = "order.created"
	TopicOrderConfirmed = "order.confirmed"
	TopicOrderCancelled = "order.cancelled"
	TopicProductCreated = "product.created"
	TopicMessageSent    = "message.sent"
)

type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	RequestID  string      `json:"request_id,omitempty"`
	Data       interface{} `json:"data"`
}

type OrderCreated struct {
	OrderID    string `json:"order_id"`
	ConsumerID string `json:"consumer_id"`
	Total      string `json:"total"`
	ItemCount  int    `json:"item_count"`
}

type OrderStatusChanged struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type ProductCreated struct {
	ProductID string `json:"product_id"`
	FarmerID  string `json:"farmer_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
}

type MessageSent struct {
	MessageID  string `json:"message_id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
}
