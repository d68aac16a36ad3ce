package payment

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const MethodCard = "card"

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrSignatureExpired  = errors.New("webhook signature timestamp outside tolerance")
	ErrMissingSessionURL = errors.New("payment provider returned no redirect url")
)

type Payment struct {
	ID            string
	OrderID       string
	TransactionID string
	Amount        decimal.Decimal
	PaymentMethod string
	Status        Status
	CreatedAt     time.Time
}

type LineItem struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// SessionRequest describes one hosted checkout page.
type SessionRequest struct {
	OrderID         string
	Currency        string
	Items           []LineItem
	DeliveryFee     decimal.Decimal
	DeliveryAddress string
	ContactNumber   string
	Notes           string
	CustomerEmail   string
	SuccessURL      string
	CancelURL       string
}

// Total is the amount the customer is charged, in major units.
func (r SessionRequest) Total() decimal.Decimal {
	total := r.DeliveryFee
	for _, it := range r.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

type Session struct {
	ID          string
	URL         string
	AmountTotal int64
}

// MinorUnits converts a major-unit amount to the integer the provider expects.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Event is the subset of a provider webhook the service acts on.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object SessionObject `json:"object"`
	} `json:"data"`
}

type SessionObject struct {
	ID                string            `json:"id"`
	ClientReferenceID string            `json:"client_reference_id"`
	PaymentStatus     string            `json:"payment_status"`
	AmountTotal       int64             `json:"amount_total"`
	Metadata          map[string]string `json:"metadata"`
}

// OrderID prefers the metadata set at session creation.
func (o SessionObject) OrderID() string {
	if id := o.Metadata["orderId"]; id != "" {
		return id
	}
	return o.ClientReferenceID
}

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, errors.New("webhook event is missing id or type")
	}
	return &ev, nil
}
