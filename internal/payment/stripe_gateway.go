package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"farmlink-be/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://api.stripe.com"
	signatureTolerance = 5 * time.Minute
	deliveryFeeLabel   = "Delivery Fee"
)

type stripeGateway struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
	now           func() time.Time
}

// ----------------- Constructor -----------------

func NewStripeGateway(secretKey, webhookSecret, baseURL string) Gateway {
	if secretKey == "" {
		logger.L().Warn("payment secret key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &stripeGateway{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		now: time.Now,
	}
}

// ----------------- CreateSession -----------------

func sessionForm(req SessionRequest) url.Values {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("client_reference_id", req.OrderID)
	if req.CustomerEmail != "" {
		form.Set("customer_email", req.CustomerEmail)
	}

	items := req.Items
	if req.DeliveryFee.IsPositive() {
		items = append(items[:len(items):len(items)], LineItem{Name: deliveryFeeLabel, Quantity: 1, Price: req.DeliveryFee})
	}
	for i, it := range items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", req.Currency)
		form.Set(prefix+"[price_data][product_data][name]", it.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(MinorUnits(it.Price), 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(it.Quantity))
	}

	form.Set("metadata[orderId]", req.OrderID)
	form.Set("metadata[deliveryAddress]", req.DeliveryAddress)
	form.Set("metadata[contactNumber]", req.ContactNumber)
	form.Set("metadata[orderNotes]", req.Notes)
	return form
}

func (g *stripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", req.OrderID),
		zap.Int64("amount", MinorUnits(req.Total())),
		zap.String("currency", req.Currency),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/checkout/sessions", strings.NewReader(sessionForm(req).Encode()))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return nil, err
	}
	httpReq.SetBasicAuth(g.secretKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Idempotency-Key", "checkout-"+req.OrderID)

	log.Info("requesting payment session")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		log.Error("payment provider request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read payment provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("payment provider returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return nil, fmt.Errorf("payment provider error (%d): %s", resp.StatusCode, string(body))
	}

	var res struct {
		ID          string `json:"id"`
		URL         string `json:"url"`
		AmountTotal int64  `json:"amount_total"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		log.Error("failed decoding payment session", zap.Error(err))
		return nil, err
	}
	if res.URL == "" {
		return nil, ErrMissingSessionURL
	}

	log.Info("payment session created", zap.String("session_id", res.ID))
	return &Session{ID: res.ID, URL: res.URL, AmountTotal: res.AmountTotal}, nil
}

// ----------------- Verify Signature -----------------

// VerifySignature checks a "t=<unix>,v1=<hex hmac>" header against the
// signing secret. Verification is skipped when no secret is configured.
func (g *stripeGateway) VerifySignature(payload []byte, header string) error {
	if g.webhookSecret == "" {
		return nil
	}

	var (
		ts   int64
		sigs []string
	)
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			ts = n
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return ErrInvalidSignature
	}

	age := g.now().Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return ErrSignatureExpired
	}

	expected := Sign(g.webhookSecret, ts, payload)
	for _, sig := range sigs {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign computes the v1 signature for a payload sent at ts.
func Sign(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
