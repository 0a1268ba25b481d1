package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v79"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/events"
	"github.com/example/storefront/internal/payment"
)

var (
	ErrEmptyCart           = errors.New("no items in cart")
	ErrInvalidInput        = errors.New("invalid input")
	ErrMissingSignature    = errors.New("no signature provided")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrSecretNotConfigured = errors.New("webhook secret not configured")
)

// Metadata keys carried on the processor session. The processor has no
// native order or customer schema, so the order snapshot rides along here
// and comes back on the confirmation event.
const (
	metaCustomerName  = "customer_name"
	metaCustomerPhone = "customer_phone"
	metaAddress       = "shipping_address"
	metaCity          = "shipping_city"
	metaState         = "shipping_state"
	metaZip           = "shipping_zip"
	metaOrderItems    = "order_items"
)

// CustomerInfo is the checkout form. Every field is required.
type CustomerInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
}

// Validate reports the first missing field.
func (i CustomerInfo) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", i.FullName},
		{"email", i.Email},
		{"phone", i.Phone},
		{"address", i.Address},
		{"city", i.City},
		{"state", i.State},
		{"zipCode", i.ZipCode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}
	return nil
}

// OrderPublisher announces created orders. Publishing is best-effort and
// never affects the webhook acknowledgment.
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, e events.OrderCreated) error
}

// Orchestrator runs the two-phase checkout flow: session creation with the
// payment processor, then persistence of the order when the processor's
// signed confirmation event arrives.
type Orchestrator struct {
	payments      payment.Client
	store         catalog.Store
	publisher     OrderPublisher
	webhookSecret string
	siteURL       string
}

// NewOrchestrator creates a checkout orchestrator. publisher may be nil when
// no event stream is configured.
func NewOrchestrator(payments payment.Client, store catalog.Store, publisher OrderPublisher, webhookSecret, siteURL string) *Orchestrator {
	return &Orchestrator{
		payments:      payments,
		store:         store,
		publisher:     publisher,
		webhookSecret: webhookSecret,
		siteURL:       siteURL,
	}
}

// CreateSession prices the submitted cart and opens a hosted payment
// session. On any failure the cart is untouched; the caller may retry.
func (o *Orchestrator) CreateSession(ctx context.Context, items []Item, info CustomerInfo) (*payment.Session, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("%w: product_id is required", ErrInvalidInput)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
		}
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}

	pricing := PriceItems(items)

	lineItems := make([]payment.LineItem, 0, len(items)+2)
	for _, item := range items {
		li := payment.LineItem{
			Name:        item.ProductName,
			Description: item.Description,
			UnitAmount:  Cents(item.UnitPrice),
			Quantity:    int64(item.Quantity),
		}
		if item.Image != "" {
			li.Images = []string{item.Image}
		}
		lineItems = append(lineItems, li)
	}
	lineItems = append(lineItems, payment.LineItem{
		Name:        "Shipping",
		Description: "Standard shipping",
		UnitAmount:  Cents(pricing.Shipping),
		Quantity:    1,
	})
	lineItems = append(lineItems, payment.LineItem{
		Name:        "Tax",
		Description: "Sales tax (8%)",
		UnitAmount:  Cents(pricing.Tax),
		Quantity:    1,
	})

	snapshot := make([]catalog.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = catalog.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal order snapshot: %w", err)
	}

	session, err := o.payments.CreateCheckoutSession(ctx, &payment.SessionRequest{
		LineItems:     lineItems,
		CustomerEmail: info.Email,
		Metadata: map[string]string{
			metaCustomerName:  info.FullName,
			metaCustomerPhone: info.Phone,
			metaAddress:       info.Address,
			metaCity:          info.City,
			metaState:         info.State,
			metaZip:           info.ZipCode,
			metaOrderItems:    string(snapshotJSON),
		},
		SuccessURL: o.siteURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  o.siteURL + "/checkout",
	})
	if err != nil {
		return nil, fmt.Errorf("payment processor: %w", err)
	}

	return session, nil
}

// HandleWebhookEvent processes one signed delivery from the processor. The
// signature is verified over the raw body before any field is trusted.
// Persistence failures are logged and swallowed: the processor's delivery
// contract expects a 200-class acknowledgment regardless, and a missed order
// is an operator repair task.
func (o *Orchestrator) HandleWebhookEvent(ctx context.Context, payload []byte, sigHeader string) error {
	if o.webhookSecret == "" {
		return ErrSecretNotConfigured
	}
	if sigHeader == "" {
		return ErrMissingSignature
	}

	event, err := payment.VerifyEvent(payload, sigHeader, o.webhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	// Unknown event types are acknowledged without action.
	if string(event.Type) != payment.EventCheckoutCompleted {
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("[Checkout] Failed to decode session from event %s: %v", event.ID, err)
		return nil
	}

	order, err := o.buildOrder(&session)
	if err != nil {
		log.Printf("[Checkout] Failed to build order for session %s: %v", session.ID, err)
		return nil
	}

	created, err := o.store.CreateOrder(ctx, order)
	if err != nil {
		log.Printf("[Checkout] Failed to persist order for session %s: %v", session.ID, err)
		return nil
	}
	if !created {
		log.Printf("[Checkout] Order for session %s already exists, skipping duplicate delivery", session.ID)
		return nil
	}

	log.Printf("[Checkout] Order %s created for session %s", order.OrderNumber, session.ID)

	if o.publisher != nil {
		published := events.OrderCreated{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			SessionID:     order.SessionID,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			Items:         order.Items,
			TotalAmount:   order.TotalAmount,
			CreatedAt:     order.OrderDate,
		}
		if err := o.publisher.PublishOrderCreated(ctx, published); err != nil {
			log.Printf("[Checkout] Failed to publish OrderCreated for session %s: %v", session.ID, err)
		}
	}

	return nil
}

func (o *Orchestrator) buildOrder(session *stripe.CheckoutSession) (*catalog.Order, error) {
	var items []catalog.OrderItem
	if raw, ok := session.Metadata[metaOrderItems]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("decode order items snapshot: %w", err)
		}
	}

	paymentIntentID := ""
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	return &catalog.Order{
		ID:              uuid.New().String(),
		OrderNumber:     OrderNumber(session.ID),
		SessionID:       session.ID,
		PaymentIntentID: paymentIntentID,
		CustomerName:    session.Metadata[metaCustomerName],
		CustomerEmail:   session.CustomerEmail,
		CustomerPhone:   session.Metadata[metaCustomerPhone],
		ShippingAddress: session.Metadata[metaAddress],
		ShippingCity:    session.Metadata[metaCity],
		ShippingState:   session.Metadata[metaState],
		ShippingZip:     session.Metadata[metaZip],
		Items:           items,
		TotalAmount:     decimal.New(session.AmountTotal, -2),
		PaymentStatus:   "Paid",
		OrderStatus:     "Processing",
		OrderDate:       time.Now(),
	}, nil
}

// OrderNumber derives the human-readable order number from the processor
// session id: the last 8 characters, uppercased.
func OrderNumber(sessionID string) string {
	n := sessionID
	if len(n) > 8 {
		n = n[len(n)-8:]
	}
	return strings.ToUpper(n)
}
