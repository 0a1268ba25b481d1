package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/catalog"
)

const TypeOrderCreated = "OrderCreated"

// Envelope wraps every published event with its type so consumers can route
// without decoding the payload.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// OrderCreated is published after a confirmed payment produces a new order
// record. Notification consumers use it to send the confirmation email.
type OrderCreated struct {
	OrderID       string              `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	SessionID     string              `json:"session_id"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	Items         []catalog.OrderItem `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	CreatedAt     time.Time           `json:"created_at"`
}
