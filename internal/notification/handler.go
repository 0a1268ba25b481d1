package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/events"
)

// Mailer is the slice of the email service the handler needs.
type Mailer interface {
	SendOrderConfirmation(to, customerName, orderNumber string, total decimal.Decimal, items []catalog.OrderItem) error
}

// Handler processes events for sending notifications
type Handler struct {
	mailer Mailer
}

// NewHandler creates a new notification handler
func NewHandler(mailer Mailer) *Handler {
	return &Handler{mailer: mailer}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var envelope events.Envelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if envelope.Type == events.TypeOrderCreated {
		return h.handleOrderCreated(envelope)
	}

	return nil
}

func (h *Handler) handleOrderCreated(envelope events.Envelope) error {
	var e events.OrderCreated
	if err := json.Unmarshal(envelope.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderCreated event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderCreated event for order %s", e.OrderNumber)

	if e.CustomerEmail == "" {
		log.Printf("[Notifier] Order %s has no customer email, skipping", e.OrderNumber)
		return nil
	}

	if err := h.mailer.SendOrderConfirmation(e.CustomerEmail, e.CustomerName, e.OrderNumber, e.TotalAmount, e.Items); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", e.CustomerEmail, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", e.CustomerEmail, e.OrderNumber)
	return nil
}
