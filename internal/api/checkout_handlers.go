package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/payment"
)

// CreateSessionRequest is the checkout submission: the cart snapshot plus
// the customer's shipping details.
type CreateSessionRequest struct {
	Items    []checkout.Item       `json:"items"`
	Customer checkout.CustomerInfo `json:"customerInfo"`
}

// CreateCheckoutSession opens a hosted payment session for the submitted cart
func (h *Handlers) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.checkout.CreateSession(r.Context(), req.Items, req.Customer)
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondJSONError(w, "No items in cart", http.StatusBadRequest)
		return
	}
	if errors.Is(err, checkout.ErrInvalidInput) {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		respondJSONError(w, "Failed to create checkout session", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// HandleWebhook receives signed payment-confirmation events. The body is
// read raw; the signature is verified over those exact bytes.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	err = h.checkout.HandleWebhookEvent(r.Context(), payload, r.Header.Get(payment.SignatureHeader))
	switch {
	case errors.Is(err, checkout.ErrSecretNotConfigured):
		respondJSONError(w, "Webhook not configured", http.StatusInternalServerError)
		return
	case errors.Is(err, checkout.ErrMissingSignature):
		respondJSONError(w, "No signature provided", http.StatusBadRequest)
		return
	case errors.Is(err, checkout.ErrInvalidSignature):
		respondJSONError(w, "Invalid signature", http.StatusBadRequest)
		return
	case err != nil:
		respondJSONError(w, "Webhook processing failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
