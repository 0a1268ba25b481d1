package payment

import (
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// SignatureHeader is the processor's signature header on webhook deliveries.
const SignatureHeader = "Stripe-Signature"

// EventCheckoutCompleted is the only event type that creates orders.
const EventCheckoutCompleted = "checkout.session.completed"

// VerifyEvent checks the webhook signature over the raw request body and
// returns the parsed event. The payload must not be trusted or parsed by the
// caller before this succeeds.
func VerifyEvent(payload []byte, sigHeader, secret string) (*stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, err
	}
	return &event, nil
}
