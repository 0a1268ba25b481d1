package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account status values for users.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Product is a catalog product as stored in the content repository.
// Products are owned by the repository and immutable from the storefront's
// perspective.
type Product struct {
	ID            string          `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Images        []string        `json:"images,omitempty"`
	InStock       bool            `json:"in_stock"`
	CollectionIDs []string        `json:"collection_ids,omitempty"`
	ModifiedAt    time.Time       `json:"modified_at"`
}

// Collection groups products for browsing.
type Collection struct {
	ID            string `json:"id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	FeaturedImage string `json:"featured_image,omitempty"`
}

// Review is a customer product review.
type Review struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	CustomerName     string    `json:"customer_name"`
	Rating           int       `json:"rating"`
	ReviewText       string    `json:"review_text"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	CreatedAt        time.Time `json:"created_at"`
}

// User is an account record. PasswordHash never leaves the repository layer;
// handlers expose users through auth.PublicUser instead.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	PasswordHash   string    `json:"-"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderItem is a point-in-time copy of a purchased cart line. It is captured
// at checkout and never re-linked to the live product.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"price"`
}

// Order is the immutable record created when the payment processor confirms
// a checkout session. SessionID is the processor's session id and is the
// idempotency key for order creation.
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	SessionID       string          `json:"session_id"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingCity    string          `json:"shipping_city"`
	ShippingState   string          `json:"shipping_state"`
	ShippingZip     string          `json:"shipping_zip"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentStatus   string          `json:"payment_status"`
	OrderStatus     string          `json:"order_status"`
	OrderDate       time.Time       `json:"order_date"`
}

// ContactSubmission is a stored contact-form message.
type ContactSubmission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}
