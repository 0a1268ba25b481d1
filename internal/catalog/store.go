package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record does not exist. It is an explicit
// variant so callers never have to inspect provider error shapes.
var ErrNotFound = errors.New("record not found")

// Store is the content repository client. All durable storefront state
// (products, collections, reviews, users, orders, contact submissions) lives
// behind this interface.
type Store interface {
	// Products
	ListProducts(ctx context.Context) ([]Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	ListProductsByCollection(ctx context.Context, collectionID string) ([]Product, error)

	// Collections
	ListCollections(ctx context.Context) ([]Collection, error)
	GetCollectionBySlug(ctx context.Context, slug string) (*Collection, error)

	// Reviews
	ListReviews(ctx context.Context) ([]Review, error)
	ListReviewsByProduct(ctx context.Context, productID string) ([]Review, error)

	// Users
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	UpdateUserProfile(ctx context.Context, id, fullName, bio string) (*User, error)

	// Orders. CreateOrder is an upsert keyed on the processor session id:
	// it reports false when an order for the same session already exists,
	// so duplicate webhook deliveries converge to a single record.
	CreateOrder(ctx context.Context, o *Order) (bool, error)
	GetOrderBySessionID(ctx context.Context, sessionID string) (*Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]Order, error)

	// Contact submissions
	CreateContactSubmission(ctx context.Context, s *ContactSubmission) error
}
