package catalog

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and local development.
// It records order-creation calls so tests can assert that certain paths
// never reach persistence.
type MemoryStore struct {
	mu sync.RWMutex

	products    []Product
	collections []Collection
	reviews     []Review
	users       map[string]*User
	orders      map[string]*Order // keyed by session id
	contacts    []ContactSubmission

	// CreateOrderCalls counts every CreateOrder invocation, including
	// duplicates that did not insert.
	CreateOrderCalls int

	// FailCreateOrder forces CreateOrder to return an error, for testing
	// the webhook swallow-after-log contract.
	FailCreateOrder error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]*User),
		orders: make(map[string]*Order),
	}
}

// Seed helpers

func (s *MemoryStore) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

func (s *MemoryStore) AddCollection(c Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = append(s.collections, c)
}

func (s *MemoryStore) AddReview(r Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, r)
}

// Products

func (s *MemoryStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemoryStore) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].Slug == slug {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetProductByID(ctx context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListProductsByCollection(ctx context.Context, collectionID string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Product
	for _, p := range s.products {
		for _, cid := range p.CollectionIDs {
			if cid == collectionID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// Collections

func (s *MemoryStore) ListCollections(ctx context.Context) ([]Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Collection, len(s.collections))
	copy(out, s.collections)
	return out, nil
}

func (s *MemoryStore) GetCollectionBySlug(ctx context.Context, slug string) (*Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.collections {
		if s.collections[i].Slug == slug {
			c := s.collections[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// Reviews

func (s *MemoryStore) ListReviews(ctx context.Context) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Review, len(s.reviews))
	copy(out, s.reviews)
	return out, nil
}

func (s *MemoryStore) ListReviewsByProduct(ctx context.Context, productID string) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Review
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Users

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *MemoryStore) UpdateUserProfile(ctx context.Context, id, fullName, bio string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.FullName = fullName
	u.Bio = bio
	copied := *u
	return &copied, nil
}

// SetUserStatus updates a user's account status. Test helper for exercising
// deactivation between token issuance and verification.
func (s *MemoryStore) SetUserStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Status = status
	}
}

// Orders

func (s *MemoryStore) CreateOrder(ctx context.Context, o *Order) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateOrderCalls++
	if s.FailCreateOrder != nil {
		return false, s.FailCreateOrder
	}
	if _, exists := s.orders[o.SessionID]; exists {
		return false, nil
	}
	copied := *o
	s.orders[o.SessionID] = &copied
	return true, nil
}

func (s *MemoryStore) GetOrderBySessionID(ctx context.Context, sessionID string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *MemoryStore) ListOrdersByEmail(ctx context.Context, email string) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Order
	for _, o := range s.orders {
		if o.CustomerEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

// OrderCount reports the number of stored orders.
func (s *MemoryStore) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Contact submissions

func (s *MemoryStore) CreateContactSubmission(ctx context.Context, sub *ContactSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, *sub)
	return nil
}

// ContactSubmissions returns stored submissions. Test helper.
func (s *MemoryStore) ContactSubmissions() []ContactSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ContactSubmission, len(s.contacts))
	copy(out, s.contacts)
	return out
}
