package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/payment"
)

const testWebhookSecret = "whsec_test_secret_for_unit_tests"

type stubPaymentClient struct {
	lastRequest *payment.SessionRequest
	err         error
}

func (s *stubPaymentClient) CreateCheckoutSession(ctx context.Context, req *payment.SessionRequest) (*payment.Session, error) {
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return &payment.Session{ID: "cs_test_abc12345", URL: "https://pay.example.com/cs_test_abc12345"}, nil
}

type testEnv struct {
	store   *catalog.MemoryStore
	tokens  *auth.TokenService
	carts   *cart.MemoryStorage
	stripe  *stubPaymentClient
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := catalog.NewMemoryStore()
	tokens, err := auth.NewTokenService("test-secret-key-for-testing-purposes")
	require.NoError(t, err)

	carts := cart.NewMemoryStorage()
	stripe := &stubPaymentClient{}
	orchestrator := checkout.NewOrchestrator(stripe, store, nil, testWebhookSecret, "https://shop.example.com")

	handlers := NewHandlers(store, auth.NewService(store, tokens), carts, orchestrator)
	return &testEnv{
		store:   store,
		tokens:  tokens,
		carts:   carts,
		stripe:  stripe,
		handler: NewRouter(handlers, tokens),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func seedProduct(store *catalog.MemoryStore) catalog.Product {
	p := catalog.Product{
		ID:      "p1",
		Slug:    "ceramic-mug",
		Name:    "Ceramic Mug",
		Price:   decimal.RequireFromString("10.00"),
		InStock: true,
	}
	store.AddProduct(p)
	return p
}

// ========================================
// Auth endpoints
// ========================================

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"fullName": "Jane Doe",
		"email":    "jane@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var signup auth.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	assert.True(t, signup.Success)
	assert.NotEmpty(t, signup.Token)
	require.NotNil(t, signup.User)
	assert.Equal(t, "jane@example.com", signup.User.Email)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"fullName": "Jane", "email": "jane@example.com", "password": "password123"}
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/auth/signup", body, nil).Code)

	rec := env.do(t, http.MethodPost, "/auth/signup", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestSignup_ShortPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"fullName": "Jane", "email": "jane@example.com", "password": "seven77",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at least 8 characters")
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"fullName": "Jane", "email": "jane@example.com", "password": "password123",
	}, nil)

	rec := env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "jane@example.com", "password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")

	// Unknown email produces the same body.
	rec2 := env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	}, nil)
	assert.Equal(t, rec.Body.String(), rec2.Body.String())
}

func TestLogin_InactiveAccount(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"fullName": "Jane", "email": "jane@example.com", "password": "password123",
	}, nil)
	var signup auth.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	env.store.SetUserStatus(signup.User.ID, catalog.StatusInactive)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "jane@example.com", "password": "password123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Account is inactive")
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "jane@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"fullName": "Jane", "email": "jane@example.com", "password": "password123",
	}, nil)
	var signup auth.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))

	rec = env.do(t, http.MethodGet, "/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + signup.Token,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jane@example.com")

	// No token and garbage token are both unauthorized.
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/auth/me", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/auth/me", nil, map[string]string{
		"Authorization": "Bearer garbage",
	}).Code)
}

func TestMe_DeactivatedAfterIssuance(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"fullName": "Jane", "email": "jane@example.com", "password": "password123",
	}, nil)
	var signup auth.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))

	env.store.SetUserStatus(signup.User.ID, catalog.StatusInactive)

	rec = env.do(t, http.MethodGet, "/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + signup.Token,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"fullName": "Jane", "email": "jane@example.com", "password": "password123",
	}, nil)
	var signup auth.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))

	rec = env.do(t, http.MethodPut, "/profile/update", map[string]string{
		"fullName": "Jane D.", "bio": "Potter",
	}, map[string]string{"Authorization": "Bearer " + signup.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jane D.")

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPut, "/profile/update", map[string]string{
		"fullName": "Jane D.",
	}, nil).Code)
}

// ========================================
// Catalog endpoints
// ========================================

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env.store)

	rec := env.do(t, http.MethodGet, "/products/ceramic-mug", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ceramic Mug")

	rec = env.do(t, http.MethodGet, "/products/no-such-slug", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProductReviews(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(env.store)
	env.store.AddReview(catalog.Review{ID: "r1", ProductID: p.ID, CustomerName: "Sam", Rating: 5, ReviewText: "Great mug"})
	env.store.AddReview(catalog.Review{ID: "r2", ProductID: "other", CustomerName: "Alex", Rating: 3})

	rec := env.do(t, http.MethodGet, "/products/ceramic-mug/reviews", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var reviews []catalog.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Great mug", reviews[0].ReviewText)
}

func TestGetCollection(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddCollection(catalog.Collection{ID: "c1", Slug: "drinkware", Name: "Drinkware"})
	p := seedProduct(env.store)
	p.ID = "p2"
	p.Slug = "tumbler"
	p.CollectionIDs = []string{"c1"}
	env.store.AddProduct(p)

	rec := env.do(t, http.MethodGet, "/collections/drinkware", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Drinkware")
	assert.Contains(t, rec.Body.String(), "tumbler")

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/collections/none", nil, nil).Code)
}

// ========================================
// Cart endpoints
// ========================================

func cartHeader(session string) map[string]string {
	return map[string]string{CartSessionHeader: session}
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env.store)
	hdr := cartHeader("session-1")

	rec := env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "p1", "quantity": 2}, hdr)
	require.Equal(t, http.StatusOK, rec.Code)

	// Merge with the existing line.
	rec = env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "p1", "quantity": 1}, hdr)
	require.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 3, view.TotalItems)
	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("30.00")))

	// Update to an exact quantity.
	rec = env.do(t, http.MethodPut, "/cart/items/p1", map[string]any{"quantity": 1}, hdr)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1, view.TotalItems)

	// Remove and verify the cart is empty.
	rec = env.do(t, http.MethodDelete, "/cart/items/p1", nil, hdr)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
	assert.True(t, view.TotalPrice.IsZero())
}

func TestCart_SessionIsolation(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env.store)

	env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "p1", "quantity": 2}, cartHeader("session-a"))

	rec := env.do(t, http.MethodGet, "/cart", nil, cartHeader("session-b"))
	require.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
}

func TestCart_MissingSessionHeader(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/cart", nil, nil).Code)
}

func TestCart_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "ghost"}, cartHeader("s"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_OutOfStockAddIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddProduct(catalog.Product{
		ID: "p9", Slug: "sold-out", Name: "Sold Out",
		Price: decimal.RequireFromString("5.00"), InStock: false,
	})
	hdr := cartHeader("s")

	rec := env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "p9", "quantity": 1}, hdr)
	require.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env.store)
	hdr := cartHeader("s")

	env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "p1", "quantity": 2}, hdr)
	rec := env.do(t, http.MethodDelete, "/cart", nil, hdr)
	require.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
	assert.True(t, view.TotalPrice.IsZero())
}

// ========================================
// Checkout endpoints
// ========================================

func checkoutBody() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"product_id": "p1", "product_name": "Mug", "price": "10.00", "quantity": 2},
		},
		"customerInfo": map[string]string{
			"fullName": "Jane Doe",
			"email":    "jane@example.com",
			"phone":    "555-0100",
			"address":  "1 Main St",
			"city":     "Springfield",
			"state":    "IL",
			"zipCode":  "62704",
		},
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/checkout/create-session", checkoutBody(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var session payment.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "cs_test_abc12345", session.ID)
	assert.NotEmpty(t, session.URL)
}

func TestCreateCheckoutSession_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	body := checkoutBody()
	body["items"] = []map[string]any{}

	rec := env.do(t, http.MethodPost, "/checkout/create-session", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No items in cart")
}

func TestCreateCheckoutSession_MissingCustomerField(t *testing.T) {
	env := newTestEnv(t)
	body := checkoutBody()
	body["customerInfo"] = map[string]string{"fullName": "Jane Doe"}

	rec := env.do(t, http.MethodPost, "/checkout/create-session", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCheckoutSession_ProcessorFailure(t *testing.T) {
	env := newTestEnv(t)
	env.stripe.err = fmt.Errorf("stripe: connection refused")

	rec := env.do(t, http.MethodPost, "/checkout/create-session", checkoutBody(), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused", "raw upstream errors never reach clients")
}

func webhookPayload(t *testing.T, sessionID string) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":   "evt_1",
		"type": "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"id":             sessionID,
				"amount_total":   5860,
				"customer_email": "jane@example.com",
				"metadata": map[string]string{
					"customer_name": "Jane Doe",
					"order_items":   `[{"product_id":"p1","product_name":"Mug","quantity":2,"price":"10.00"}]`,
				},
			},
		},
	})
	require.NoError(t, err)
	return payload
}

func signWebhook(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestWebhook_CreatesOrderAndServesLookup(t *testing.T) {
	env := newTestEnv(t)
	payload := webhookPayload(t, "cs_test_abc12345")

	req := httptest.NewRequest(http.MethodPost, "/checkout/webhook", bytes.NewReader(payload))
	req.Header.Set(payment.SignatureHeader, signWebhook(payload, testWebhookSecret))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())

	lookup := env.do(t, http.MethodGet, "/orders/cs_test_abc12345", nil, nil)
	require.Equal(t, http.StatusOK, lookup.Code)
	assert.Contains(t, lookup.Body.String(), "ABC12345")
}

func TestWebhook_InvalidSignature(t *testing.T) {
	env := newTestEnv(t)
	payload := webhookPayload(t, "cs_test_abc12345")

	req := httptest.NewRequest(http.MethodPost, "/checkout/webhook", bytes.NewReader(payload))
	req.Header.Set(payment.SignatureHeader, signWebhook(payload, "whsec_wrong_secret_0000000000000"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.store.CreateOrderCalls)
}

func TestWebhook_MissingSignature(t *testing.T) {
	env := newTestEnv(t)
	payload := webhookPayload(t, "cs_test_abc12345")

	req := httptest.NewRequest(http.MethodPost, "/checkout/webhook", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No signature provided")
}

func TestGetMyOrders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"fullName": "Jane", "email": "jane@example.com", "password": "password123",
	}, nil)
	var signup auth.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))

	created, err := env.store.CreateOrder(context.Background(), &catalog.Order{
		ID: "o-1", OrderNumber: "ABC12345", SessionID: "cs_test_abc12345",
		CustomerEmail: "jane@example.com",
		TotalAmount:   decimal.RequireFromString("58.60"),
	})
	require.NoError(t, err)
	require.True(t, created)

	rec = env.do(t, http.MethodGet, "/orders", nil, map[string]string{
		"Authorization": "Bearer " + signup.Token,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []catalog.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "ABC12345", orders[0].OrderNumber)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/orders", nil, nil).Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/orders/cs_unknown", nil, nil).Code)
}

// ========================================
// Contact endpoint
// ========================================

func TestSubmitContact(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/contact", map[string]string{
		"name": "Jane", "email": "jane@example.com", "subject": "Hello", "message": "Love the mugs",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message sent successfully")

	subs := env.store.ContactSubmissions()
	require.Len(t, subs, 1)
	assert.Equal(t, "Hello", subs[0].Subject)
}

func TestSubmitContact_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/contact", map[string]string{
		"name": "Jane", "email": "jane@example.com", "subject": "Hello",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "All fields are required")

	rec = env.do(t, http.MethodPost, "/contact", map[string]string{
		"name": "Jane", "email": "not-an-email", "subject": "Hello", "message": "Hi",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email format")
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusMethodNotAllowed, env.do(t, http.MethodDelete, "/auth/login", nil, nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, env.do(t, http.MethodPost, "/products", nil, nil).Code)
}
