package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/checkout"
)

// CartSessionHeader carries the client's opaque cart session id. Carts are
// never shared across session ids.
const CartSessionHeader = "X-Cart-Session"

type Handlers struct {
	store       catalog.Store
	authService *auth.Service
	carts       cart.Storage
	checkout    *checkout.Orchestrator
}

func NewHandlers(store catalog.Store, authService *auth.Service, carts cart.Storage, orchestrator *checkout.Orchestrator) *Handlers {
	return &Handlers{
		store:       store,
		authService: authService,
		carts:       carts,
		checkout:    orchestrator,
	}
}

func extractPathParam(path, prefix string) string {
	param := strings.TrimPrefix(path, prefix)
	return strings.TrimSuffix(param, "/")
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		respondJSONError(w, "Failed to load products", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := extractPathParam(r.URL.Path, "/products/")
	product, err := h.store.GetProductBySlug(r.Context(), slug)
	if errors.Is(err, catalog.ErrNotFound) {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondJSONError(w, "Failed to load product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	slug := extractPathParam(strings.TrimSuffix(r.URL.Path, "/reviews"), "/products/")
	product, err := h.store.GetProductBySlug(r.Context(), slug)
	if errors.Is(err, catalog.ErrNotFound) {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondJSONError(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	reviews, err := h.store.ListReviewsByProduct(r.Context(), product.ID)
	if err != nil {
		respondJSONError(w, "Failed to load reviews", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *Handlers) GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.store.ListReviews(r.Context())
	if err != nil {
		respondJSONError(w, "Failed to load reviews", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

// Collection Handlers

func (h *Handlers) GetCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.store.ListCollections(r.Context())
	if err != nil {
		respondJSONError(w, "Failed to load collections", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, collections)
}

func (h *Handlers) GetCollection(w http.ResponseWriter, r *http.Request) {
	slug := extractPathParam(r.URL.Path, "/collections/")
	collection, err := h.store.GetCollectionBySlug(r.Context(), slug)
	if errors.Is(err, catalog.ErrNotFound) {
		respondJSONError(w, "Collection not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondJSONError(w, "Failed to load collection", http.StatusInternalServerError)
		return
	}

	products, err := h.store.ListProductsByCollection(r.Context(), collection.ID)
	if err != nil {
		respondJSONError(w, "Failed to load collection", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"collection": collection,
		"products":   products,
	})
}

// Order Handlers

// GetMyOrders lists the authenticated user's order history, newest first.
func (h *Handlers) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.store.ListOrdersByEmail(r.Context(), claims.Email)
	if err != nil {
		respondJSONError(w, "Failed to load orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	sessionID := extractPathParam(r.URL.Path, "/orders/")
	order, err := h.store.GetOrderBySessionID(r.Context(), sessionID)
	if errors.Is(err, catalog.ErrNotFound) {
		respondJSONError(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondJSONError(w, "Failed to load order", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Contact Handlers

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		respondJSONError(w, "All fields are required", http.StatusBadRequest)
		return
	}
	if !emailPattern.MatchString(req.Email) {
		respondJSONError(w, "Invalid email format", http.StatusBadRequest)
		return
	}

	submission := &catalog.ContactSubmission{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		Subject:     req.Subject,
		Message:     req.Message,
		Status:      "New",
		SubmittedAt: time.Now(),
	}
	if err := h.store.CreateContactSubmission(r.Context(), submission); err != nil {
		respondJSONError(w, "Failed to send message. Please try again.", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Message sent successfully",
		"submission": submission,
	})
}
