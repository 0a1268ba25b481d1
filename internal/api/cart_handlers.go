package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
)

type cartView struct {
	SessionID  string          `json:"session_id"`
	Items      []cart.Line     `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func newCartView(c *cart.Cart) cartView {
	return cartView{
		SessionID:  c.SessionID(),
		Items:      c.Lines(),
		TotalItems: c.TotalItemCount(),
		TotalPrice: c.TotalPrice(),
	}
}

func (h *Handlers) openCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	sessionID := r.Header.Get(CartSessionHeader)
	if sessionID == "" {
		respondJSONError(w, "Missing cart session", http.StatusBadRequest)
		return nil, false
	}

	c, err := cart.Open(r.Context(), sessionID, h.carts)
	if err != nil {
		respondJSONError(w, "Failed to load cart", http.StatusInternalServerError)
		return nil, false
	}
	return c, true
}

// GetCart returns the session's cart with derived totals
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, newCartView(c))
}

// AddToCart adds a catalog product to the session's cart, merging quantity
// with any existing line for the same product
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		respondJSONError(w, "product_id is required", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.store.GetProductByID(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondJSONError(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	// Out-of-stock and non-positive quantities are silent no-ops.
	if err := c.AddItem(r.Context(), *product, req.Quantity); err != nil {
		respondJSONError(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, newCartView(c))
}

// UpdateCartItem sets the quantity of a cart line; zero or negative removes it
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}

	productID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.UpdateQuantity(r.Context(), productID, req.Quantity); err != nil {
		respondJSONError(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, newCartView(c))
}

// RemoveCartItem removes a cart line; absent products are a no-op
func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}

	productID := extractPathParam(r.URL.Path, "/cart/items/")
	if err := c.RemoveItem(r.Context(), productID); err != nil {
		respondJSONError(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, newCartView(c))
}

// ClearCart empties the session's cart
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.openCart(w, r)
	if !ok {
		return
	}

	if err := c.Clear(r.Context()); err != nil {
		respondJSONError(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, newCartView(c))
}
