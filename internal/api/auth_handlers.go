package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/storefront/internal/api/middleware"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondJSONError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondJSONError(w, "Login failed. Please try again.", http.StatusInternalServerError)
		return
	}
	if !result.Success {
		respondJSON(w, http.StatusUnauthorized, result)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Signup handles user registration
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		respondJSONError(w, "All fields are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Signup(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		respondJSONError(w, "Signup failed. Please try again.", http.StatusInternalServerError)
		return
	}
	if !result.Success {
		respondJSON(w, http.StatusBadRequest, result)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Me returns the current authenticated user's information. The user record
// is re-fetched so deactivation and profile edits after token issuance are
// honored.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r)
	if token == "" {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), token)
	if err != nil {
		respondJSONError(w, "Failed to load user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// UpdateProfile updates the authenticated user's display name and bio
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		FullName string `json:"fullName"`
		Bio      string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FullName == "" {
		respondJSONError(w, "Full name is required", http.StatusBadRequest)
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), claims.UserID, req.FullName, req.Bio)
	if err != nil {
		respondJSONError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}
