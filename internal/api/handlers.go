package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/example/shopfront/internal/auth"
	"github.com/example/shopfront/internal/domain/catalog"
	"github.com/example/shopfront/internal/domain/checkout"
	"github.com/example/shopfront/internal/domain/session"
	"github.com/example/shopfront/internal/shop"
)

// Handlers adapts HTTP requests into shop operations. The shop core is a
// single-actor state machine, so every handler serializes through mu.
type Handlers struct {
	mu     sync.Mutex
	shop   *shop.Shop
	tokens *auth.TokenService
}

func NewHandlers(s *shop.Shop, tokens *auth.TokenService) *Handlers {
	return &Handlers{
		shop:   s,
		tokens: tokens,
	}
}

// Session Handlers

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	u, err := h.shop.Login(r.Context(), req.Username, req.Password)
	h.mu.Unlock()
	if err != nil {
		respondShopError(w, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(u.Username, u.DisplayName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{
			"username":     u.Username,
			"display_name": u.DisplayName,
		},
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.shop.Logout(r.Context())
	h.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Catalog Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	h.mu.Lock()
	var products []catalog.Product
	if strings.TrimSpace(term) == "" {
		products = h.shop.ShowAll()
	} else {
		products = h.shop.Search(term)
	}
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, products)
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	v := h.shop.Snapshot()
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, v.Cart)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	err := h.shop.AddToCart(r.Context(), req.Code)
	h.mu.Unlock()
	if err != nil {
		respondShopError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	code := extractPathParam(r.URL.Path, "/cart/items/")

	h.mu.Lock()
	err := h.shop.RemoveFromCart(r.Context(), code)
	h.mu.Unlock()
	if err != nil {
		respondShopError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) IncreaseQty(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSuffix(extractPathParam(r.URL.Path, "/cart/items/"), "/increment")

	h.mu.Lock()
	err := h.shop.IncreaseQty(r.Context(), code)
	h.mu.Unlock()
	if err != nil {
		respondShopError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) DecreaseQty(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSuffix(extractPathParam(r.URL.Path, "/cart/items/"), "/decrement")

	h.mu.Lock()
	err := h.shop.DecreaseQty(r.Context(), code)
	h.mu.Unlock()
	if err != nil {
		respondShopError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.shop.ClearCart(r.Context())
	h.mu.Unlock()
	if err != nil {
		respondShopError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Checkout Handlers

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	summary, err := h.shop.FinalizePurchase(r.Context())
	h.mu.Unlock()
	if err != nil {
		respondShopError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, summary)
}

// View Handler

func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	v := h.shop.Snapshot()
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, v)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// respondShopError maps core errors onto HTTP statuses.
func respondShopError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotAuthenticated),
		errors.Is(err, session.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, session.ErrEmptyCredentials),
		errors.Is(err, checkout.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrProductNotFound):
		status = http.StatusNotFound
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
