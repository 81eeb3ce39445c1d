// internal/cart/handler.go
package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ItemLookup resolves a product id to a line template carrying its display fields.
type ItemLookup func(id int) (LineItem, bool)

type Handler struct {
	service Service
	lookup  ItemLookup
}

func NewHandler(service Service, lookup ItemLookup) *Handler {
	return &Handler{service: service, lookup: lookup}
}

// Routes mounts the cart endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/cart", h.handleGetCart)
	r.Delete("/cart", h.handleClearCart)
	r.Post("/cart/items", h.handleAddItem)
	r.Get("/cart/items/{id}/{size}", h.handleGetItem)
	r.Patch("/cart/items/{id}/{size}", h.handleUpdateQuantity)
	r.Delete("/cart/items/{id}/{size}", h.handleRemoveItem)
}

type cartView struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

func (h *Handler) view() cartView {
	return cartView{
		Items:      h.service.Lines(),
		TotalItems: h.service.TotalItems(),
		TotalPrice: h.service.TotalPrice(),
	}
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       int    `json:"id"`
		Size     string `json:"size"`
		Quantity *int   `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	line, ok := h.lookup(req.ID)
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	line.ID = req.ID
	line.Size = req.Size
	line.Quantity = 1
	if req.Quantity != nil {
		line.Quantity = *req.Quantity
	}

	if err := ValidateLine(line); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.AddItem(r.Context(), line); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, h.view())
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, size, err := lineParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       id,
		"size":     size,
		"quantity": h.service.ItemCount(id, size),
	})
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, size, err := lineParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), id, size, req.Quantity); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, h.view())
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, size, err := lineParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveItem(r.Context(), id, size); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var errInvalidLineID = errors.New("invalid product ID")

func lineParams(r *http.Request) (int, string, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, "", errInvalidLineID
	}
	return id, chi.URLParam(r, "size"), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
