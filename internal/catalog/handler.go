// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// Routes mounts the catalog endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/products", h.handleProducts)
	r.Get("/products/all", h.handleAllProducts)
	r.Get("/products/category/{name}", h.handleProductsByCategory)
	r.Get("/products/{id}", h.handleProduct)
	r.Get("/categories", h.handleCategories)
	r.Get("/filters", h.handleGetFilters)
	r.Patch("/filters", h.handleUpdateFilters)
	r.Delete("/filters", h.handleResetFilters)
	r.Post("/catalog/reload", h.handleReload)
}

type productsView struct {
	Loading  bool     `json:"loading"`
	Error    string   `json:"error,omitempty"`
	Filters  Criteria `json:"filters"`
	Products []Item   `json:"products"`
}

func viewOf(vm *ViewModel) productsView {
	v := productsView{
		Loading:  vm.Loading(),
		Filters:  vm.Filters(),
		Products: vm.Products(),
	}
	if err := vm.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	v := viewOf(h.manager.Current())

	if !v.Loading && v.Error == "" {
		etag := `"` + Fingerprint(v.Products) + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleAllProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Current().AllProducts())
}

func (h *Handler) handleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	item, ok := h.manager.Current().ProductByID(id)
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if r.URL.Query().Get("source") == "remote" {
		writeJSON(w, http.StatusOK, h.manager.Source().FetchItemsByCategory(r.Context(), name))
		return
	}

	writeJSON(w, http.StatusOK, h.manager.Current().ProductsByCategory(name))
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Current().Categories())
}

func (h *Handler) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Current().Filters())
}

func (h *Handler) handleUpdateFilters(w http.ResponseWriter, r *http.Request) {
	var update CriteriaUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if update.SortBy != nil {
		key, err := ParseSortKey(string(*update.SortBy))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		update.SortBy = &key
	}
	if update.SortOrder != nil {
		order, err := ParseSortOrder(string(*update.SortOrder))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		update.SortOrder = &order
	}

	vm := h.manager.Current()
	vm.UpdateFilters(update)
	writeJSON(w, http.StatusOK, viewOf(vm))
}

func (h *Handler) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	vm := h.manager.Current()
	vm.ResetFilters()
	writeJSON(w, http.StatusOK, viewOf(vm))
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	vm := h.manager.Reload(r.Context())
	writeJSON(w, http.StatusAccepted, viewOf(vm))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
