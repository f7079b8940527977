package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/cardmaster/internal/middleware"
	"github.com/atinyakov/cardmaster/internal/models"
)

// CustomerService defines the customer operations required by CustomerHandler.
type CustomerService interface {
	SearchCustomers(q string) []models.Customer
	AddCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	UpdateCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	DeleteCustomer(ctx context.Context, actor models.User, id string) error
}

// CustomerHandler handles the customer registry. Adding and editing
// customers is limited to admins and managers.
type CustomerHandler struct {
	Service CustomerService
}

// List handles GET /api/customers?q=.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.SearchCustomers(r.URL.Query().Get("q")))
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !callerCanEdit(w, r) {
		return
	}
	var c models.Customer
	if !decodeJSON(w, r, &c) {
		return
	}
	created, err := h.Service.AddCustomer(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/customers/{id}.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !callerCanEdit(w, r) {
		return
	}
	var c models.Customer
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID = chi.URLParam(r, "id")
	updated, err := h.Service.UpdateCustomer(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/customers/{id}.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	if err := h.Service.DeleteCustomer(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func callerCanEdit(w http.ResponseWriter, r *http.Request) bool {
	actor, _ := middleware.UserFromContext(r.Context())
	if !actor.Role.CanEdit() {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}
