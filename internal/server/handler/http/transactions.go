package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/cardmaster/internal/middleware"
	"github.com/atinyakov/cardmaster/internal/models"
	"github.com/atinyakov/cardmaster/internal/report"
	"github.com/atinyakov/cardmaster/internal/service"
)

// TransactionService defines the transaction operations required by
// TransactionHandler.
type TransactionService interface {
	ListTransactions(actor models.User, q service.TransactionQuery) service.TransactionPage
	Transactions() []models.Transaction
	AddTransaction(ctx context.Context, actor models.User, tx models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, actor models.User, tx models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, actor models.User, id string) error
	SuggestCustomers(q string) []models.Customer
	SuggestPOS(q string) []string
}

// TransactionHandler handles the transaction list, its mutations, the CSV
// export and the entry-form suggestions.
type TransactionHandler struct {
	Service TransactionService
}

// List handles GET /api/transactions?q=&page=&pageSize=.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))

	writeJSON(w, http.StatusOK, h.Service.ListTransactions(actor, service.TransactionQuery{
		Search:   q.Get("q"),
		Page:     page,
		PageSize: max(size, 0),
	}))
}

// Create handles POST /api/transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var tx models.Transaction
	if !decodeJSON(w, r, &tx) {
		return
	}
	created, err := h.Service.AddTransaction(r.Context(), actor, tx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/transactions/{id}.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var tx models.Transaction
	if !decodeJSON(w, r, &tx) {
		return
	}
	tx.ID = chi.URLParam(r, "id")
	updated, err := h.Service.UpdateTransaction(r.Context(), actor, tx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/transactions/{id}.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	if err := h.Service.DeleteTransaction(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/transactions/export?from=&to= and returns the
// transactions of the range as a CSV attachment.
func (h *TransactionHandler) Export(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, h.Service.Transactions(), from, to); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(from, to)))
	_, _ = buf.WriteTo(w)
}

// SuggestCustomers handles GET /api/suggestions/customers?q=.
func (h *TransactionHandler) SuggestCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.SuggestCustomers(r.URL.Query().Get("q")))
}

// SuggestPOS handles GET /api/suggestions/pos?q=.
func (h *TransactionHandler) SuggestPOS(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.SuggestPOS(r.URL.Query().Get("q")))
}
