package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/atinyakov/cardmaster/internal/models"
	"github.com/atinyakov/cardmaster/internal/seed"
)

// DefaultPageSize is the transaction list page size.
const DefaultPageSize = 20

// TransactionQuery selects a page of the transaction list.
type TransactionQuery struct {
	Search   string
	Page     int
	PageSize int
}

// TransactionPage is one page of the transaction list.
type TransactionPage struct {
	Items      []models.Transaction `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
}

// ListTransactions returns the transactions actor may see that match the
// search text, newest first. Plain users only see their own sales.
// Pages are numbered from 1; out of range pages are clamped.
func (s *State) ListTransactions(actor models.User, q TransactionQuery) TransactionPage {
	s.mu.RLock()
	rows := make([]models.Transaction, 0, len(s.transactions))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, t := range s.transactions {
		if actor.Role == models.RoleUser && t.Sale != actor.FullName {
			continue
		}
		if needle != "" && !containsAny(needle, t.CustomerName, t.ID, t.Bank, t.Sale) {
			continue
		}
		rows = append(rows, t)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(rows, func(a, b models.Transaction) int {
		return cmp.Compare(dateKey(b.Timestamp), dateKey(a.Timestamp))
	})

	size := cmp.Or(q.PageSize, DefaultPageSize)
	pages := (len(rows) + size - 1) / size
	page := min(max(q.Page, 1), max(pages, 1))
	start := min((page-1)*size, len(rows))
	end := min(start+size, len(rows))

	return TransactionPage{
		Items:      rows[start:end],
		Total:      len(rows),
		Page:       page,
		TotalPages: pages,
	}
}

// SearchCustomers returns the customers whose name, bank or card type
// contains q. An empty q returns every customer.
func (s *State) SearchCustomers(q string) []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]models.Customer, 0)
	for _, c := range s.customers {
		if needle == "" || containsAny(needle, c.Name, c.Bank, c.CardType) {
			out = append(out, c)
		}
	}
	return out
}

// SuggestCustomers returns the customers whose name or bank contains q, for
// autofilling a new transaction. An empty q suggests nothing.
func (s *State) SuggestCustomers(q string) []models.Customer {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return []models.Customer{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Customer, 0)
	for _, c := range s.customers {
		if containsAny(needle, c.Name, c.Bank) {
			out = append(out, c)
		}
	}
	return out
}

// SuggestPOS returns the known POS terminals containing q.
func (s *State) SuggestPOS(q string) []string {
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]string, 0)
	for _, p := range seed.POSTerminals {
		if containsAny(needle, p) {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// dateKey orders DD/MM/YYYY strings chronologically. Unparseable dates sort
// as the oldest.
func dateKey(date string) int64 {
	t, err := models.ParseDate(date)
	if err != nil {
		return 0
	}
	return t.Unix()
}
