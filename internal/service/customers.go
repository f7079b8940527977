package service

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/cardmaster/internal/models"
)

// SyncCustomer returns customers with the card holder of tx added at the
// front when no customer matches it on name, bank, card type and last four
// digits, compared case-insensitively. Existing customers are never changed.
func SyncCustomer(customers []models.Customer, tx models.Transaction, newID func() string) ([]models.Customer, bool) {
	for _, c := range customers {
		if strings.EqualFold(c.Name, tx.CustomerName) &&
			strings.EqualFold(c.Bank, tx.Bank) &&
			strings.EqualFold(c.CardType, tx.CardType) &&
			strings.EqualFold(c.LastFourDigits, tx.LastFourDigits) {
			return customers, false
		}
	}
	c := models.Customer{
		ID:             newID(),
		Name:           tx.CustomerName,
		Bank:           tx.Bank,
		CardType:       tx.CardType,
		LastFourDigits: tx.LastFourDigits,
		IDCardImages:   []string{},
		CardImages:     []string{},
		IsHoldingCard:  false,
	}
	return slices.Insert(customers, 0, c), true
}

func (s *State) syncCustomerLocked(tx models.Transaction) {
	var added bool
	s.customers, added = SyncCustomer(s.customers, tx, s.newID)
	if added {
		s.log.Info("customer registered", zap.String("name", tx.CustomerName), zap.String("bank", tx.Bank))
	}
}

// AddCustomer prepends a customer record.
func (s *State) AddCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.newID()
	}
	c.IDCardImages = orEmpty(c.IDCardImages)
	c.CardImages = orEmpty(c.CardImages)

	s.customers = slices.Insert(s.customers, 0, c)
	s.flush(ctx)
	return c, nil
}

// UpdateCustomer replaces the customer with the same id. Updating an unknown
// id changes nothing.
func (s *State) UpdateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.IDCardImages = orEmpty(c.IDCardImages)
	c.CardImages = orEmpty(c.CardImages)
	if !replaceByID(s.customers, c.ID, customerID, c) {
		return c, nil
	}
	s.flush(ctx)
	return c, nil
}

// DeleteCustomer removes a customer. Only admins may delete.
func (s *State) DeleteCustomer(ctx context.Context, actor models.User, id string) error {
	if !canDeleteCustomer(actor) {
		return ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var ok bool
	if s.customers, ok = deleteByID(s.customers, id, customerID); !ok {
		return ErrNotFound
	}
	s.flush(ctx)
	return nil
}
