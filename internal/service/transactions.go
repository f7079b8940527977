package service

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/atinyakov/cardmaster/internal/fees"
	"github.com/atinyakov/cardmaster/internal/models"
)

// AddTransaction records a new transaction. Any role may add. Missing id,
// date and sale are filled in, the fees are derived, and the card holder is
// registered as a customer if unknown.
func (s *State) AddTransaction(ctx context.Context, actor models.User, tx models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = s.newID()
	}
	if tx.Timestamp == "" {
		tx.Timestamp = s.today()
	}
	if tx.Sale == "" {
		tx.Sale = actor.FullName
	}
	if tx.Status == "" {
		tx.Status = models.StatusUnpaid
	}
	if tx.Type == "" {
		tx.Type = models.TypeWithdraw
	}
	tx.DepositImages = orEmpty(tx.DepositImages)
	tx.WithdrawImages = orEmpty(tx.WithdrawImages)
	fees.Apply(&tx)

	s.transactions = slices.Insert(s.transactions, 0, tx)
	s.syncCustomerLocked(tx)
	s.flush(ctx)
	s.log.Info("transaction added",
		zap.String("id", tx.ID),
		zap.Int64("amount", tx.Amount),
		zap.String("by", actor.Username),
	)
	return tx, nil
}

// UpdateTransaction replaces the transaction with the same id. Plain users
// may not edit. Updating an unknown id changes nothing.
func (s *State) UpdateTransaction(ctx context.Context, actor models.User, tx models.Transaction) (models.Transaction, error) {
	if !canUpdateTransaction(actor) {
		return models.Transaction{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx.DepositImages = orEmpty(tx.DepositImages)
	tx.WithdrawImages = orEmpty(tx.WithdrawImages)
	fees.Apply(&tx)
	if !replaceByID(s.transactions, tx.ID, transactionID, tx) {
		return tx, nil
	}
	s.syncCustomerLocked(tx)
	s.flush(ctx)
	return tx, nil
}

// DeleteTransaction removes a transaction. Only admins may delete.
func (s *State) DeleteTransaction(ctx context.Context, actor models.User, id string) error {
	if !canDeleteTransaction(actor) {
		return ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var ok bool
	if s.transactions, ok = deleteByID(s.transactions, id, transactionID); !ok {
		return ErrNotFound
	}
	s.flush(ctx)
	s.log.Info("transaction deleted", zap.String("id", id), zap.String("by", actor.Username))
	return nil
}

// Transactions returns all transactions in stored order.
func (s *State) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}
