package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/cardmaster/internal/models"
)

// Login returns the user matching username and password. The username is
// case-insensitive. Every failure is reported as ErrAuthFailed.
func (s *State) Login(ctx context.Context, username, password string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.findUserLocked(strings.ToLower(strings.TrimSpace(username)))
	if !ok || !checkPassword(u.Password, password) {
		s.log.Info("login rejected", zap.String("username", username))
		return models.User{}, ErrAuthFailed
	}
	return u, nil
}

// checkPassword compares a stored credential with an entered password.
// Stored bcrypt hashes are verified through bcrypt, anything else by equality.
func checkPassword(stored, entered string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(entered)) == nil
	}
	return stored == entered
}

// hashPassword returns the value to store for password.
func (s *State) hashPassword(password string) (string, error) {
	if s.hashCost == 0 || strings.HasPrefix(password, "$2") {
		return password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
