package service

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/cardmaster/internal/models"
	"github.com/atinyakov/cardmaster/internal/seed"
)

// ProfileUpdate carries the fields a user may change on their own account.
// Password fields are only considered when ChangePassword is set.
type ProfileUpdate struct {
	FullName        string `json:"fullName"`
	Avatar          string `json:"avatar"`
	ChangePassword  bool   `json:"changePassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AddUser creates an account. Managers can only create plain users.
// The username is stored lowercase and must be unique.
func (s *State) AddUser(ctx context.Context, actor, u models.User) (models.User, error) {
	if !canManageUsers(actor) {
		return models.User{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if _, taken := s.findUserLocked(u.Username); taken {
		return models.User{}, ErrDuplicateUsername
	}
	if u.ID == "" {
		u.ID = s.newID()
	}
	if u.Password == "" {
		u.Password = seed.DefaultPassword
	}
	if u.Avatar == "" {
		u.Avatar = seed.DefaultAvatar
	}
	if u.Role == "" || actor.Role == models.RoleManager {
		u.Role = models.RoleUser
	}
	hashed, err := s.hashPassword(u.Password)
	if err != nil {
		return models.User{}, err
	}
	u.Password = hashed

	s.users = append(s.users, u)
	s.flush(ctx)
	s.log.Info("user added", zap.String("username", u.Username), zap.String("by", actor.Username))
	return u, nil
}

// UpdateUser replaces the account with the same id. An empty password keeps
// the stored one. Managers cannot change roles, nor the password of anyone
// but themselves. Updating an unknown id changes nothing.
func (s *State) UpdateUser(ctx context.Context, actor, u models.User) (models.User, error) {
	if !canManageUsers(actor) {
		return models.User{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.users, func(v models.User) bool { return v.ID == u.ID })
	if i < 0 {
		return u, nil
	}
	stored := s.users[i]

	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if u.Username == "" {
		u.Username = stored.Username
	}
	if other, taken := s.findUserLocked(u.Username); taken && other.ID != u.ID {
		return models.User{}, ErrDuplicateUsername
	}
	if actor.Role == models.RoleManager {
		u.Role = stored.Role
		if actor.ID != stored.ID {
			u.Password = ""
		}
	}
	if u.Role == "" {
		u.Role = stored.Role
	}
	if u.Avatar == "" {
		u.Avatar = stored.Avatar
	}
	if u.Password == "" {
		u.Password = stored.Password
	} else {
		hashed, err := s.hashPassword(u.Password)
		if err != nil {
			return models.User{}, err
		}
		u.Password = hashed
	}

	s.users[i] = u
	s.flush(ctx)
	return u, nil
}

// DeleteUser removes an account. Only admins may delete, and never themselves.
func (s *State) DeleteUser(ctx context.Context, actor models.User, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := findByID(s.users, id, userID)
	if !ok {
		return ErrNotFound
	}
	if !canDeleteUser(actor, target) {
		return ErrForbidden
	}
	s.users, _ = deleteByID(s.users, id, userID)
	s.flush(ctx)
	s.log.Info("user deleted", zap.String("username", target.Username), zap.String("by", actor.Username))
	return nil
}

// UpdateProfile changes the actor's own display name, avatar and, optionally,
// password.
func (s *State) UpdateProfile(ctx context.Context, actor models.User, p ProfileUpdate) (models.User, error) {
	if p.ChangePassword {
		if p.NewPassword == "" {
			return models.User{}, ErrPasswordRequired
		}
		if p.NewPassword != p.ConfirmPassword {
			return models.User{}, ErrPasswordMismatch
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.users, func(v models.User) bool { return v.ID == actor.ID })
	if i < 0 {
		return models.User{}, ErrNotFound
	}
	u := s.users[i]
	if p.FullName != "" {
		u.FullName = p.FullName
	}
	if p.Avatar != "" {
		u.Avatar = p.Avatar
	}
	if p.ChangePassword {
		hashed, err := s.hashPassword(p.NewPassword)
		if err != nil {
			return models.User{}, err
		}
		u.Password = hashed
	}

	s.users[i] = u
	s.flush(ctx)
	return u, nil
}

// Users returns all accounts in insertion order.
func (s *State) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// FindUser looks an account up by username, case-insensitively.
func (s *State) FindUser(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUserLocked(strings.ToLower(username))
}

func (s *State) findUserLocked(username string) (models.User, bool) {
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}
