package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/cardmaster/internal/models"
	"github.com/atinyakov/cardmaster/internal/report"
	"github.com/atinyakov/cardmaster/internal/service"
)

// User-facing messages of the errors callers can act on.
const (
	msgAuthFailed       = "Sai tài khoản hoặc mật khẩu!"
	msgDuplicateUser    = "Username đã tồn tại!"
	msgPasswordRequired = "Vui lòng nhập mật khẩu mới!"
	msgPasswordMismatch = "Mật khẩu xác nhận không khớp!"
	msgRangeRequired    = "Vui lòng chọn khoảng thời gian!"
	msgNoTransactions   = "Không có giao dịch nào trong khoảng thời gian này!"
)

// writeError translates a service or report error into a plain-text response.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAuthFailed):
		http.Error(w, msgAuthFailed, http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, service.ErrDuplicateUsername):
		http.Error(w, msgDuplicateUser, http.StatusConflict)
	case errors.Is(err, service.ErrPasswordRequired):
		http.Error(w, msgPasswordRequired, http.StatusBadRequest)
	case errors.Is(err, service.ErrPasswordMismatch):
		http.Error(w, msgPasswordMismatch, http.StatusBadRequest)
	case errors.Is(err, service.ErrEmptyComment), errors.Is(err, service.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, report.ErrRangeRequired):
		http.Error(w, msgRangeRequired, http.StatusBadRequest)
	case errors.Is(err, report.ErrNoTransactions):
		http.Error(w, msgNoTransactions, http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return false
	}
	return true
}

// publicUser strips the stored credential from an account.
func publicUser(u models.User) models.User {
	u.Password = ""
	return u
}

func publicUsers(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = publicUser(u)
	}
	return out
}
