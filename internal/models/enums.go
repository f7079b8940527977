package models

import "fmt"

// Role is the permission level of a user.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// CanEdit reports whether the role may edit transactions, customers and tasks.
func (r Role) CanEdit() bool {
	return r == RoleAdmin || r == RoleManager
}

// TransactionType distinguishes withdrawals from card renewals.
type TransactionType string

const (
	TypeWithdraw TransactionType = "WITHDRAW"
	TypeRenew    TransactionType = "RENEW"
	TypeBoth     TransactionType = "BOTH"
)

var transactionTypeLabels = map[TransactionType]string{
	TypeWithdraw: "Rút",
	TypeRenew:    "Đáo",
	TypeBoth:     "Rút/Đáo",
}

// Label returns the display name of the type.
func (t TransactionType) Label() string {
	if l, ok := transactionTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// UnmarshalText accepts both the identifier and the display label, so that
// records stored with labels decode to the same value.
func (t *TransactionType) UnmarshalText(b []byte) error {
	s := string(b)
	for k, l := range transactionTypeLabels {
		if s == string(k) || s == l {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown transaction type %q", s)
}

// TransactionStatus tells whether the customer has paid the fee.
type TransactionStatus string

const (
	StatusPaid   TransactionStatus = "PAID"
	StatusUnpaid TransactionStatus = "UNPAID"
)

var transactionStatusLabels = map[TransactionStatus]string{
	StatusPaid:   "Đã thanh toán",
	StatusUnpaid: "Chưa thanh toán",
}

// Label returns the display name of the status.
func (s TransactionStatus) Label() string {
	if l, ok := transactionStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// UnmarshalText accepts both the identifier and the display label.
func (s *TransactionStatus) UnmarshalText(b []byte) error {
	v := string(b)
	for k, l := range transactionStatusLabels {
		if v == string(k) || v == l {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown transaction status %q", v)
}

// TaskStatus is the board column of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}
