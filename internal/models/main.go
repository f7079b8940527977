// Package models defines the entities managed by CardMaster: users,
// customers, card transactions, tasks and notifications.
package models

// User represents a staff account.
type User struct {
	// ID is the 8-character identifier of the user.
	ID string `json:"id"`
	// Username is the unique, lowercase login name.
	Username string `json:"username"`
	// FullName is the display name. Transactions credit it as Sale.
	FullName string `json:"fullName"`
	// Role decides what the user may change.
	Role Role `json:"role"`
	// Avatar is an opaque image reference.
	Avatar string `json:"avatar,omitempty"`
	// Password is the stored credential: plaintext, or a bcrypt hash when
	// hashing is enabled.
	Password string `json:"password,omitempty"`
}

// Customer is a card holder known to the business.
type Customer struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Bank           string   `json:"bank"`
	CardType       string   `json:"cardType"`
	LastFourDigits string   `json:"lastFourDigits"`
	IDCardImages   []string `json:"idCardImages"`
	CardImages     []string `json:"cardImages"`
	// IsHoldingCard reports whether the physical card is kept by the business.
	IsHoldingCard bool `json:"isHoldingCard"`
}

// Transaction is a single card withdrawal or renewal processed on a POS terminal.
type Transaction struct {
	ID string `json:"id"`
	// Timestamp is the transaction date in DD/MM/YYYY form.
	Timestamp string `json:"timestamp"`
	// Sale is the display name of the staff member credited with the transaction.
	Sale           string            `json:"sale"`
	CustomerName   string            `json:"customerName"`
	Bank           string            `json:"bank"`
	CardType       string            `json:"cardType"`
	LastFourDigits string            `json:"lastFourDigits"`
	Type           TransactionType   `json:"type"`
	Amount         int64             `json:"amount"`
	WithdrawAmount int64             `json:"withdrawAmount"`
	POS            string            `json:"pos"`
	PosFeePercent  float64           `json:"posFeePercent"`
	PosCost        int64             `json:"posCost"`
	// CustomerFeePercent is the fee charged to the customer, in percent.
	CustomerFeePercent float64           `json:"customerFeePercent"`
	CustomerCharge     int64             `json:"customerCharge"`
	Profit             int64             `json:"profit"`
	Status             TransactionStatus `json:"status"`
	DepositImages      []string          `json:"depositImages"`
	WithdrawImages     []string          `json:"withdrawImages"`
}

// TaskComment is an immutable note appended to a task.
type TaskComment struct {
	ID         string `json:"id"`
	Author     string `json:"author"`
	AuthorName string `json:"authorName"`
	Text       string `json:"text"`
	// Timestamp is "DD/MM/YYYY HH:MM".
	Timestamp string `json:"timestamp"`
}

// Task is a unit of work assigned to one or more users.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// AssignedTo holds usernames; AssignedToNames holds the matching display names.
	AssignedTo      []string      `json:"assignedTo"`
	AssignedToNames []string      `json:"assignedToNames"`
	CreatedBy       string        `json:"createdBy"`
	CreatedByName   string        `json:"createdByName"`
	CreatedAt       string        `json:"createdAt"`
	Status          TaskStatus    `json:"status"`
	Comments        []TaskComment `json:"comments"`
}

// IsAssigned reports whether username is one of the task assignees.
func (t Task) IsAssigned(username string) bool {
	for _, a := range t.AssignedTo {
		if a == username {
			return true
		}
	}
	return false
}

// Notification informs users about task activity.
type Notification struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
	// TaskID links back to the task the notification is about, if any.
	TaskID string `json:"taskId,omitempty"`
	// TargetUser is the recipient username. Empty means broadcast.
	TargetUser string `json:"targetUser,omitempty"`
}

// VisibleTo reports whether the notification is addressed to username,
// either directly or as a broadcast.
func (n Notification) VisibleTo(username string) bool {
	return n.TargetUser == "" || n.TargetUser == username
}
