package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atinyakov/cardmaster/internal/models"
)

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

// promptDefault is prompt with a value used when the answer is empty.
func (s *Shell) promptDefault(label, def string) (string, bool) {
	if def != "" {
		label = fmt.Sprintf("%s [%s]", label, def)
	}
	v, ok := s.prompt(label + ": ")
	if v == "" {
		v = def
	}
	return v, ok
}

// promptTransaction reads a new transaction. Card details default to those of
// the first known customer matching the entered name.
func (s *Shell) promptTransaction() (models.Transaction, bool) {
	var tx models.Transaction
	var ok bool

	if tx.CustomerName, ok = s.prompt("Khách hàng: "); !ok {
		return tx, false
	}
	var known models.Customer
	if matches := s.backend.SuggestCustomers(tx.CustomerName); len(matches) > 0 {
		known = matches[0]
	}
	if tx.Bank, ok = s.promptDefault("Ngân hàng", known.Bank); !ok {
		return tx, false
	}
	if tx.CardType, ok = s.promptDefault("Loại thẻ", known.CardType); !ok {
		return tx, false
	}
	if tx.LastFourDigits, ok = s.promptDefault("Số cuối", known.LastFourDigits); !ok {
		return tx, false
	}

	typ, ok := s.promptDefault("Loại GD (WITHDRAW/RENEW/BOTH)", string(models.TypeWithdraw))
	if !ok {
		return tx, false
	}
	if err := tx.Type.UnmarshalText([]byte(strings.ToUpper(typ))); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return tx, false
	}

	amount, ok := s.prompt("Số tiền: ")
	if !ok {
		return tx, false
	}
	n, err := strconv.ParseInt(amount, 10, 64)
	if err != nil || n < 0 {
		fmt.Fprintf(s.out, "Invalid amount %q\n", amount)
		return tx, false
	}
	tx.Amount, tx.WithdrawAmount = n, n

	if tx.POS, ok = s.prompt("POS: "); !ok {
		return tx, false
	}
	if tx.PosFeePercent, ok = s.promptPercent("Phí POS (%)"); !ok {
		return tx, false
	}
	if tx.CustomerFeePercent, ok = s.promptPercent("Phí khách (%)"); !ok {
		return tx, false
	}
	return tx, true
}

func (s *Shell) promptPercent(label string) (float64, bool) {
	v, ok := s.prompt(label + ": ")
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil || f < 0 {
		fmt.Fprintf(s.out, "Invalid percentage %q\n", v)
		return 0, false
	}
	return f, true
}

// promptTask reads a new task. Assignees are comma-separated usernames.
func (s *Shell) promptTask() (models.Task, bool) {
	var t models.Task
	var ok bool

	if t.Title, ok = s.prompt("Tiêu đề: "); !ok {
		return t, false
	}
	if t.Description, ok = s.prompt("Mô tả: "); !ok {
		return t, false
	}
	assignees, ok := s.prompt("Giao cho (username, ...): ")
	if !ok {
		return t, false
	}
	for _, a := range strings.Split(assignees, ",") {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			t.AssignedTo = append(t.AssignedTo, a)
		}
	}
	return t, true
}
