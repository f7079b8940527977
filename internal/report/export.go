package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/cardmaster/internal/models"
)

var (
	// ErrRangeRequired is returned when either export bound is missing.
	ErrRangeRequired = errors.New("export range required")
	// ErrNoTransactions is returned when no transaction falls in the range.
	ErrNoTransactions = errors.New("no transactions in range")
)

const bom = "\ufeff"

var headers = []string{
	"ID Giao dịch", "Ngày", "Sale", "Khách hàng", "Ngân hàng", "Loại thẻ", "Số cuối",
	"Loại GD", "Số tiền", "Rút thực tế", "POS", "Phí POS (%)", "Tiền phí POS",
	"Phí khách (%)", "Tiền phí khách", "Lợi nhuận", "Trạng thái",
}

// WriteCSV writes the transactions dated between from and to, both inclusive,
// as a spreadsheet-friendly CSV document. Bounds are DD/MM/YYYY or YYYY-MM-DD.
func WriteCSV(w io.Writer, txs []models.Transaction, from, to string) error {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return ErrRangeRequired
	}
	start, err := parseBound(from)
	if err != nil {
		return err
	}
	end, err := parseBound(to)
	if err != nil {
		return err
	}

	lines := []string{bom + strings.Join(headers, ",")}
	for _, t := range txs {
		d, err := models.ParseDate(t.Timestamp)
		if err != nil || d.Before(start) || d.After(end) {
			continue
		}
		lines = append(lines, row(t))
	}
	if len(lines) == 1 {
		return ErrNoTransactions
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// FileName returns the download name of an export for the given range.
func FileName(from, to string) string {
	return fmt.Sprintf("Bao_cao_giao_dich_%s_den_%s.csv", sanitize(from), sanitize(to))
}

func parseBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("export range: %w", err)
	}
	return t, nil
}

func row(t models.Transaction) string {
	fields := []string{
		t.ID,
		t.Timestamp,
		t.Sale,
		t.CustomerName,
		t.Bank,
		t.CardType,
		t.LastFourDigits,
		t.Type.Label(),
		strconv.FormatInt(t.Amount, 10),
		strconv.FormatInt(t.WithdrawAmount, 10),
		t.POS,
		strconv.FormatFloat(t.PosFeePercent, 'f', -1, 64),
		strconv.FormatInt(t.PosCost, 10),
		strconv.FormatFloat(t.CustomerFeePercent, 'f', -1, 64),
		strconv.FormatInt(t.CustomerCharge, 10),
		strconv.FormatInt(t.Profit, 10),
		t.Status.Label(),
	}
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, ",", ".") + `"`
	}
	return strings.Join(fields, ",")
}

// sanitize keeps date separators out of file names.
func sanitize(s string) string {
	return strings.NewReplacer("/", "-", " ", "").Replace(s)
}
