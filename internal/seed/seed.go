// Package seed holds the built-in data a fresh CardMaster installation starts
// with: the default accounts, suggestion lists and sample transactions.
package seed

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/atinyakov/cardmaster/internal/fees"
	"github.com/atinyakov/cardmaster/internal/models"
)

const (
	// DefaultAvatar is used for accounts without an avatar of their own.
	DefaultAvatar = "https://www.gravatar.com/avatar/00000000000000000000000000000000?d=mp&f=y"
	// DefaultSiteName is the site name until an admin changes it.
	DefaultSiteName = "CardMaster"
	// DefaultPassword is assigned to new accounts created without a password.
	DefaultPassword = "123456"
	// SampleSize is the number of generated sample transactions.
	SampleSize = 30
)

// Suggestion lists offered while entering transactions.
var (
	CustomerNames = []string{
		"Nguyễn Văn Anh", "Trần Thị Bình", "Lê Văn Cường", "Phạm Minh Đức", "Hoàng Gia Bảo",
		"Đặng Thu Thảo", "Vũ Minh Hải", "Ngô Thanh Vân", "Bùi Xuân Huấn", "Phan Quân",
	}
	POSTerminals = []string{
		"POS VPBank - Q1", "POS Techcombank - Q3", "POS TPBank - Tân Bình",
		"POS VIB - Cầu Giấy", "POS MB - Hoàn Kiếm", "POS Sacombank - Thủ Đức",
	}
	Banks = []string{
		"Techcombank", "VPBank", "Vietcombank", "MB Bank", "TPBank", "VIB", "Sacombank", "ACB",
	}
	CardTypes = []string{
		"Visa Signature", "Mastercard World", "JCB Platinum", "Visa Infinite", "Visa Platinum", "American Express",
	}
)

var sampleSales = []string{"admin", "manager", "user"}

// Users returns the three default accounts.
func Users() []models.User {
	return []models.User{
		{ID: "1", Username: "admin", FullName: "Administrator", Role: models.RoleAdmin, Avatar: DefaultAvatar, Password: "admin"},
		{ID: "2", Username: "user", FullName: "Nhân viên A", Role: models.RoleUser, Avatar: DefaultAvatar, Password: "user"},
		{ID: "3", Username: "manager", FullName: "Quản lý B", Role: models.RoleManager, Avatar: DefaultAvatar, Password: "manager"},
	}
}

// Transactions generates n random sample transactions dated within the three
// months up to now, sorted newest first.
func Transactions(rng *rand.Rand, now time.Time, n int, newID func() string) []models.Transaction {
	types := []models.TransactionType{models.TypeWithdraw, models.TypeRenew, models.TypeBoth}

	txs := make([]models.Transaction, 0, n)
	for i := 0; i < n; i++ {
		amount := 5_000_000 + rng.Int64N(195_000_000)
		status := models.StatusUnpaid
		if rng.Float64() > 0.3 {
			status = models.StatusPaid
		}

		t := models.Transaction{
			ID:                 newID(),
			Timestamp:          randomDate(rng, now, 3),
			Sale:               pick(rng, sampleSales),
			CustomerName:       pick(rng, CustomerNames),
			Bank:               pick(rng, Banks),
			CardType:           pick(rng, CardTypes),
			LastFourDigits:     randomDigits(rng),
			Type:               pick(rng, types),
			Amount:             amount,
			WithdrawAmount:     amount,
			POS:                pick(rng, POSTerminals),
			PosFeePercent:      randomPercent(rng, 150, 190),
			CustomerFeePercent: randomPercent(rng, 200, 350),
			Status:             status,
			DepositImages:      []string{},
			WithdrawImages:     []string{},
		}
		fees.Apply(&t)
		txs = append(txs, t)
	}

	slices.SortStableFunc(txs, func(a, b models.Transaction) int {
		da, _ := models.ParseDate(a.Timestamp)
		db, _ := models.ParseDate(b.Timestamp)
		return cmp.Compare(db.Unix(), da.Unix())
	})
	return txs
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// randomDate returns a day between the 1st and 28th of one of the last
// monthsBack months, the current month included.
func randomDate(rng *rand.Rand, now time.Time, monthsBack int) string {
	month := now.Month() - time.Month(rng.IntN(monthsBack))
	day := 1 + rng.IntN(28)
	return models.FormatDate(time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC))
}

// randomPercent returns a percentage with two decimals, given its bounds in
// hundredths of a percent: [lo, hi).
func randomPercent(rng *rand.Rand, lo, hi int) float64 {
	return float64(lo+rng.IntN(hi-lo)) / 100
}

func randomDigits(rng *rand.Rand) string {
	return strconv.Itoa(1000 + rng.IntN(9000))
}
