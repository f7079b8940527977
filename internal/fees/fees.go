// Package fees derives the POS cost, customer charge and profit of a transaction.
package fees

import (
	"github.com/shopspring/decimal"

	"github.com/atinyakov/cardmaster/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Breakdown holds the derived money fields of a transaction.
type Breakdown struct {
	PosCost        int64
	CustomerCharge int64
	Profit         int64
}

// Calculate returns the fee breakdown for amount at the given POS and customer
// fee percentages. Each fee is rounded to the nearest unit, halves away from
// zero. Profit is negative when the customer fee is below the POS fee.
func Calculate(amount int64, posFeePercent, customerFeePercent float64) Breakdown {
	posCost := percentOf(amount, posFeePercent)
	charge := percentOf(amount, customerFeePercent)
	return Breakdown{
		PosCost:        posCost,
		CustomerCharge: charge,
		Profit:         charge - posCost,
	}
}

// Apply overwrites the derived fields of t from its amount and percentages.
func Apply(t *models.Transaction) {
	b := Calculate(t.Amount, t.PosFeePercent, t.CustomerFeePercent)
	t.PosCost = b.PosCost
	t.CustomerCharge = b.CustomerCharge
	t.Profit = b.Profit
}

func percentOf(amount int64, percent float64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(percent)).
		Div(hundred).
		Round(0).
		IntPart()
}
