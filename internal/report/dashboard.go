// Package report builds the aggregate views over transactions: the dashboard
// statistics and the CSV export.
package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/atinyakov/cardmaster/internal/models"
)

// AllMonths selects every month on the dashboard.
const AllMonths = "all"

const monthLayout = "01/2006"

// Stats are the headline figures of the dashboard.
type Stats struct {
	TotalAmount int64 `json:"totalAmount"`
	TotalProfit int64 `json:"totalProfit"`
	Count       int   `json:"count"`
	UnpaidCount int   `json:"unpaidCount"`
}

// ChartPoint is one bar of the dashboard chart. Label is MM/YYYY when the
// chart covers all months and DD/MM when it covers a single month.
type ChartPoint struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
	Profit int64  `json:"profit"`
}

// SaleSummary totals the transactions credited to one staff member.
type SaleSummary struct {
	Sale        string `json:"sale"`
	Count       int    `json:"count"`
	TotalAmount int64  `json:"totalAmount"`
	TotalProfit int64  `json:"totalProfit"`
}

// Dashboard is the aggregate view for one viewer and month selection.
type Dashboard struct {
	Month           string        `json:"month"`
	AvailableMonths []string      `json:"availableMonths"`
	Stats           Stats         `json:"stats"`
	Chart           []ChartPoint  `json:"chart"`
	Sales           []SaleSummary `json:"sales,omitempty"`
}

// BuildDashboard aggregates txs for viewer. Admins see every transaction,
// other roles only those credited to their full name. month is AllMonths or
// MM/YYYY; an empty month means AllMonths. The per-sale summary is only
// filled in for admins.
func BuildDashboard(txs []models.Transaction, viewer models.User, month string) Dashboard {
	month = cmp.Or(month, AllMonths)
	isAdmin := viewer.Role == models.RoleAdmin

	visible := make([]dated, 0, len(txs))
	for _, t := range txs {
		if !isAdmin && t.Sale != viewer.FullName {
			continue
		}
		d, err := models.ParseDate(t.Timestamp)
		if err != nil {
			continue
		}
		visible = append(visible, dated{tx: t, date: d})
	}

	d := Dashboard{
		Month:           month,
		AvailableMonths: availableMonths(visible),
		Chart:           []ChartPoint{},
	}

	selected := visible
	if month != AllMonths {
		selected = slices.DeleteFunc(slices.Clone(visible), func(v dated) bool {
			return v.date.Format(monthLayout) != month
		})
	}

	for _, v := range selected {
		d.Stats.TotalAmount += v.tx.Amount
		d.Stats.TotalProfit += v.tx.Profit
		d.Stats.Count++
		if v.tx.Status == models.StatusUnpaid {
			d.Stats.UnpaidCount++
		}
	}

	if month == AllMonths {
		d.Chart = chart(selected, func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		}, monthLayout)
	} else {
		d.Chart = chart(selected, func(t time.Time) time.Time { return t }, "02/01")
	}

	if isAdmin {
		d.Sales = salesSummary(selected)
	}
	return d
}

type dated struct {
	tx   models.Transaction
	date time.Time
}

func availableMonths(rows []dated) []string {
	seen := make(map[time.Time]struct{})
	months := make([]time.Time, 0)
	for _, r := range rows {
		m := time.Date(r.date.Year(), r.date.Month(), 1, 0, 0, 0, 0, time.UTC)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	slices.SortFunc(months, func(a, b time.Time) int { return b.Compare(a) })

	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.Format(monthLayout)
	}
	return out
}

// chart sums amount and profit per bucket, oldest bucket first.
func chart(rows []dated, bucket func(time.Time) time.Time, layout string) []ChartPoint {
	sums := make(map[time.Time]*ChartPoint)
	keys := make([]time.Time, 0)
	for _, r := range rows {
		k := bucket(r.date)
		p, ok := sums[k]
		if !ok {
			p = &ChartPoint{Label: k.Format(layout)}
			sums[k] = p
			keys = append(keys, k)
		}
		p.Amount += r.tx.Amount
		p.Profit += r.tx.Profit
	}
	slices.SortFunc(keys, func(a, b time.Time) int { return a.Compare(b) })

	out := make([]ChartPoint, len(keys))
	for i, k := range keys {
		out[i] = *sums[k]
	}
	return out
}

func salesSummary(rows []dated) []SaleSummary {
	bySale := make(map[string]*SaleSummary)
	order := make([]string, 0)
	for _, r := range rows {
		s, ok := bySale[r.tx.Sale]
		if !ok {
			s = &SaleSummary{Sale: r.tx.Sale}
			bySale[r.tx.Sale] = s
			order = append(order, r.tx.Sale)
		}
		s.Count++
		s.TotalAmount += r.tx.Amount
		s.TotalProfit += r.tx.Profit
	}

	out := make([]SaleSummary, len(order))
	for i, name := range order {
		out[i] = *bySale[name]
	}
	slices.SortStableFunc(out, func(a, b SaleSummary) int {
		return cmp.Compare(b.TotalProfit, a.TotalProfit)
	})
	return out
}
