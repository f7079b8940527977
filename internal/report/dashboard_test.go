package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/cardmaster/internal/models"
)

var (
	admin = models.User{Username: "admin", FullName: "Administrator", Role: models.RoleAdmin}
	staff = models.User{Username: "user", FullName: "Nhân viên A", Role: models.RoleUser}
)

func dashboardFixture() []models.Transaction {
	return []models.Transaction{
		{ID: "1", Timestamp: "03/10/2026", Sale: "Nhân viên A", Amount: 100, Profit: 10, Status: models.StatusPaid},
		{ID: "2", Timestamp: "01/10/2026", Sale: "Quản lý B", Amount: 200, Profit: 40, Status: models.StatusUnpaid},
		{ID: "3", Timestamp: "03/10/2026", Sale: "Quản lý B", Amount: 50, Profit: 5, Status: models.StatusPaid},
		{ID: "4", Timestamp: "20/09/2026", Sale: "Nhân viên A", Amount: 300, Profit: 30, Status: models.StatusUnpaid},
		{ID: "5", Timestamp: "15/12/2025", Sale: "Administrator", Amount: 1000, Profit: 1, Status: models.StatusPaid},
	}
}

func TestBuildDashboard_AdminAllMonths(t *testing.T) {
	d := BuildDashboard(dashboardFixture(), admin, "")

	assert.Equal(t, AllMonths, d.Month)
	assert.Equal(t, []string{"10/2026", "09/2026", "12/2025"}, d.AvailableMonths)
	assert.Equal(t, Stats{TotalAmount: 1650, TotalProfit: 86, Count: 5, UnpaidCount: 2}, d.Stats)
	assert.Equal(t, []ChartPoint{
		{Label: "12/2025", Amount: 1000, Profit: 1},
		{Label: "09/2026", Amount: 300, Profit: 30},
		{Label: "10/2026", Amount: 350, Profit: 55},
	}, d.Chart)

	require.Len(t, d.Sales, 3)
	assert.Equal(t, SaleSummary{Sale: "Quản lý B", Count: 2, TotalAmount: 250, TotalProfit: 45}, d.Sales[0])
	assert.Equal(t, "Nhân viên A", d.Sales[1].Sale)
	assert.Equal(t, "Administrator", d.Sales[2].Sale)
}

func TestBuildDashboard_SingleMonth(t *testing.T) {
	d := BuildDashboard(dashboardFixture(), admin, "10/2026")

	assert.Equal(t, Stats{TotalAmount: 350, TotalProfit: 55, Count: 3, UnpaidCount: 1}, d.Stats)
	assert.Equal(t, []ChartPoint{
		{Label: "01/10", Amount: 200, Profit: 40},
		{Label: "03/10", Amount: 150, Profit: 15},
	}, d.Chart)
	assert.Len(t, d.AvailableMonths, 3, "months list ignores the selection")
}

func TestBuildDashboard_NonAdminSeesOwnSales(t *testing.T) {
	d := BuildDashboard(dashboardFixture(), staff, AllMonths)

	assert.Equal(t, []string{"10/2026", "09/2026"}, d.AvailableMonths)
	assert.Equal(t, Stats{TotalAmount: 400, TotalProfit: 40, Count: 2, UnpaidCount: 1}, d.Stats)
	assert.Nil(t, d.Sales)
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(nil, admin, "01/2020")
	assert.Empty(t, d.AvailableMonths)
	assert.Empty(t, d.Chart)
	assert.Equal(t, Stats{}, d.Stats)
}
