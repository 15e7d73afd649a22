package service

import (
	"testing"

	"crm/models"

	"github.com/stretchr/testify/assert"
)

func rateOf(v float64) *float64 { return &v }

func TestReconcile(t *testing.T) {
	budget := models.ProjectBudget{
		ProjectID:    1,
		TotalRevenue: 10000,
		GrossMargin:  2500,
		Currency:     "CNY",
		Resources: []models.ProjectResource{
			{Name: "张三", HoursAllocated: 100},
			{Name: "李四", HoursAllocated: 60},
		},
	}
	entries := []models.TimeEntry{
		{Duration: 120, Billable: true, HourlyRate: rateOf(50)},  // 2h × 50 = 100
		{Duration: 180, Billable: true, HourlyRate: rateOf(100)}, // 3h × 100 = 300
		{Duration: 60, Billable: false},                          // 不计费
	}

	stats := Reconcile(budget, entries)

	assert.InDelta(t, 6, stats.TotalHours, 0.001)
	assert.InDelta(t, 5, stats.BillableHours, 0.001)
	assert.InDelta(t, 400, stats.ActualCost, 0.001)
	assert.InDelta(t, 9600, stats.ActualMargin, 0.001)
	assert.InDelta(t, 25, stats.BudgetedMarginPct, 0.001)
	assert.InDelta(t, 96, stats.ActualMarginPct, 0.001)
	assert.InDelta(t, 9600-2500, stats.MarginVariance, 0.001)
	assert.InDelta(t, 160, stats.BudgetedHours, 0.001)
	assert.InDelta(t, 6.0/160*100, stats.HoursUtilization, 0.001)
	assert.InDelta(t, -154, stats.HoursVariance, 0.001)
}

func TestReconcile_BillableWithoutRate(t *testing.T) {
	// 计费但未快照费率的记录计入工时，不计入成本
	budget := models.ProjectBudget{TotalRevenue: 1000}
	entries := []models.TimeEntry{
		{Duration: 60, Billable: true, HourlyRate: nil},
	}

	stats := Reconcile(budget, entries)
	assert.InDelta(t, 1, stats.BillableHours, 0.001)
	assert.Zero(t, stats.ActualCost)
	assert.InDelta(t, 1000, stats.ActualMargin, 0.001)
}

func TestReconcile_ZeroGuards(t *testing.T) {
	// 收入为 0、预算工时为 0 时各比率定为 0，不产生 NaN
	stats := Reconcile(models.ProjectBudget{}, []models.TimeEntry{
		{Duration: 90, Billable: true, HourlyRate: rateOf(50)},
	})

	assert.Zero(t, stats.BudgetedMarginPct)
	assert.Zero(t, stats.ActualMarginPct)
	assert.Zero(t, stats.HoursUtilization)
	assert.InDelta(t, 1.5, stats.TotalHours, 0.001)
	assert.InDelta(t, 1.5, stats.HoursVariance, 0.001)
}

func TestProjectTimeStats_Include(t *testing.T) {
	// 有工时或有预算工时的项目才纳入对账报表
	assert.True(t, ProjectTimeStats{TotalHours: 1}.Include())
	assert.True(t, ProjectTimeStats{BudgetedHours: 40}.Include())
	assert.False(t, ProjectTimeStats{}.Include())
}
