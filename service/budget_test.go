package service

import (
	"testing"

	"crm/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBudget(t *testing.T) {
	// 资源 50/h × 100h = 5000，费用 1000，应急 10%，管理 15%，收入 10000
	in := BudgetInput{
		TotalRevenue: 10000,
		Resources: []models.ProjectResource{
			{Name: "张三", RateType: models.RateTypeHourly, HourlyRate: 50, HoursAllocated: 100},
		},
		Expenses: []models.ProjectExpense{
			{Description: "云服务器", Category: models.ExpenseCategorySoftware, PlannedCost: 1000},
		},
		ContingencyPercentage: 10,
		OverheadPercentage:    15,
	}

	out := CalculateBudget(in)

	assert.InDelta(t, 5000, out.TotalResourceCost, 0.001)
	assert.InDelta(t, 1000, out.TotalExpenseCost, 0.001)
	assert.InDelta(t, 600, out.ContingencyCost, 0.001)
	assert.InDelta(t, 900, out.OverheadCost, 0.001)
	assert.InDelta(t, 7500, out.TotalCost, 0.001)
	assert.InDelta(t, 2500, out.GrossMargin, 0.001)
	assert.InDelta(t, 25, out.MarginPercentage, 0.001)
}

func TestCalculateBudget_DailyResource(t *testing.T) {
	// 天计费资源按日费率×天数计成本
	in := BudgetInput{
		TotalRevenue: 20000,
		Resources: []models.ProjectResource{
			{Name: "李四", RateType: models.RateTypeDaily, DailyRate: 800, DaysAllocated: 10, HourlyRate: 100, HoursAllocated: 80},
		},
	}

	out := CalculateBudget(in)
	assert.InDelta(t, 8000, out.TotalResourceCost, 0.001)
	assert.InDelta(t, 8000, out.TotalCost, 0.001)
	assert.InDelta(t, 12000, out.GrossMargin, 0.001)
}

func TestCalculateBudget_Empty(t *testing.T) {
	// 空资源/费用不报错，成本为 0
	out := CalculateBudget(BudgetInput{TotalRevenue: 1000})
	assert.Zero(t, out.TotalResourceCost)
	assert.Zero(t, out.TotalExpenseCost)
	assert.Zero(t, out.TotalCost)
	assert.InDelta(t, 1000, out.GrossMargin, 0.001)
	assert.InDelta(t, 100, out.MarginPercentage, 0.001)
}

func TestCalculateBudget_ZeroRevenue(t *testing.T) {
	// 收入为 0 时毛利率固定为 0，不产生除零
	in := BudgetInput{
		Resources: []models.ProjectResource{
			{Name: "张三", RateType: models.RateTypeHourly, HourlyRate: 50, HoursAllocated: 10},
		},
	}
	out := CalculateBudget(in)
	assert.InDelta(t, -500, out.GrossMargin, 0.001)
	assert.Zero(t, out.MarginPercentage)
}

func TestCalculateBudget_NegativeMargin(t *testing.T) {
	// 亏损项目是合法输出
	in := BudgetInput{
		TotalRevenue: 1000,
		Resources: []models.ProjectResource{
			{Name: "张三", RateType: models.RateTypeHourly, HourlyRate: 100, HoursAllocated: 100},
		},
	}
	out := CalculateBudget(in)
	assert.Less(t, out.GrossMargin, 0.0)
	assert.Less(t, out.MarginPercentage, 0.0)
}

func TestCalculateBudget_Idempotent(t *testing.T) {
	// 相同输入必得相同输出
	in := BudgetInput{
		TotalRevenue: 12345.67,
		Resources: []models.ProjectResource{
			{Name: "张三", RateType: models.RateTypeHourly, HourlyRate: 73.5, HoursAllocated: 41},
			{Name: "李四", RateType: models.RateTypeDaily, DailyRate: 620, DaysAllocated: 7},
		},
		Expenses: []models.ProjectExpense{
			{Description: "差旅", Category: models.ExpenseCategoryTravel, PlannedCost: 888.88},
		},
		ContingencyPercentage: 7.5,
		OverheadPercentage:    12.5,
	}

	first := CalculateBudget(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CalculateBudget(in))
	}

	// totalCost == 各分项之和
	sum := first.TotalResourceCost + first.TotalExpenseCost + first.ContingencyCost + first.OverheadCost
	assert.InDelta(t, sum, first.TotalCost, 0.0001)
}

func TestApplyBudget(t *testing.T) {
	b := &models.ProjectBudget{
		TotalRevenue:          10000,
		ContingencyPercentage: 10,
		OverheadPercentage:    15,
		Resources: []models.ProjectResource{
			{Name: "张三", RateType: models.RateTypeHourly, HourlyRate: 50, HoursAllocated: 100},
		},
		Expenses: []models.ProjectExpense{
			{Description: "软件授权", Category: models.ExpenseCategoryLicenses, PlannedCost: 1000},
		},
	}

	ApplyBudget(b)

	assert.InDelta(t, 7500, b.TotalCost, 0.001)
	assert.InDelta(t, 2500, b.GrossMargin, 0.001)
	assert.InDelta(t, 25, b.MarginPercentage, 0.001)
}
