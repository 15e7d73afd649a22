// Package service 实现项目预算、工时计费与报表聚合引擎
// 所有引擎均为纯函数：输入实体集合，输出计算结果，不做任何 I/O
package service

import "crm/models"

// BudgetInput 预算计算输入
type BudgetInput struct {
	TotalRevenue          float64
	Resources             []models.ProjectResource
	Expenses              []models.ProjectExpense
	ContingencyPercentage float64
	OverheadPercentage    float64
	Currency              string
}

// BudgetBreakdown 预算计算结果（派生字段）
type BudgetBreakdown struct {
	TotalResourceCost float64 `json:"total_resource_cost"`
	TotalExpenseCost  float64 `json:"total_expense_cost"`
	ContingencyCost   float64 `json:"contingency_cost"`
	OverheadCost      float64 `json:"overhead_cost"`
	TotalCost         float64 `json:"total_cost"`
	GrossMargin       float64 `json:"gross_margin"`
	MarginPercentage  float64 `json:"margin_percentage"`
}

// ResourceCost 单个资源的计划人力成本
// 小时计费按小时费率×分配小时，天计费按日费率×分配天数
func ResourceCost(r models.ProjectResource) float64 {
	if r.RateType == models.RateTypeDaily {
		return r.DailyRate * r.DaysAllocated
	}
	return r.HourlyRate * r.HoursAllocated
}

// CalculateBudget 由资源、费用与两个百分比推导完整成本/毛利分解
// 空资源/费用列表得到 0 成本；毛利为负是合法输出（亏损项目），不报错
func CalculateBudget(in BudgetInput) BudgetBreakdown {
	var out BudgetBreakdown

	for _, r := range in.Resources {
		out.TotalResourceCost += ResourceCost(r)
	}
	for _, e := range in.Expenses {
		out.TotalExpenseCost += e.PlannedCost
	}

	subtotal := out.TotalResourceCost + out.TotalExpenseCost
	out.ContingencyCost = subtotal * in.ContingencyPercentage / 100
	out.OverheadCost = subtotal * in.OverheadPercentage / 100
	out.TotalCost = subtotal + out.ContingencyCost + out.OverheadCost
	out.GrossMargin = in.TotalRevenue - out.TotalCost
	if in.TotalRevenue > 0 {
		out.MarginPercentage = out.GrossMargin / in.TotalRevenue * 100
	}

	return out
}

// ApplyBudget 重算并回写预算的派生字段
// 预算的收入/资源/费用/百分比任一变化后都必须调用
func ApplyBudget(b *models.ProjectBudget) {
	out := CalculateBudget(BudgetInput{
		TotalRevenue:          b.TotalRevenue,
		Resources:             b.Resources,
		Expenses:              b.Expenses,
		ContingencyPercentage: b.ContingencyPercentage,
		OverheadPercentage:    b.OverheadPercentage,
		Currency:              b.Currency,
	})
	b.TotalResourceCost = out.TotalResourceCost
	b.TotalExpenseCost = out.TotalExpenseCost
	b.ContingencyCost = out.ContingencyCost
	b.OverheadCost = out.OverheadCost
	b.TotalCost = out.TotalCost
	b.GrossMargin = out.GrossMargin
	b.MarginPercentage = out.MarginPercentage
}
