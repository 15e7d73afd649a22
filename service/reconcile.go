package service

import "crm/models"

// ProjectTimeStats 项目预算与实际工时的对账结果
type ProjectTimeStats struct {
	ProjectID         uint    `json:"project_id"`
	ProjectName       string  `json:"project_name"`
	CompanyName       string  `json:"company_name"`
	Currency          string  `json:"currency"`
	TotalHours        float64 `json:"total_hours"`
	BillableHours     float64 `json:"billable_hours"`
	ActualCost        float64 `json:"actual_cost"`
	ActualMargin      float64 `json:"actual_margin"`
	BudgetedMarginPct float64 `json:"budgeted_margin_pct"`
	ActualMarginPct   float64 `json:"actual_margin_pct"`
	MarginVariance    float64 `json:"margin_variance"`
	BudgetedHours     float64 `json:"budgeted_hours"`
	HoursUtilization  float64 `json:"hours_utilization"`
	HoursVariance     float64 `json:"hours_variance"`
}

// Reconcile 将项目的工时记录与预算对账
// actualCost 只来自计费工时（时长×快照费率），费用的 actual_cost 字段独立核销，
// 不混入本引擎，保证结果是 (预算, 工时集合) 的纯函数
func Reconcile(budget models.ProjectBudget, entries []models.TimeEntry) ProjectTimeStats {
	stats := ProjectTimeStats{
		ProjectID: budget.ProjectID,
		Currency:  budget.Currency,
	}

	for _, e := range entries {
		hours := float64(e.Duration) / 60
		stats.TotalHours += hours
		if e.Billable {
			stats.BillableHours += hours
			if e.HourlyRate != nil {
				stats.ActualCost += hours * *e.HourlyRate
			}
		}
	}

	for _, r := range budget.Resources {
		stats.BudgetedHours += r.HoursAllocated
	}

	stats.ActualMargin = budget.TotalRevenue - stats.ActualCost
	if budget.TotalRevenue > 0 {
		stats.BudgetedMarginPct = budget.GrossMargin / budget.TotalRevenue * 100
		stats.ActualMarginPct = stats.ActualMargin / budget.TotalRevenue * 100
	}
	stats.MarginVariance = stats.ActualMargin - budget.GrossMargin

	if stats.BudgetedHours > 0 {
		stats.HoursUtilization = stats.TotalHours / stats.BudgetedHours * 100
	}
	stats.HoursVariance = stats.TotalHours - stats.BudgetedHours

	return stats
}

// Include 判断项目是否应出现在对账报表中
// 既无工时也无预算工时的项目（未动工且未做预算）不纳入
func (s ProjectTimeStats) Include() bool {
	return s.TotalHours > 0 || s.BudgetedHours > 0
}
