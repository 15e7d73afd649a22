package service

import (
	"sort"
	"time"

	"crm/models"
)

// NameResolver 报表展示名称查询，由调用方提供（通常闭包到数据库查询）
type NameResolver func(projectID uint) (projectName, companyName string)

// WeeklyTimeReport 周报
type WeeklyTimeReport struct {
	WeekStart        time.Time          `json:"week_start"`
	WeekEnd          time.Time          `json:"week_end"`
	TotalHours       float64            `json:"total_hours"`
	BillableHours    float64            `json:"billable_hours"`
	TotalRevenue     float64            `json:"total_revenue"`
	MaxDailyHours    float64            `json:"max_daily_hours"` // 趋势图纵轴刻度，不低于 8
	ProjectBreakdown []ProjectWeekStats `json:"project_breakdown"`
	DailyBreakdown   []DailyTimeEntry   `json:"daily_breakdown"` // 固定 7 格，周一到周日
}

// ProjectWeekStats 周报中单个项目的统计
type ProjectWeekStats struct {
	ProjectID     uint    `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	CompanyName   string  `json:"company_name"`
	Hours         float64 `json:"hours"`
	BillableHours float64 `json:"billable_hours"`
	Revenue       float64 `json:"revenue"`
}

// DailyTimeEntry 周报中单日的统计
type DailyTimeEntry struct {
	Date          time.Time `json:"date"`
	TotalHours    float64   `json:"total_hours"`
	BillableHours float64   `json:"billable_hours"`
	EntryCount    int       `json:"entry_count"`
}

// WeekStart 返回 d 所在周的周一 00:00:00
func WeekStart(d time.Time) time.Time {
	offset := 1 - int(d.Weekday())
	if d.Weekday() == time.Sunday {
		offset = -6
	}
	return time.Date(d.Year(), d.Month(), d.Day()+offset, 0, 0, 0, 0, d.Location())
}

// WeekEnd 返回该周周日 23:59:59
func WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 6).Add(24*time.Hour - time.Second)
}

// NextWeek 前进一周
func NextWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 7)
}

// PrevWeek 后退一周
func PrevWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, -7)
}

// sameDay 判断两个时间是否为同一自然日（忽略时分秒）
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// BuildWeeklyReport 将工时记录按周聚合
// 只统计 date 落在 [weekStart, weekEnd] 内的记录；项目分组按 ID 升序保证输出稳定
func BuildWeeklyReport(weekStart time.Time, entries []models.TimeEntry, resolve NameResolver) WeeklyTimeReport {
	weekEnd := WeekEnd(weekStart)
	report := WeeklyTimeReport{
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
	}

	var inWeek []models.TimeEntry
	for _, e := range entries {
		if e.Date.Before(weekStart) || e.Date.After(weekEnd) {
			continue
		}
		inWeek = append(inWeek, e)
	}

	projectMap := make(map[uint]*ProjectWeekStats)
	for _, e := range inWeek {
		hours := float64(e.Duration) / 60
		revenue := EntryCost(e)

		report.TotalHours += hours
		report.TotalRevenue += revenue
		if e.Billable {
			report.BillableHours += hours
		}

		ps, ok := projectMap[e.ProjectID]
		if !ok {
			ps = &ProjectWeekStats{ProjectID: e.ProjectID}
			if resolve != nil {
				ps.ProjectName, ps.CompanyName = resolve(e.ProjectID)
			}
			projectMap[e.ProjectID] = ps
		}
		ps.Hours += hours
		ps.Revenue += revenue
		if e.Billable {
			ps.BillableHours += hours
		}
	}

	report.ProjectBreakdown = make([]ProjectWeekStats, 0, len(projectMap))
	for _, ps := range projectMap {
		report.ProjectBreakdown = append(report.ProjectBreakdown, *ps)
	}
	sort.Slice(report.ProjectBreakdown, func(i, j int) bool {
		return report.ProjectBreakdown[i].ProjectID < report.ProjectBreakdown[j].ProjectID
	})

	// 固定 7 格：周一到周日
	report.DailyBreakdown = make([]DailyTimeEntry, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		slot := DailyTimeEntry{Date: day}
		for _, e := range inWeek {
			if !sameDay(e.Date, day) {
				continue
			}
			hours := float64(e.Duration) / 60
			slot.TotalHours += hours
			if e.Billable {
				slot.BillableHours += hours
			}
			slot.EntryCount++
		}
		report.DailyBreakdown[i] = slot
	}

	report.MaxDailyHours = HoursPerDay
	for _, d := range report.DailyBreakdown {
		if d.TotalHours > report.MaxDailyHours {
			report.MaxDailyHours = d.TotalHours
		}
	}

	return report
}
