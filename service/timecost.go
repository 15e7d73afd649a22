package service

import (
	"errors"
	"math"
	"time"

	"crm/models"
)

// 工时记录校验错误，handler 层映射为 400
var (
	ErrNoResources      = errors.New("项目预算中没有可用资源")
	ErrResourceNotFound = errors.New("资源名称与项目预算中的资源不匹配")
	ErrInvalidDuration  = errors.New("时长必须大于 0")
	ErrEndBeforeStart   = errors.New("结束时间必须晚于开始时间")
	ErrMissingDuration  = errors.New("必须提供时长或开始/结束时间")
)

// FindResource 在资源列表中按名称查找
func FindResource(resources []models.ProjectResource, name string) *models.ProjectResource {
	for i := range resources {
		if resources[i].Name == name {
			return &resources[i]
		}
	}
	return nil
}

// ResolveDuration 解析工时时长（分钟）
// 同时给出起止时间时以二者之差为准（按分钟四舍五入），否则采用直接提供的时长
func ResolveDuration(start, end *time.Time, duration int) (int, error) {
	if start != nil && end != nil {
		d := end.Sub(*start)
		if d <= 0 {
			return 0, ErrEndBeforeStart
		}
		minutes := int(math.Round(d.Minutes()))
		if minutes <= 0 {
			return 0, ErrEndBeforeStart
		}
		return minutes, nil
	}
	if duration <= 0 {
		if duration == 0 {
			return 0, ErrMissingDuration
		}
		return 0, ErrInvalidDuration
	}
	return duration, nil
}

// BindResource 为新建工时记录绑定资源并快照计费信息
// 创建时严格校验：资源列表为空或名称不匹配都直接拒绝，不写入任何数据
// 匹配成功后从资源快照小时费率与币种，之后资源调价不回溯已有记录
func BindResource(resources []models.ProjectResource, entry *models.TimeEntry) error {
	if len(resources) == 0 {
		return ErrNoResources
	}
	r := FindResource(resources, entry.ResourceName)
	if r == nil {
		return ErrResourceNotFound
	}

	rate := r.HourlyRate
	entry.Billable = true
	entry.HourlyRate = &rate
	if r.Currency != "" {
		entry.Currency = r.Currency
	}
	return nil
}

// RebindResource 编辑已有工时记录时更换资源
// 与创建时不同：新名称无匹配资源时不拒绝，静默清除计费信息（billable=false、费率置空）
func RebindResource(resources []models.ProjectResource, entry *models.TimeEntry, newName string) {
	entry.ResourceName = newName
	r := FindResource(resources, newName)
	if r == nil {
		entry.Billable = false
		entry.HourlyRate = nil
		return
	}
	rate := r.HourlyRate
	entry.Billable = true
	entry.HourlyRate = &rate
	if r.Currency != "" {
		entry.Currency = r.Currency
	}
}

// EntryCost 单条工时记录的计费成本
func EntryCost(e models.TimeEntry) float64 {
	if !e.Billable || e.HourlyRate == nil {
		return 0
	}
	return float64(e.Duration) / 60 * *e.HourlyRate
}
