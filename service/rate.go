package service

import (
	"errors"
	"math"

	"crm/models"
)

// HoursPerDay 固定工作日长度，费率与分配量换算的基准，不可配置
const HoursPerDay = 8

// SwitchRateType 切换资源计费方式并同步费率与分配量
// 规范费率始终为小时费率：切到天计费时按 8 小时工作日换算，切回小时计费时逆换算
func SwitchRateType(r *models.ProjectResource, newType string) error {
	if !models.IsValidRateType(newType) {
		return errors.New("无效的计费方式")
	}
	if r.RateType == newType {
		return nil
	}

	switch newType {
	case models.RateTypeDaily:
		r.DaysAllocated = math.Ceil(r.HoursAllocated / HoursPerDay)
		r.DailyRate = r.HourlyRate * HoursPerDay
	case models.RateTypeHourly:
		r.HoursAllocated = r.DaysAllocated * HoursPerDay
		r.HourlyRate = r.DailyRate / HoursPerDay
	}
	r.RateType = newType
	return nil
}

// SyncDailyRate 天计费模式下直接修改日费率时立即回算小时费率
// 小时计费模式下修改小时费率不反向联动日费率，等到下次切换计费方式时才换算
func SyncDailyRate(r *models.ProjectResource) {
	if r.RateType == models.RateTypeDaily {
		r.HourlyRate = r.DailyRate / HoursPerDay
	}
}
