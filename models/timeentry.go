package models

import (
	"time"

	"gorm.io/gorm"
)

// TimeEntry 工时记录模型
// duration 以分钟计；hourly_rate 为创建时从资源快照的费率，后续资源调价不回溯
type TimeEntry struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	ProjectID    uint           `json:"project_id" gorm:"index;not null"`
	ResourceName string         `json:"resource_name" gorm:"size:100"`
	Description  string         `json:"description" gorm:"size:500"`
	StartTime    *time.Time     `json:"start_time"`
	EndTime      *time.Time     `json:"end_time"`
	Duration     int            `json:"duration" gorm:"not null;default:0"` // 分钟
	Date         time.Time      `json:"date" gorm:"type:date;not null;index"`
	Tags         string         `json:"tags" gorm:"size:255"` // 逗号分隔
	Billable     bool           `json:"billable" gorm:"default:false;index"`
	HourlyRate   *float64       `json:"hourly_rate,omitempty" gorm:"type:decimal(10,2)"`
	Currency     string         `json:"currency" gorm:"size:10;default:CNY"`
	IsRunning    bool           `json:"is_running" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	Project      Project        `json:"-" gorm:"foreignKey:ProjectID"`
}

// TableName 设置表名
func (TimeEntry) TableName() string {
	return "time_entries"
}

// Hours 返回小时数
func (e *TimeEntry) Hours() float64 {
	return float64(e.Duration) / 60
}

// Cost 返回计费成本，未快照费率或不计费时为 0
func (e *TimeEntry) Cost() float64 {
	if !e.Billable || e.HourlyRate == nil {
		return 0
	}
	return e.Hours() * *e.HourlyRate
}
