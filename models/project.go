package models

import (
	"time"

	"gorm.io/gorm"
)

// 项目状态常量
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// GetProjectStatuses 获取所有项目状态
func GetProjectStatuses() []string {
	return []string{
		ProjectStatusPlanning,
		ProjectStatusActive,
		ProjectStatusOnHold,
		ProjectStatusCompleted,
		ProjectStatusCancelled,
	}
}

// IsValidProjectStatus 校验项目状态是否合法
func IsValidProjectStatus(status string) bool {
	for _, s := range GetProjectStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Project 项目模型，预算与项目 1:1 内嵌
type Project struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CompanyID   uint           `json:"company_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"size:100;not null;index"`
	Description string         `json:"description" gorm:"size:1000"`
	Status      string         `json:"status" gorm:"size:20;not null;index;default:planning"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Company     Company        `json:"-" gorm:"foreignKey:CompanyID"`
	Budget      *ProjectBudget `json:"budget,omitempty" gorm:"foreignKey:ProjectID"`
}

// TableName 设置表名
func (Project) TableName() string {
	return "projects"
}
