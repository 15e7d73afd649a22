package models

import (
	"time"

	"gorm.io/gorm"
)

// Company 客户公司模型
type Company struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null;index"`
	Industry  string         `json:"industry" gorm:"size:50"`
	Website   string         `json:"website" gorm:"size:255"`
	Phone     string         `json:"phone" gorm:"size:30"`
	Email     string         `json:"email" gorm:"size:100"`
	Address   string         `json:"address" gorm:"size:255"`
	Notes     string         `json:"notes" gorm:"size:1000"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Company) TableName() string {
	return "companies"
}
