package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact 联系人模型
type Contact struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CompanyID uint           `json:"company_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	Role      string         `json:"role" gorm:"size:50"`
	Email     string         `json:"email" gorm:"size:100"`
	Phone     string         `json:"phone" gorm:"size:30"`
	Notes     string         `json:"notes" gorm:"size:1000"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Company   Company        `json:"-" gorm:"foreignKey:CompanyID"`
}

// TableName 设置表名
func (Contact) TableName() string {
	return "contacts"
}
