package models

import (
	"time"

	"gorm.io/gorm"
)

// Setting 用户级设置（key/value）
type Setting struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_settings_user_key"`
	Key       string         `json:"key" gorm:"size:50;not null;uniqueIndex:idx_settings_user_key"`
	Value     string         `json:"value" gorm:"size:1000"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Setting) TableName() string {
	return "settings"
}
