package models

import (
	"time"

	"gorm.io/gorm"
)

// 商机阶段常量
const (
	DealStageLead        = "lead"
	DealStageQualified   = "qualified"
	DealStageProposal    = "proposal"
	DealStageNegotiation = "negotiation"
	DealStageWon         = "won"
	DealStageLost        = "lost"
)

// GetDealStages 获取所有商机阶段
func GetDealStages() []string {
	return []string{
		DealStageLead,
		DealStageQualified,
		DealStageProposal,
		DealStageNegotiation,
		DealStageWon,
		DealStageLost,
	}
}

// IsValidDealStage 校验商机阶段是否合法
func IsValidDealStage(stage string) bool {
	for _, s := range GetDealStages() {
		if s == stage {
			return true
		}
	}
	return false
}

// Deal 商机模型
type Deal struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	CompanyID         uint           `json:"company_id" gorm:"index;not null"`
	Title             string         `json:"title" gorm:"size:100;not null"`
	Value             float64        `json:"value" gorm:"type:decimal(12,2);default:0"`
	Currency          string         `json:"currency" gorm:"size:10;default:CNY"`
	Stage             string         `json:"stage" gorm:"size:20;not null;index;default:lead"`
	ExpectedCloseDate *time.Time     `json:"expected_close_date"`
	Notes             string         `json:"notes" gorm:"size:1000"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
	Company           Company        `json:"-" gorm:"foreignKey:CompanyID"`
}

// TableName 设置表名
func (Deal) TableName() string {
	return "deals"
}
