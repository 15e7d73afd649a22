package models

import (
	"time"

	"gorm.io/gorm"
)

// 发票状态常量
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// GetInvoiceStatuses 获取所有发票状态
func GetInvoiceStatuses() []string {
	return []string{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
}

// IsValidInvoiceStatus 校验发票状态是否合法
func IsValidInvoiceStatus(status string) bool {
	for _, s := range GetInvoiceStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Invoice 发票模型（仅记录，不生成单据文件）
type Invoice struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Number    string         `json:"number" gorm:"size:50;not null;uniqueIndex"`
	CompanyID uint           `json:"company_id" gorm:"index;not null"`
	ProjectID *uint          `json:"project_id,omitempty" gorm:"index"`
	Amount    float64        `json:"amount" gorm:"type:decimal(12,2);default:0"`
	Currency  string         `json:"currency" gorm:"size:10;default:CNY"`
	Status    string         `json:"status" gorm:"size:20;not null;index;default:draft"`
	IssueDate time.Time      `json:"issue_date" gorm:"type:date"`
	DueDate   *time.Time     `json:"due_date" gorm:"type:date"`
	Notes     string         `json:"notes" gorm:"size:1000"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Company   Company        `json:"-" gorm:"foreignKey:CompanyID"`
	Items     []InvoiceItem  `json:"items" gorm:"foreignKey:InvoiceID"`
}

// TableName 设置表名
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem 发票行项目
type InvoiceItem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	InvoiceID   uint           `json:"invoice_id" gorm:"index;not null"`
	Description string         `json:"description" gorm:"size:255;not null"`
	Quantity    float64        `json:"quantity" gorm:"type:decimal(10,2);default:1"`
	UnitPrice   float64        `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Total 返回行项目合计
func (i *InvoiceItem) Total() float64 {
	return i.Quantity * i.UnitPrice
}
