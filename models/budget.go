package models

import (
	"time"

	"gorm.io/gorm"
)

// 资源类型常量
const (
	ResourceTypeInternal   = "internal"
	ResourceTypeExternal   = "external"
	ResourceTypeContractor = "contractor"
)

// 计费方式常量
const (
	RateTypeHourly = "hourly"
	RateTypeDaily  = "daily"
)

// 费用类别常量
const (
	ExpenseCategorySoftware  = "software"
	ExpenseCategoryHardware  = "hardware"
	ExpenseCategoryTravel    = "travel"
	ExpenseCategoryMaterials = "materials"
	ExpenseCategoryLicenses  = "licenses"
	ExpenseCategoryOther     = "other"
)

// 费用状态常量
const (
	ExpenseStatusPlanned  = "planned"
	ExpenseStatusApproved = "approved"
	ExpenseStatusOrdered  = "ordered"
	ExpenseStatusReceived = "received"
	ExpenseStatusPaid     = "paid"
)

// GetResourceTypes 获取所有资源类型
func GetResourceTypes() []string {
	return []string{ResourceTypeInternal, ResourceTypeExternal, ResourceTypeContractor}
}

// GetExpenseCategories 获取所有费用类别
func GetExpenseCategories() []string {
	return []string{
		ExpenseCategorySoftware,
		ExpenseCategoryHardware,
		ExpenseCategoryTravel,
		ExpenseCategoryMaterials,
		ExpenseCategoryLicenses,
		ExpenseCategoryOther,
	}
}

// GetExpenseStatuses 获取所有费用状态
func GetExpenseStatuses() []string {
	return []string{
		ExpenseStatusPlanned,
		ExpenseStatusApproved,
		ExpenseStatusOrdered,
		ExpenseStatusReceived,
		ExpenseStatusPaid,
	}
}

// IsValidResourceType 校验资源类型是否合法
func IsValidResourceType(t string) bool {
	return t == ResourceTypeInternal || t == ResourceTypeExternal || t == ResourceTypeContractor
}

// IsValidRateType 校验计费方式是否合法
func IsValidRateType(t string) bool {
	return t == RateTypeHourly || t == RateTypeDaily
}

// IsValidExpenseCategory 校验费用类别是否合法
func IsValidExpenseCategory(cat string) bool {
	for _, c := range GetExpenseCategories() {
		if c == cat {
			return true
		}
	}
	return false
}

// IsValidExpenseStatus 校验费用状态是否合法
func IsValidExpenseStatus(status string) bool {
	for _, s := range GetExpenseStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// ProjectBudget 项目预算模型
// TotalResourceCost 及之后的字段均为派生字段，只由预算引擎重算，不接受客户端写入
type ProjectBudget struct {
	ID                    uint           `json:"id" gorm:"primaryKey"`
	ProjectID             uint           `json:"project_id" gorm:"uniqueIndex;not null"`
	TotalRevenue          float64        `json:"total_revenue" gorm:"type:decimal(12,2);default:0"`
	ContingencyPercentage float64        `json:"contingency_percentage" gorm:"type:decimal(5,2);default:0"`
	OverheadPercentage    float64        `json:"overhead_percentage" gorm:"type:decimal(5,2);default:0"`
	Currency              string         `json:"currency" gorm:"size:10;default:CNY"`
	TotalResourceCost     float64        `json:"total_resource_cost" gorm:"type:decimal(12,2);default:0"`
	TotalExpenseCost      float64        `json:"total_expense_cost" gorm:"type:decimal(12,2);default:0"`
	ContingencyCost       float64        `json:"contingency_cost" gorm:"type:decimal(12,2);default:0"`
	OverheadCost          float64        `json:"overhead_cost" gorm:"type:decimal(12,2);default:0"`
	TotalCost             float64        `json:"total_cost" gorm:"type:decimal(12,2);default:0"`
	GrossMargin           float64        `json:"gross_margin" gorm:"type:decimal(12,2);default:0"`
	MarginPercentage      float64        `json:"margin_percentage" gorm:"type:decimal(5,2);default:0"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `json:"-" gorm:"index"`

	Resources []ProjectResource `json:"resources" gorm:"foreignKey:BudgetID"`
	Expenses  []ProjectExpense  `json:"expenses" gorm:"foreignKey:BudgetID"`
}

// TableName 设置表名
func (ProjectBudget) TableName() string {
	return "project_budgets"
}

// ProjectResource 项目人力资源模型
// 规范费率始终为小时费率：rate_type=daily 时 hourly_rate == daily_rate/8
type ProjectResource struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	BudgetID       uint           `json:"budget_id" gorm:"index;not null"`
	Name           string         `json:"name" gorm:"size:100;not null"`
	Type           string         `json:"type" gorm:"size:20;not null;default:internal"`
	Role           string         `json:"role" gorm:"size:50"`
	RateType       string         `json:"rate_type" gorm:"size:10;not null;default:hourly"`
	HourlyRate     float64        `json:"hourly_rate" gorm:"type:decimal(10,2);default:0"`
	DailyRate      float64        `json:"daily_rate" gorm:"type:decimal(10,2);default:0"`
	Currency       string         `json:"currency" gorm:"size:10;default:CNY"`
	HoursAllocated float64        `json:"hours_allocated" gorm:"type:decimal(8,2);default:0"`
	DaysAllocated  float64        `json:"days_allocated" gorm:"type:decimal(8,2);default:0"`
	HoursActual    *float64       `json:"hours_actual,omitempty" gorm:"type:decimal(8,2)"`
	StartDate      *time.Time     `json:"start_date"`
	EndDate        *time.Time     `json:"end_date"`
	Skills         string         `json:"skills" gorm:"size:255"` // 逗号分隔
	Notes          string         `json:"notes" gorm:"size:500"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (ProjectResource) TableName() string {
	return "project_resources"
}

// ProjectExpense 项目费用模型
type ProjectExpense struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	BudgetID    uint           `json:"budget_id" gorm:"index;not null"`
	Category    string         `json:"category" gorm:"size:20;not null;default:other"`
	Description string         `json:"description" gorm:"size:255;not null"`
	PlannedCost float64        `json:"planned_cost" gorm:"type:decimal(12,2);default:0"`
	ActualCost  *float64       `json:"actual_cost,omitempty" gorm:"type:decimal(12,2)"`
	Currency    string         `json:"currency" gorm:"size:10;default:CNY"`
	Status      string         `json:"status" gorm:"size:20;not null;default:planned"`
	DueDate     *time.Time     `json:"due_date"`
	Vendor      string         `json:"vendor" gorm:"size:100"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (ProjectExpense) TableName() string {
	return "project_expenses"
}
