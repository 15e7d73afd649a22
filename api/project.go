package api

import (
	"strconv"
	"strings"
	"time"

	"crm/database"
	"crm/models"
	"crm/service"

	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目处理器
// 预算的派生字段只能由预算引擎重算，收入/资源/费用/百分比任一变化都会触发重算落库
type ProjectHandler struct{}

// NewProjectHandler 创建项目处理器
func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

// ProjectRequest 创建/更新项目请求
type ProjectRequest struct {
	CompanyID   uint   `json:"company_id" binding:"required" example:"1"`
	Name        string `json:"name" binding:"required,max=100" example:"官网改版"`
	Description string `json:"description"`
	Status      string `json:"status" example:"planning"`
	StartDate   string `json:"start_date" example:"2024-01-01"`
	EndDate     string `json:"end_date" example:"2024-06-30"`
}

// ProjectListRequest 项目列表请求
type ProjectListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	CompanyID uint   `form:"company_id" example:"1"`
	Status    string `form:"status" example:"active"`
	Keyword   string `form:"keyword" example:"官网"`
}

// BudgetRequest 更新预算参数请求
type BudgetRequest struct {
	TotalRevenue          float64 `json:"total_revenue" binding:"gte=0" example:"100000"`
	ContingencyPercentage float64 `json:"contingency_percentage" binding:"gte=0" example:"10"`
	OverheadPercentage    float64 `json:"overhead_percentage" binding:"gte=0" example:"15"`
	Currency              string  `json:"currency" example:"CNY"`
}

// ResourceRequest 创建/更新预算资源请求
type ResourceRequest struct {
	Name           string  `json:"name" binding:"required,max=100" example:"张三"`
	Type           string  `json:"type" example:"internal"`
	Role           string  `json:"role" example:"后端开发"`
	RateType       string  `json:"rate_type" example:"hourly"`
	HourlyRate     float64 `json:"hourly_rate" binding:"gte=0" example:"50"`
	DailyRate      float64 `json:"daily_rate" binding:"gte=0" example:"400"`
	Currency       string  `json:"currency" example:"CNY"`
	HoursAllocated float64 `json:"hours_allocated" binding:"gte=0" example:"100"`
	DaysAllocated  float64 `json:"days_allocated" binding:"gte=0" example:"13"`
	StartDate      string  `json:"start_date" example:"2024-01-01"`
	EndDate        string  `json:"end_date" example:"2024-03-31"`
	Skills         string  `json:"skills" example:"Go,MySQL"`
	Notes          string  `json:"notes"`
}

// ExpenseRequest 创建/更新预算费用请求
type ExpenseRequest struct {
	Category    string   `json:"category" example:"software"`
	Description string   `json:"description" binding:"required,max=255" example:"云服务器"`
	PlannedCost float64  `json:"planned_cost" binding:"gte=0" example:"1000"`
	ActualCost  *float64 `json:"actual_cost,omitempty"`
	Currency    string   `json:"currency" example:"CNY"`
	Status      string   `json:"status" example:"planned"`
	DueDate     string   `json:"due_date" example:"2024-02-01"`
	Vendor      string   `json:"vendor" example:"阿里云"`
}

// parseDate 解析 YYYY-MM-DD 日期，空串返回 nil
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// loadBudget 加载项目预算（含资源与费用）
func loadBudget(projectID uint) (*models.ProjectBudget, error) {
	var budget models.ProjectBudget
	err := database.DB.Preload("Resources").Preload("Expenses").
		Where("project_id = ?", projectID).First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// recalcBudget 重算派生字段并落库
func recalcBudget(budget *models.ProjectBudget) error {
	service.ApplyBudget(budget)
	return database.DB.Model(budget).Updates(map[string]interface{}{
		"total_revenue":          budget.TotalRevenue,
		"contingency_percentage": budget.ContingencyPercentage,
		"overhead_percentage":    budget.OverheadPercentage,
		"currency":               budget.Currency,
		"total_resource_cost":    budget.TotalResourceCost,
		"total_expense_cost":     budget.TotalExpenseCost,
		"contingency_cost":       budget.ContingencyCost,
		"overhead_cost":          budget.OverheadCost,
		"total_cost":             budget.TotalCost,
		"gross_margin":           budget.GrossMargin,
		"margin_percentage":      budget.MarginPercentage,
	}).Error
}

// Create 创建项目
// @Summary 创建项目
// @Description 创建项目并初始化空预算
// @Tags 项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProjectRequest true "项目信息"
// @Success 200 {object} Response{data=models.Project} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var company models.Company
	if err := database.DB.First(&company, req.CompanyID).Error; err != nil {
		BadRequest(c, "公司不存在")
		return
	}

	if req.Status == "" {
		req.Status = models.ProjectStatusPlanning
	}
	if !models.IsValidProjectStatus(req.Status) {
		BadRequest(c, "无效的项目状态")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return
	}

	project := models.Project{
		CompanyID:   req.CompanyID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      req.Status,
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      &models.ProjectBudget{Currency: "CNY"},
	}

	if err := database.DB.Create(&project).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建项目失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", project)
}

// List 获取项目列表
// @Summary 获取项目列表
// @Description 获取项目列表，支持分页、公司、状态与名称关键字筛选
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param company_id query int false "公司ID"
// @Param status query string false "状态筛选"
// @Param keyword query string false "名称关键字"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Project}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var req ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Project{})
	if req.CompanyID > 0 {
		query = query.Where("company_id = ?", req.CompanyID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+req.Keyword+"%")
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Budget").Order("id DESC").Offset(offset).Limit(req.PageSize).Find(&projects).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     projects,
	})
}

// Get 获取项目详情
// @Summary 获取项目详情
// @Description 根据ID获取项目详情，含完整预算（资源与费用）
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 200 {object} Response{data=models.Project} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var project models.Project
	if err := database.DB.Preload("Budget.Resources").Preload("Budget.Expenses").First(&project, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, project)
}

// Update 更新项目
// @Summary 更新项目
// @Description 更新项目基础信息（预算通过预算接口维护）
// @Tags 项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param request body ProjectRequest true "项目信息"
// @Success 200 {object} Response{data=models.Project} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Status != "" && !models.IsValidProjectStatus(req.Status) {
		BadRequest(c, "无效的项目状态")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return
	}

	project.CompanyID = req.CompanyID
	project.Name = strings.TrimSpace(req.Name)
	project.Description = req.Description
	if req.Status != "" {
		project.Status = req.Status
	}
	if startDate != nil {
		project.StartDate = startDate
	}
	if endDate != nil {
		project.EndDate = endDate
	}

	if err := database.DB.Save(&project).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新项目失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", project)
}

// Delete 删除项目
// @Summary 删除项目
// @Description 删除指定的项目
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	if err := database.DB.Delete(&project).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除项目失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// UpdateBudget 更新预算参数
// @Summary 更新项目预算参数
// @Description 更新收入、应急/管理费率与币种，并重算全部派生字段
// @Tags 项目预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param request body BudgetRequest true "预算参数"
// @Success 200 {object} Response{data=models.ProjectBudget} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id}/budget [put]
func (h *ProjectHandler) UpdateBudget(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	budget, err := loadBudget(uint(id))
	if err != nil {
		NotFound(c, "项目预算不存在")
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	budget.TotalRevenue = req.TotalRevenue
	budget.ContingencyPercentage = req.ContingencyPercentage
	budget.OverheadPercentage = req.OverheadPercentage
	if req.Currency != "" {
		budget.Currency = req.Currency
	}

	if err := recalcBudget(budget); err != nil {
		InternalError(c, SafeErrorMessage(err, "更新预算失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", budget)
}

// validateResourceRequest 按计费方式校验资源的费率与分配量
func validateResourceRequest(req *ResourceRequest) string {
	if req.Type == "" {
		req.Type = models.ResourceTypeInternal
	}
	if !models.IsValidResourceType(req.Type) {
		return "无效的资源类型"
	}
	if req.RateType == "" {
		req.RateType = models.RateTypeHourly
	}
	if !models.IsValidRateType(req.RateType) {
		return "无效的计费方式"
	}
	if req.RateType == models.RateTypeHourly {
		if req.HourlyRate <= 0 {
			return "小时费率必须大于 0"
		}
		if req.HoursAllocated <= 0 {
			return "分配小时数必须大于 0"
		}
	} else {
		if req.DailyRate <= 0 {
			return "日费率必须大于 0"
		}
		if req.DaysAllocated <= 0 {
			return "分配天数必须大于 0"
		}
	}
	return ""
}

// AddResource 新增预算资源
// @Summary 新增预算资源
// @Description 向项目预算添加人力资源并重算预算
// @Tags 项目预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param request body ResourceRequest true "资源信息"
// @Success 200 {object} Response{data=models.ProjectResource} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id}/resources [post]
func (h *ProjectHandler) AddResource(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	budget, err := loadBudget(uint(id))
	if err != nil {
		NotFound(c, "项目预算不存在")
		return
	}

	var req ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if msg := validateResourceRequest(&req); msg != "" {
		BadRequest(c, msg)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return
	}

	resource := models.ProjectResource{
		BudgetID:       budget.ID,
		Name:           strings.TrimSpace(req.Name),
		Type:           req.Type,
		Role:           req.Role,
		RateType:       req.RateType,
		HourlyRate:     req.HourlyRate,
		DailyRate:      req.DailyRate,
		Currency:       req.Currency,
		HoursAllocated: req.HoursAllocated,
		DaysAllocated:  req.DaysAllocated,
		StartDate:      startDate,
		EndDate:        endDate,
		Skills:         req.Skills,
		Notes:          req.Notes,
	}
	if resource.Currency == "" {
		resource.Currency = budget.Currency
	}
	// 天计费立即回算小时费率，保持规范费率一致
	service.SyncDailyRate(&resource)

	if err := database.DB.Create(&resource).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建资源失败"))
		return
	}

	budget.Resources = append(budget.Resources, resource)
	if err := recalcBudget(budget); err != nil {
		InternalError(c, SafeErrorMessage(err, "重算预算失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", resource)
}

// UpdateResource 更新预算资源
// @Summary 更新预算资源
// @Description 更新资源并重算预算；rate_type 变化时按 8 小时工作日换算费率与分配量
// @Tags 项目预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param rid path int true "资源ID"
// @Param request body ResourceRequest true "资源信息"
// @Success 200 {object} Response{data=models.ProjectResource} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id}/resources/{rid} [put]
func (h *ProjectHandler) UpdateResource(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	rid, err := strconv.ParseUint(c.Param("rid"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的资源ID")
		return
	}

	budget, err := loadBudget(uint(id))
	if err != nil {
		NotFound(c, "项目预算不存在")
		return
	}

	var resource models.ProjectResource
	if err := database.DB.Where("id = ? AND budget_id = ?", rid, budget.ID).First(&resource).Error; err != nil {
		NotFound(c, "资源不存在")
		return
	}

	var req ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return
	}

	resource.Name = strings.TrimSpace(req.Name)
	if req.Role != "" {
		resource.Role = req.Role
	}
	if req.Type != "" {
		if !models.IsValidResourceType(req.Type) {
			BadRequest(c, "无效的资源类型")
			return
		}
		resource.Type = req.Type
	}
	if startDate != nil {
		resource.StartDate = startDate
	}
	if endDate != nil {
		resource.EndDate = endDate
	}
	resource.Skills = req.Skills
	resource.Notes = req.Notes

	if req.RateType != "" && req.RateType != resource.RateType {
		// 切换计费方式：由当前规范值换算，忽略请求中的费率/分配量
		if err := service.SwitchRateType(&resource, req.RateType); err != nil {
			BadRequest(c, err.Error())
			return
		}
	} else {
		req.RateType = resource.RateType
		if msg := validateResourceRequest(&req); msg != "" {
			BadRequest(c, msg)
			return
		}
		resource.HourlyRate = req.HourlyRate
		resource.DailyRate = req.DailyRate
		resource.HoursAllocated = req.HoursAllocated
		resource.DaysAllocated = req.DaysAllocated
		service.SyncDailyRate(&resource)
	}

	if err := database.DB.Save(&resource).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新资源失败"))
		return
	}

	// 用更新后的资源重算预算
	for i := range budget.Resources {
		if budget.Resources[i].ID == resource.ID {
			budget.Resources[i] = resource
		}
	}
	if err := recalcBudget(budget); err != nil {
		InternalError(c, SafeErrorMessage(err, "重算预算失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", resource)
}

// DeleteResource 删除预算资源
// @Summary 删除预算资源
// @Description 删除资源并重算预算
// @Tags 项目预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param rid path int true "资源ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id}/resources/{rid} [delete]
func (h *ProjectHandler) DeleteResource(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	rid, err := strconv.ParseUint(c.Param("rid"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的资源ID")
		return
	}

	budget, err := loadBudget(uint(id))
	if err != nil {
		NotFound(c, "项目预算不存在")
		return
	}

	var resource models.ProjectResource
	if err := database.DB.Where("id = ? AND budget_id = ?", rid, budget.ID).First(&resource).Error; err != nil {
		NotFound(c, "资源不存在")
		return
	}

	if err := database.DB.Delete(&resource).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除资源失败"))
		return
	}

	remaining := budget.Resources[:0]
	for _, r := range budget.Resources {
		if r.ID != resource.ID {
			remaining = append(remaining, r)
		}
	}
	budget.Resources = remaining
	if err := recalcBudget(budget); err != nil {
		InternalError(c, SafeErrorMessage(err, "重算预算失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// AddExpense 新增预算费用
// @Summary 新增预算费用
// @Description 向项目预算添加费用并重算预算
// @Tags 项目预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param request body ExpenseRequest true "费用信息"
// @Success 200 {object} Response{data=models.ProjectExpense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id}/expenses [post]
func (h *ProjectHandler) AddExpense(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	budget, err := loadBudget(uint(id))
	if err != nil {
		NotFound(c, "项目预算不存在")
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Category == "" {
		req.Category = models.ExpenseCategoryOther
	}
	if !models.IsValidExpenseCategory(req.Category) {
		BadRequest(c, "无效的费用类别")
		return
	}
	if req.Status == "" {
		req.Status = models.ExpenseStatusPlanned
	}
	if !models.IsValidExpenseStatus(req.Status) {
		BadRequest(c, "无效的费用状态")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		BadRequest(c, "到期日期格式错误，应为: 2006-01-02")
		return
	}

	expense := models.ProjectExpense{
		BudgetID:    budget.ID,
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		PlannedCost: req.PlannedCost,
		ActualCost:  req.ActualCost,
		Currency:    req.Currency,
		Status:      req.Status,
		DueDate:     dueDate,
		Vendor:      req.Vendor,
	}
	if expense.Currency == "" {
		expense.Currency = budget.Currency
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建费用失败"))
		return
	}

	budget.Expenses = append(budget.Expenses, expense)
	if err := recalcBudget(budget); err != nil {
		InternalError(c, SafeErrorMessage(err, "重算预算失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", expense)
}

// UpdateExpense 更新预算费用
// @Summary 更新预算费用
// @Description 更新费用并重算预算
// @Tags 项目预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param eid path int true "费用ID"
// @Param request body ExpenseRequest true "费用信息"
// @Success 200 {object} Response{data=models.ProjectExpense} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id}/expenses/{eid} [put]
func (h *ProjectHandler) UpdateExpense(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	eid, err := strconv.ParseUint(c.Param("eid"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的费用ID")
		return
	}

	budget, err := loadBudget(uint(id))
	if err != nil {
		NotFound(c, "项目预算不存在")
		return
	}

	var expense models.ProjectExpense
	if err := database.DB.Where("id = ? AND budget_id = ?", eid, budget.ID).First(&expense).Error; err != nil {
		NotFound(c, "费用不存在")
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Category != "" {
		if !models.IsValidExpenseCategory(req.Category) {
			BadRequest(c, "无效的费用类别")
			return
		}
		expense.Category = req.Category
	}
	if req.Status != "" {
		if !models.IsValidExpenseStatus(req.Status) {
			BadRequest(c, "无效的费用状态")
			return
		}
		expense.Status = req.Status
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		BadRequest(c, "到期日期格式错误，应为: 2006-01-02")
		return
	}
	if dueDate != nil {
		expense.DueDate = dueDate
	}

	expense.Description = strings.TrimSpace(req.Description)
	expense.PlannedCost = req.PlannedCost
	if req.ActualCost != nil {
		expense.ActualCost = req.ActualCost
	}
	if req.Currency != "" {
		expense.Currency = req.Currency
	}
	expense.Vendor = req.Vendor

	if err := database.DB.Save(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新费用失败"))
		return
	}

	for i := range budget.Expenses {
		if budget.Expenses[i].ID == expense.ID {
			budget.Expenses[i] = expense
		}
	}
	if err := recalcBudget(budget); err != nil {
		InternalError(c, SafeErrorMessage(err, "重算预算失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", expense)
}

// DeleteExpense 删除预算费用
// @Summary 删除预算费用
// @Description 删除费用并重算预算
// @Tags 项目预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param eid path int true "费用ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/projects/{id}/expenses/{eid} [delete]
func (h *ProjectHandler) DeleteExpense(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	eid, err := strconv.ParseUint(c.Param("eid"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的费用ID")
		return
	}

	budget, err := loadBudget(uint(id))
	if err != nil {
		NotFound(c, "项目预算不存在")
		return
	}

	var expense models.ProjectExpense
	if err := database.DB.Where("id = ? AND budget_id = ?", eid, budget.ID).First(&expense).Error; err != nil {
		NotFound(c, "费用不存在")
		return
	}

	if err := database.DB.Delete(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除费用失败"))
		return
	}

	remaining := budget.Expenses[:0]
	for _, e := range budget.Expenses {
		if e.ID != expense.ID {
			remaining = append(remaining, e)
		}
	}
	budget.Expenses = remaining
	if err := recalcBudget(budget); err != nil {
		InternalError(c, SafeErrorMessage(err, "重算预算失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
