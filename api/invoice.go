package api

import (
	"strconv"
	"strings"
	"time"

	"crm/database"
	"crm/models"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler 发票处理器
type InvoiceHandler struct{}

// NewInvoiceHandler 创建发票处理器
func NewInvoiceHandler() *InvoiceHandler {
	return &InvoiceHandler{}
}

// InvoiceItemRequest 发票明细行
type InvoiceItemRequest struct {
	Description string  `json:"description" binding:"required,max=255" example:"一月开发工时"`
	Quantity    float64 `json:"quantity" binding:"gt=0" example:"40"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0" example:"100"`
}

// InvoiceRequest 创建/更新发票请求
type InvoiceRequest struct {
	Number    string               `json:"number" binding:"required,max=50" example:"INV-2024-001"`
	CompanyID uint                 `json:"company_id" binding:"required" example:"1"`
	ProjectID *uint                `json:"project_id,omitempty" example:"1"`
	Amount    float64              `json:"amount" binding:"gte=0" example:"4000"`
	Currency  string               `json:"currency" example:"CNY"`
	Status    string               `json:"status" example:"draft"`
	IssueDate string               `json:"issue_date" example:"2024-02-01"`
	DueDate   string               `json:"due_date" example:"2024-03-01"`
	Notes     string               `json:"notes"`
	Items     []InvoiceItemRequest `json:"items"`
}

// InvoiceListRequest 发票列表请求
type InvoiceListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	CompanyID uint   `form:"company_id" example:"1"`
	Status    string `form:"status" example:"sent"`
}

// invoiceAmount 金额取明细合计，没有明细时用请求金额
func invoiceAmount(req *InvoiceRequest) float64 {
	if len(req.Items) == 0 {
		return req.Amount
	}
	var sum float64
	for _, item := range req.Items {
		sum += item.Quantity * item.UnitPrice
	}
	return sum
}

// Create 创建发票
// @Summary 创建发票
// @Description 创建发票，含明细时金额按明细合计
// @Tags 发票
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InvoiceRequest true "发票信息"
// @Success 200 {object} Response{data=models.Invoice} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var company models.Company
	if err := database.DB.First(&company, req.CompanyID).Error; err != nil {
		BadRequest(c, "公司不存在")
		return
	}
	if req.ProjectID != nil {
		var project models.Project
		if err := database.DB.First(&project, *req.ProjectID).Error; err != nil {
			BadRequest(c, "项目不存在")
			return
		}
	}

	if req.Status == "" {
		req.Status = models.InvoiceStatusDraft
	}
	if !models.IsValidInvoiceStatus(req.Status) {
		BadRequest(c, "无效的发票状态")
		return
	}

	var count int64
	database.DB.Model(&models.Invoice{}).Where("number = ?", req.Number).Count(&count)
	if count > 0 {
		BadRequest(c, "发票编号已存在")
		return
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		BadRequest(c, "开票日期格式错误，应为: 2006-01-02")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		BadRequest(c, "到期日期格式错误，应为: 2006-01-02")
		return
	}

	invoice := models.Invoice{
		Number:    strings.TrimSpace(req.Number),
		CompanyID: req.CompanyID,
		ProjectID: req.ProjectID,
		Amount:    invoiceAmount(&req),
		Currency:  req.Currency,
		Status:    req.Status,
		IssueDate: time.Now(),
		DueDate:   dueDate,
		Notes:     req.Notes,
	}
	if invoice.Currency == "" {
		invoice.Currency = "CNY"
	}
	if issueDate != nil {
		invoice.IssueDate = *issueDate
	}
	for _, item := range req.Items {
		invoice.Items = append(invoice.Items, models.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	if err := database.DB.Create(&invoice).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建发票失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", invoice)
}

// List 获取发票列表
// @Summary 获取发票列表
// @Description 获取发票列表，支持分页、公司与状态筛选
// @Tags 发票
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param company_id query int false "公司ID"
// @Param status query string false "状态筛选"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Invoice}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var req InvoiceListRequest
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

	query := database.DB.Model(&models.Invoice{})
	if req.CompanyID > 0 {
		query = query.Where("company_id = ?", req.CompanyID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	query.Count(&total)

	var invoices []models.Invoice
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("id DESC").Offset(offset).Limit(req.PageSize).Find(&invoices).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     invoices,
	})
}

// Get 获取发票详情
// @Summary 获取发票详情
// @Description 根据ID获取发票详情，含明细行
// @Tags 发票
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} Response{data=models.Invoice} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var invoice models.Invoice
	if err := database.DB.Preload("Items").First(&invoice, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, invoice)
}

// Update 更新发票
// @Summary 更新发票
// @Description 更新发票，明细整体替换，金额按明细合计重算
// @Tags 发票
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Param request body InvoiceRequest true "发票信息"
// @Success 200 {object} Response{data=models.Invoice} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var invoice models.Invoice
	if err := database.DB.First(&invoice, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Status != "" && !models.IsValidInvoiceStatus(req.Status) {
		BadRequest(c, "无效的发票状态")
		return
	}

	if req.Number != invoice.Number {
		var count int64
		database.DB.Model(&models.Invoice{}).Where("number = ? AND id <> ?", req.Number, invoice.ID).Count(&count)
		if count > 0 {
			BadRequest(c, "发票编号已存在")
			return
		}
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		BadRequest(c, "开票日期格式错误，应为: 2006-01-02")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		BadRequest(c, "到期日期格式错误，应为: 2006-01-02")
		return
	}

	invoice.Number = strings.TrimSpace(req.Number)
	invoice.CompanyID = req.CompanyID
	invoice.ProjectID = req.ProjectID
	invoice.Amount = invoiceAmount(&req)
	if req.Currency != "" {
		invoice.Currency = req.Currency
	}
	if req.Status != "" {
		invoice.Status = req.Status
	}
	if issueDate != nil {
		invoice.IssueDate = *issueDate
	}
	if dueDate != nil {
		invoice.DueDate = dueDate
	}
	invoice.Notes = req.Notes

	// 明细整体替换
	if err := database.DB.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新发票失败"))
		return
	}
	invoice.Items = nil
	for _, item := range req.Items {
		invoice.Items = append(invoice.Items, models.InvoiceItem{
			InvoiceID:   invoice.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	if err := database.DB.Save(&invoice).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新发票失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", invoice)
}

// Delete 删除发票
// @Summary 删除发票
// @Description 删除指定的发票
// @Tags 发票
// @Produce json
// @Security BearerAuth
// @Param id path int true "发票ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var invoice models.Invoice
	if err := database.DB.First(&invoice, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	if err := database.DB.Delete(&invoice).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除发票失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// GetStatuses 获取发票状态列表
// @Summary 获取发票状态列表
// @Description 获取发票的全部可用状态
// @Tags 发票
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]string} "获取成功"
// @Router /api/v1/invoices/statuses [get]
func (h *InvoiceHandler) GetStatuses(c *gin.Context) {
	Success(c, models.GetInvoiceStatuses())
}
