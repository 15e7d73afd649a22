package api

import (
	"strconv"
	"strings"
	"time"

	"crm/database"
	"crm/models"

	"github.com/gin-gonic/gin"
)

// DealHandler 商机处理器
type DealHandler struct{}

// NewDealHandler 创建商机处理器
func NewDealHandler() *DealHandler {
	return &DealHandler{}
}

// DealRequest 创建/更新商机请求
type DealRequest struct {
	CompanyID         uint    `json:"company_id" binding:"required" example:"1"`
	Title             string  `json:"title" binding:"required,max=100" example:"官网改版项目"`
	Value             float64 `json:"value" binding:"omitempty,gte=0" example:"50000"`
	Currency          string  `json:"currency" example:"CNY"`
	Stage             string  `json:"stage" example:"lead"`
	ExpectedCloseDate string  `json:"expected_close_date" example:"2024-06-30"`
	Notes             string  `json:"notes"`
}

// DealListRequest 商机列表请求
type DealListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	CompanyID uint   `form:"company_id" example:"1"`
	Stage     string `form:"stage" example:"proposal"`
}

// GetStages 获取所有商机阶段
// @Summary 获取商机阶段列表
// @Description 获取商机的所有可用阶段
// @Tags 商机
// @Produce json
// @Success 200 {object} Response{data=[]string} "获取成功"
// @Router /api/v1/deals/stages [get]
func (h *DealHandler) GetStages(c *gin.Context) {
	Success(c, models.GetDealStages())
}

// Create 创建商机
// @Summary 创建商机
// @Description 为指定公司创建商机
// @Tags 商机
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DealRequest true "商机信息"
// @Success 200 {object} Response{data=models.Deal} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	var req DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var company models.Company
	if err := database.DB.First(&company, req.CompanyID).Error; err != nil {
		BadRequest(c, "公司不存在")
		return
	}

	if req.Stage == "" {
		req.Stage = models.DealStageLead
	}
	if !models.IsValidDealStage(req.Stage) {
		BadRequest(c, "无效的商机阶段")
		return
	}

	deal := models.Deal{
		CompanyID: req.CompanyID,
		Title:     strings.TrimSpace(req.Title),
		Value:     req.Value,
		Currency:  req.Currency,
		Stage:     req.Stage,
		Notes:     req.Notes,
	}

	if req.ExpectedCloseDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.ExpectedCloseDate, time.Local)
		if err != nil {
			BadRequest(c, "预计成交日期格式错误，应为: 2006-01-02")
			return
		}
		deal.ExpectedCloseDate = &t
	}

	if err := database.DB.Create(&deal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建商机失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", deal)
}

// List 获取商机列表
// @Summary 获取商机列表
// @Description 获取商机列表，支持分页、公司与阶段筛选
// @Tags 商机
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param company_id query int false "公司ID"
// @Param stage query string false "阶段筛选"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Deal}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/deals [get]
func (h *DealHandler) List(c *gin.Context) {
	var req DealListRequest
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

	query := database.DB.Model(&models.Deal{})
	if req.CompanyID > 0 {
		query = query.Where("company_id = ?", req.CompanyID)
	}
	if req.Stage != "" {
		query = query.Where("stage = ?", req.Stage)
	}

	var total int64
	query.Count(&total)

	var deals []models.Deal
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("id DESC").Offset(offset).Limit(req.PageSize).Find(&deals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     deals,
	})
}

// Get 获取单个商机
// @Summary 获取商机详情
// @Description 根据ID获取商机详情
// @Tags 商机
// @Produce json
// @Security BearerAuth
// @Param id path int true "商机ID"
// @Success 200 {object} Response{data=models.Deal} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/deals/{id} [get]
func (h *DealHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var deal models.Deal
	if err := database.DB.First(&deal, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, deal)
}

// Update 更新商机
// @Summary 更新商机
// @Description 更新指定的商机
// @Tags 商机
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "商机ID"
// @Param request body DealRequest true "商机信息"
// @Success 200 {object} Response{data=models.Deal} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/deals/{id} [put]
func (h *DealHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var deal models.Deal
	if err := database.DB.First(&deal, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Stage != "" && !models.IsValidDealStage(req.Stage) {
		BadRequest(c, "无效的商机阶段")
		return
	}

	deal.CompanyID = req.CompanyID
	deal.Title = strings.TrimSpace(req.Title)
	deal.Value = req.Value
	if req.Currency != "" {
		deal.Currency = req.Currency
	}
	if req.Stage != "" {
		deal.Stage = req.Stage
	}
	deal.Notes = req.Notes

	if req.ExpectedCloseDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.ExpectedCloseDate, time.Local)
		if err != nil {
			BadRequest(c, "预计成交日期格式错误，应为: 2006-01-02")
			return
		}
		deal.ExpectedCloseDate = &t
	}

	if err := database.DB.Save(&deal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新商机失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", deal)
}

// Delete 删除商机
// @Summary 删除商机
// @Description 删除指定的商机
// @Tags 商机
// @Produce json
// @Security BearerAuth
// @Param id path int true "商机ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/deals/{id} [delete]
func (h *DealHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var deal models.Deal
	if err := database.DB.First(&deal, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	if err := database.DB.Delete(&deal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除商机失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
