package api

import (
	"strconv"
	"strings"

	"crm/database"
	"crm/models"

	"github.com/gin-gonic/gin"
)

// CompanyHandler 客户公司处理器
type CompanyHandler struct{}

// NewCompanyHandler 创建客户公司处理器
func NewCompanyHandler() *CompanyHandler {
	return &CompanyHandler{}
}

// CompanyRequest 创建/更新公司请求
type CompanyRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"示例科技"`
	Industry string `json:"industry" example:"软件"`
	Website  string `json:"website" example:"https://example.com"`
	Phone    string `json:"phone" example:"021-12345678"`
	Email    string `json:"email" binding:"omitempty,email" example:"hello@example.com"`
	Address  string `json:"address" example:"上海市浦东新区"`
	Notes    string `json:"notes"`
}

// CompanyListRequest 公司列表请求
type CompanyListRequest struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" example:"10"`
	Keyword  string `form:"keyword" example:"科技"`
	Industry string `form:"industry" example:"软件"`
}

// Create 创建公司
// @Summary 创建公司
// @Description 创建一个新的客户公司
// @Tags 客户公司
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CompanyRequest true "公司信息"
// @Success 200 {object} Response{data=models.Company} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "公司名称不能为空")
		return
	}

	company := models.Company{
		Name:     req.Name,
		Industry: req.Industry,
		Website:  req.Website,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Notes:    req.Notes,
	}

	if err := database.DB.Create(&company).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建公司失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", company)
}

// List 获取公司列表
// @Summary 获取公司列表
// @Description 获取客户公司列表，支持分页、名称关键字和行业筛选
// @Tags 客户公司
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param keyword query string false "名称关键字"
// @Param industry query string false "行业筛选"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Company}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	var req CompanyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Company{})
	if req.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+req.Keyword+"%")
	}
	if req.Industry != "" {
		query = query.Where("industry = ?", req.Industry)
	}

	var total int64
	query.Count(&total)

	var companies []models.Company
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("id DESC").Offset(offset).Limit(req.PageSize).Find(&companies).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     companies,
	})
}

// Get 获取单个公司
// @Summary 获取公司详情
// @Description 根据ID获取公司详情
// @Tags 客户公司
// @Produce json
// @Security BearerAuth
// @Param id path int true "公司ID"
// @Success 200 {object} Response{data=models.Company} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/companies/{id} [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var company models.Company
	if err := database.DB.First(&company, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, company)
}

// Update 更新公司
// @Summary 更新公司
// @Description 更新指定的客户公司
// @Tags 客户公司
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "公司ID"
// @Param request body CompanyRequest true "公司信息"
// @Success 200 {object} Response{data=models.Company} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/companies/{id} [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var company models.Company
	if err := database.DB.First(&company, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	company.Name = strings.TrimSpace(req.Name)
	company.Industry = req.Industry
	company.Website = req.Website
	company.Phone = req.Phone
	company.Email = req.Email
	company.Address = req.Address
	company.Notes = req.Notes

	if err := database.DB.Save(&company).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新公司失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", company)
}

// Delete 删除公司
// @Summary 删除公司
// @Description 删除指定的客户公司
// @Tags 客户公司
// @Produce json
// @Security BearerAuth
// @Param id path int true "公司ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var company models.Company
	if err := database.DB.First(&company, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	if err := database.DB.Delete(&company).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除公司失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
