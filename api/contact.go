package api

import (
	"strconv"
	"strings"

	"crm/database"
	"crm/models"

	"github.com/gin-gonic/gin"
)

// ContactHandler 联系人处理器
type ContactHandler struct{}

// NewContactHandler 创建联系人处理器
func NewContactHandler() *ContactHandler {
	return &ContactHandler{}
}

// ContactRequest 创建/更新联系人请求
type ContactRequest struct {
	CompanyID uint   `json:"company_id" binding:"required" example:"1"`
	Name      string `json:"name" binding:"required,max=100" example:"王小明"`
	Role      string `json:"role" example:"采购负责人"`
	Email     string `json:"email" binding:"omitempty,email" example:"wang@example.com"`
	Phone     string `json:"phone" example:"13800000000"`
	Notes     string `json:"notes"`
}

// ContactListRequest 联系人列表请求
type ContactListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	CompanyID uint   `form:"company_id" example:"1"`
	Keyword   string `form:"keyword" example:"王"`
}

// Create 创建联系人
// @Summary 创建联系人
// @Description 为指定公司创建联系人
// @Tags 联系人
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ContactRequest true "联系人信息"
// @Success 200 {object} Response{data=models.Contact} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 校验公司存在
	var company models.Company
	if err := database.DB.First(&company, req.CompanyID).Error; err != nil {
		BadRequest(c, "公司不存在")
		return
	}

	contact := models.Contact{
		CompanyID: req.CompanyID,
		Name:      strings.TrimSpace(req.Name),
		Role:      req.Role,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	}

	if err := database.DB.Create(&contact).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建联系人失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", contact)
}

// List 获取联系人列表
// @Summary 获取联系人列表
// @Description 获取联系人列表，支持分页、公司与姓名关键字筛选
// @Tags 联系人
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param company_id query int false "公司ID"
// @Param keyword query string false "姓名关键字"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Contact}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	var req ContactListRequest
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

	query := database.DB.Model(&models.Contact{})
	if req.CompanyID > 0 {
		query = query.Where("company_id = ?", req.CompanyID)
	}
	if req.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+req.Keyword+"%")
	}

	var total int64
	query.Count(&total)

	var contacts []models.Contact
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("id DESC").Offset(offset).Limit(req.PageSize).Find(&contacts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     contacts,
	})
}

// Get 获取单个联系人
// @Summary 获取联系人详情
// @Description 根据ID获取联系人详情
// @Tags 联系人
// @Produce json
// @Security BearerAuth
// @Param id path int true "联系人ID"
// @Success 200 {object} Response{data=models.Contact} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var contact models.Contact
	if err := database.DB.First(&contact, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, contact)
}

// Update 更新联系人
// @Summary 更新联系人
// @Description 更新指定的联系人
// @Tags 联系人
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "联系人ID"
// @Param request body ContactRequest true "联系人信息"
// @Success 200 {object} Response{data=models.Contact} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var contact models.Contact
	if err := database.DB.First(&contact, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.CompanyID != contact.CompanyID {
		var company models.Company
		if err := database.DB.First(&company, req.CompanyID).Error; err != nil {
			BadRequest(c, "公司不存在")
			return
		}
	}

	contact.CompanyID = req.CompanyID
	contact.Name = strings.TrimSpace(req.Name)
	contact.Role = req.Role
	contact.Email = req.Email
	contact.Phone = req.Phone
	contact.Notes = req.Notes

	if err := database.DB.Save(&contact).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新联系人失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", contact)
}

// Delete 删除联系人
// @Summary 删除联系人
// @Description 删除指定的联系人
// @Tags 联系人
// @Produce json
// @Security BearerAuth
// @Param id path int true "联系人ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var contact models.Contact
	if err := database.DB.First(&contact, id).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	if err := database.DB.Delete(&contact).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除联系人失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
