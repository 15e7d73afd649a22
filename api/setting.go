package api

import (
	"crm/database"
	"crm/middleware"
	"crm/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// SettingHandler 设置处理器
type SettingHandler struct{}

// NewSettingHandler 创建设置处理器
func NewSettingHandler() *SettingHandler {
	return &SettingHandler{}
}

// SettingRequest 写入设置请求
type SettingRequest struct {
	Key   string `json:"key" binding:"required,max=50" example:"default_currency"`
	Value string `json:"value" binding:"max=1000" example:"CNY"`
}

// List 获取当前用户全部设置
// @Summary 获取设置
// @Description 获取当前用户的全部键值设置
// @Tags 设置
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=map[string]string} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/settings [get]
func (h *SettingHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var settings []models.Setting
	if err := database.DB.Where("user_id = ?", userID).Find(&settings).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}

	Success(c, result)
}

// Put 写入单个设置
// @Summary 写入设置
// @Description 写入当前用户的单个键值设置，已存在则覆盖
// @Tags 设置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SettingRequest true "键值"
// @Success 200 {object} Response{data=models.Setting} "保存成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/settings [put]
func (h *SettingHandler) Put(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	setting := models.Setting{
		UserID: userID,
		Key:    req.Key,
		Value:  req.Value,
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "保存设置失败"))
		return
	}

	SuccessWithMessage(c, "保存成功", setting)
}
