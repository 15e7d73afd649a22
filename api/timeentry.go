package api

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"crm/database"
	"crm/middleware"
	"crm/models"
	"crm/service"

	"github.com/gin-gonic/gin"
)

// TimeEntryHandler 工时处理器
// 计时器是内存态，按用户隔离，落库动作只发生在停止计时的那一刻
type TimeEntryHandler struct {
	mu     sync.Mutex
	timers map[uint]*service.Timer
}

// NewTimeEntryHandler 创建工时处理器
func NewTimeEntryHandler() *TimeEntryHandler {
	return &TimeEntryHandler{
		timers: make(map[uint]*service.Timer),
	}
}

// timerFor 获取当前用户的计时器，没有则初始化
func (h *TimeEntryHandler) timerFor(userID uint) *service.Timer {
	t, ok := h.timers[userID]
	if !ok {
		t = &service.Timer{}
		h.timers[userID] = t
	}
	return t
}

// TimeEntryRequest 创建工时记录请求
type TimeEntryRequest struct {
	ProjectID    uint   `json:"project_id" binding:"required" example:"1"`
	ResourceName string `json:"resource_name" binding:"required,max=100" example:"张三"`
	Description  string `json:"description" example:"接口联调"`
	StartTime    string `json:"start_time" example:"2024-01-03 09:00:00"`
	EndTime      string `json:"end_time" example:"2024-01-03 11:30:00"`
	Duration     int    `json:"duration" example:"150"`
	Date         string `json:"date" example:"2024-01-03"`
	Tags         string `json:"tags" example:"开发,联调"`
}

// TimeEntryUpdateRequest 更新工时记录请求
type TimeEntryUpdateRequest struct {
	ResourceName string `json:"resource_name" example:"李四"`
	Description  string `json:"description"`
	StartTime    string `json:"start_time" example:"2024-01-03 09:00:00"`
	EndTime      string `json:"end_time" example:"2024-01-03 11:30:00"`
	Duration     int    `json:"duration" example:"150"`
	Date         string `json:"date" example:"2024-01-03"`
	Tags         string `json:"tags"`
}

// TimeEntryListRequest 工时列表请求
type TimeEntryListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	ProjectID uint   `form:"project_id" example:"1"`
	StartDate string `form:"start_date" example:"2024-01-01"`
	EndDate   string `form:"end_date" example:"2024-01-31"`
	Billable  string `form:"billable" example:"true"`
}

// TimerStartRequest 开始计时请求
type TimerStartRequest struct {
	ProjectID    uint   `json:"project_id" binding:"required" example:"1"`
	ResourceName string `json:"resource_name" binding:"required,max=100" example:"张三"`
	Description  string `json:"description" example:"需求评审"`
}

// TimerDescriptionRequest 更新计时描述请求
type TimerDescriptionRequest struct {
	Description string `json:"description" binding:"required" example:"需求评审"`
}

// TimerStatus 计时器状态响应
type TimerStatus struct {
	State          string `json:"state"`
	ProjectID      uint   `json:"project_id,omitempty"`
	ResourceName   string `json:"resource_name,omitempty"`
	Description    string `json:"description,omitempty"`
	StartTime      string `json:"start_time,omitempty"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
}

// parseDateTime 解析 YYYY-MM-DD HH:MM:SS 时间，空串返回 nil
func parseDateTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// loadProjectResources 加载项目的预算资源列表
func loadProjectResources(projectID uint) ([]models.ProjectResource, error) {
	var project models.Project
	if err := database.DB.Preload("Budget.Resources").First(&project, projectID).Error; err != nil {
		return nil, err
	}
	if project.Budget == nil {
		return nil, nil
	}
	return project.Budget.Resources, nil
}

// entryDate 确定工时记录的归属日期：显式日期 > 开始时间当天 > 今天
func entryDate(dateStr string, startTime *time.Time) (time.Time, error) {
	if dateStr != "" {
		return time.ParseInLocation("2006-01-02", dateStr, time.Local)
	}
	base := time.Now()
	if startTime != nil {
		base = *startTime
	}
	return time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.Local), nil
}

// Create 创建工时记录
// @Summary 创建工时记录
// @Description 手工录入工时，资源名必须匹配项目预算中的资源，费率在创建时快照
// @Tags 工时
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TimeEntryRequest true "工时信息"
// @Success 200 {object} Response{data=models.TimeEntry} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/time-entries [post]
func (h *TimeEntryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	resources, err := loadProjectResources(req.ProjectID)
	if err != nil {
		BadRequest(c, "项目不存在")
		return
	}

	startTime, err := parseDateTime(req.StartTime)
	if err != nil {
		BadRequest(c, "开始时间格式错误，应为: 2006-01-02 15:04:05")
		return
	}
	endTime, err := parseDateTime(req.EndTime)
	if err != nil {
		BadRequest(c, "结束时间格式错误，应为: 2006-01-02 15:04:05")
		return
	}

	duration, err := service.ResolveDuration(startTime, endTime, req.Duration)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	date, err := entryDate(req.Date, startTime)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	entry := models.TimeEntry{
		UserID:       userID,
		ProjectID:    req.ProjectID,
		ResourceName: strings.TrimSpace(req.ResourceName),
		Description:  req.Description,
		StartTime:    startTime,
		EndTime:      endTime,
		Duration:     duration,
		Date:         date,
		Tags:         req.Tags,
	}

	if err := service.BindResource(resources, &entry); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建工时记录失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", entry)
}

// List 获取工时列表
// @Summary 获取工时列表
// @Description 获取当前用户的工时记录，支持分页、项目、日期区间与计费状态筛选
// @Tags 工时
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param project_id query int false "项目ID"
// @Param start_date query string false "开始日期" example(2024-01-01)
// @Param end_date query string false "结束日期" example(2024-01-31)
// @Param billable query string false "是否计费 true/false"
// @Success 200 {object} Response{data=PageResponse{list=[]models.TimeEntry}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/time-entries [get]
func (h *TimeEntryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TimeEntryListRequest
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

	query := database.DB.Model(&models.TimeEntry{}).Where("user_id = ?", userID)
	if req.ProjectID > 0 {
		query = query.Where("project_id = ?", req.ProjectID)
	}
	if req.StartDate != "" {
		query = query.Where("date >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("date <= ?", req.EndDate)
	}
	if req.Billable != "" {
		query = query.Where("billable = ?", req.Billable == "true")
	}

	var total int64
	query.Count(&total)

	var entries []models.TimeEntry
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC, id DESC").Offset(offset).Limit(req.PageSize).Find(&entries).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     entries,
	})
}

// Get 获取工时详情
// @Summary 获取工时详情
// @Description 根据ID获取当前用户的工时记录
// @Tags 工时
// @Produce json
// @Security BearerAuth
// @Param id path int true "工时ID"
// @Success 200 {object} Response{data=models.TimeEntry} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/time-entries/{id} [get]
func (h *TimeEntryHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var entry models.TimeEntry
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, entry)
}

// Update 更新工时记录
// @Summary 更新工时记录
// @Description 更新工时记录；改绑资源名时按宽松规则处理，匹配不到则静默清除计费信息
// @Tags 工时
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "工时ID"
// @Param request body TimeEntryUpdateRequest true "工时信息"
// @Success 200 {object} Response{data=models.TimeEntry} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/time-entries/{id} [put]
func (h *TimeEntryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var entry models.TimeEntry
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req TimeEntryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	startTime, err := parseDateTime(req.StartTime)
	if err != nil {
		BadRequest(c, "开始时间格式错误，应为: 2006-01-02 15:04:05")
		return
	}
	endTime, err := parseDateTime(req.EndTime)
	if err != nil {
		BadRequest(c, "结束时间格式错误，应为: 2006-01-02 15:04:05")
		return
	}

	if startTime != nil {
		entry.StartTime = startTime
	}
	if endTime != nil {
		entry.EndTime = endTime
	}
	if startTime != nil || endTime != nil || req.Duration > 0 {
		duration, err := service.ResolveDuration(entry.StartTime, entry.EndTime, req.Duration)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		entry.Duration = duration
	}

	if req.Date != "" {
		date, err := entryDate(req.Date, entry.StartTime)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		entry.Date = date
	}

	entry.Description = req.Description
	entry.Tags = req.Tags

	if req.ResourceName != "" && req.ResourceName != entry.ResourceName {
		resources, err := loadProjectResources(entry.ProjectID)
		if err != nil {
			BadRequest(c, "项目不存在")
			return
		}
		service.RebindResource(resources, &entry, strings.TrimSpace(req.ResourceName))
	}

	if err := database.DB.Save(&entry).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新工时记录失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", entry)
}

// Delete 删除工时记录
// @Summary 删除工时记录
// @Description 删除当前用户的工时记录
// @Tags 工时
// @Produce json
// @Security BearerAuth
// @Param id path int true "工时ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/time-entries/{id} [delete]
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var entry models.TimeEntry
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	if err := database.DB.Delete(&entry).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除工时记录失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// StartTimer 开始计时
// @Summary 开始计时
// @Description 为当前用户启动计时器，资源名必须匹配项目预算中的资源
// @Tags 计时器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TimerStartRequest true "计时信息"
// @Success 200 {object} Response{data=TimerStatus} "开始成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/timer/start [post]
func (h *TimeEntryHandler) StartTimer(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TimerStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	resources, err := loadProjectResources(req.ProjectID)
	if err != nil {
		BadRequest(c, "项目不存在")
		return
	}
	if len(resources) == 0 {
		BadRequest(c, service.ErrNoResources.Error())
		return
	}
	resource := service.FindResource(resources, strings.TrimSpace(req.ResourceName))
	if resource == nil {
		BadRequest(c, service.ErrResourceNotFound.Error())
		return
	}

	h.mu.Lock()
	timer := h.timerFor(userID)
	rate := resource.HourlyRate
	err = timer.Start(req.ProjectID, resource.Name, req.Description, true, &rate, resource.Currency)
	status := timerStatus(timer)
	h.mu.Unlock()

	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	SuccessWithMessage(c, "计时已开始", status)
}

// PauseTimer 暂停计时
// @Summary 暂停计时
// @Description 暂停当前用户的计时器，恢复后总时长仍按开始时间计算
// @Tags 计时器
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=TimerStatus} "暂停成功"
// @Failure 400 {object} Response "计时器未在运行"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/timer/pause [post]
func (h *TimeEntryHandler) PauseTimer(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	h.mu.Lock()
	timer := h.timerFor(userID)
	err := timer.Pause()
	status := timerStatus(timer)
	h.mu.Unlock()

	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	SuccessWithMessage(c, "计时已暂停", status)
}

// ResumeTimer 恢复计时
// @Summary 恢复计时
// @Description 恢复当前用户已暂停的计时器
// @Tags 计时器
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=TimerStatus} "恢复成功"
// @Failure 400 {object} Response "计时器未暂停"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/timer/resume [post]
func (h *TimeEntryHandler) ResumeTimer(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	h.mu.Lock()
	timer := h.timerFor(userID)
	err := timer.Resume()
	status := timerStatus(timer)
	h.mu.Unlock()

	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	SuccessWithMessage(c, "计时已恢复", status)
}

// UpdateTimerDescription 更新计时描述
// @Summary 更新计时描述
// @Description 计时运行或暂停时更新描述
// @Tags 计时器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TimerDescriptionRequest true "描述"
// @Success 200 {object} Response{data=TimerStatus} "更新成功"
// @Failure 400 {object} Response "计时器未在运行"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/timer/description [put]
func (h *TimeEntryHandler) UpdateTimerDescription(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TimerDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	h.mu.Lock()
	timer := h.timerFor(userID)
	err := timer.UpdateDescription(req.Description)
	status := timerStatus(timer)
	h.mu.Unlock()

	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	SuccessWithMessage(c, "更新成功", status)
}

// StopTimer 停止计时
// @Summary 停止计时
// @Description 停止当前用户的计时器并生成工时记录，时长取整到分钟
// @Tags 计时器
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.TimeEntry} "停止成功"
// @Failure 400 {object} Response "计时器未在运行"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/timer/stop [post]
func (h *TimeEntryHandler) StopTimer(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	h.mu.Lock()
	timer := h.timerFor(userID)
	entry, err := timer.Stop()
	h.mu.Unlock()

	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	entry.UserID = userID
	if err := database.DB.Create(entry).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "保存工时记录失败"))
		return
	}

	SuccessWithMessage(c, "计时已停止", entry)
}

// GetTimer 获取计时状态
// @Summary 获取计时状态
// @Description 获取当前用户计时器的状态与累计时长
// @Tags 计时器
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=TimerStatus} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/timer [get]
func (h *TimeEntryHandler) GetTimer(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	h.mu.Lock()
	timer := h.timerFor(userID)
	status := timerStatus(timer)
	h.mu.Unlock()

	Success(c, status)
}

// timerStatus 构造计时器状态响应，调用方需持有锁
func timerStatus(t *service.Timer) TimerStatus {
	status := TimerStatus{State: t.State.String()}
	if t.State == service.TimerIdle {
		return status
	}
	status.ProjectID = t.ProjectID
	status.ResourceName = t.ResourceName
	status.Description = t.Description
	status.StartTime = t.StartTime.Format("2006-01-02 15:04:05")
	status.ElapsedSeconds = int64(t.Elapsed().Seconds())
	return status
}
