package api

import (
	"time"

	"crm/config"
	"crm/database"
	"crm/middleware"
	"crm/models"
	"crm/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct {
	email *service.EmailService
}

// NewReportHandler 创建报表处理器
func NewReportHandler(cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		email: service.NewEmailService(&cfg.Email),
	}
}

// WeeklyReportResponse 周报响应，附带前后周起点便于翻页
type WeeklyReportResponse struct {
	service.WeeklyTimeReport
	PrevWeekStart string `json:"prev_week_start"`
	NextWeekStart string `json:"next_week_start"`
}

// SendWeeklyRequest 发送周报请求
type SendWeeklyRequest struct {
	Email string `json:"email" binding:"required,email" example:"boss@example.com"`
	Date  string `json:"date" example:"2024-01-03"`
}

// reportWeekStart 由查询日期定位所在周的周一，空串取本周
func reportWeekStart(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return service.WeekStart(time.Now()), nil
	}
	d, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return service.WeekStart(d), nil
}

// projectNameResolver 返回按项目ID查项目名与公司名的闭包
func projectNameResolver() service.NameResolver {
	return func(projectID uint) (string, string) {
		var row struct {
			ProjectName string
			CompanyName string
		}
		database.DB.Table("projects").
			Select("projects.name AS project_name, companies.name AS company_name").
			Joins("LEFT JOIN companies ON companies.id = projects.company_id").
			Where("projects.id = ?", projectID).
			Scan(&row)
		return row.ProjectName, row.CompanyName
	}
}

// buildWeekly 拉取当前用户指定周的工时并聚合
func buildWeekly(userID uint, weekStart time.Time) (service.WeeklyTimeReport, error) {
	weekEnd := service.WeekEnd(weekStart)

	var entries []models.TimeEntry
	err := database.DB.
		Where("user_id = ? AND date >= ? AND date <= ?",
			userID, weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02")).
		Find(&entries).Error
	if err != nil {
		return service.WeeklyTimeReport{}, err
	}

	return service.BuildWeeklyReport(weekStart, entries, projectNameResolver()), nil
}

// Weekly 获取周报
// @Summary 获取周报
// @Description 按周聚合当前用户的工时，date 落在哪一周就返回哪一周（周一为起点）
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param date query string false "周内任意日期" example(2024-01-03)
// @Success 200 {object} Response{data=WeeklyReportResponse} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	weekStart, err := reportWeekStart(c.Query("date"))
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	report, err := buildWeekly(userID, weekStart)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, WeeklyReportResponse{
		WeeklyTimeReport: report,
		PrevWeekStart:    service.PrevWeek(weekStart).Format("2006-01-02"),
		NextWeekStart:    service.NextWeek(weekStart).Format("2006-01-02"),
	})
}

// SendWeekly 发送周报邮件
// @Summary 发送周报邮件
// @Description 将指定周的周报以邮件发送到目标邮箱
// @Tags 报表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendWeeklyRequest true "收件人与周内日期"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 500 {object} Response "发送失败"
// @Router /api/v1/reports/weekly/send [post]
func (h *ReportHandler) SendWeekly(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SendWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	weekStart, err := reportWeekStart(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	report, err := buildWeekly(userID, weekStart)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	if err := h.email.SendWeeklyReport(req.Email, report); err != nil {
		InternalError(c, SafeErrorMessage(err, "邮件发送失败"))
		return
	}

	SuccessWithMessage(c, "发送成功", nil)
}

// Reconciliation 获取项目对账报表
// @Summary 获取项目对账报表
// @Description 逐项目比对预算与实际工时成本，未动工且未做预算的项目不纳入
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]service.ProjectTimeStats} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/reconciliation [get]
func (h *ReportHandler) Reconciliation(c *gin.Context) {
	var projects []models.Project
	if err := database.DB.Preload("Budget.Resources").Order("id ASC").Find(&projects).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var companies []models.Company
	database.DB.Find(&companies)
	companyNames := make(map[uint]string, len(companies))
	for _, co := range companies {
		companyNames[co.ID] = co.Name
	}

	result := make([]service.ProjectTimeStats, 0, len(projects))
	for _, p := range projects {
		var entries []models.TimeEntry
		if err := database.DB.Where("project_id = ?", p.ID).Find(&entries).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "查询失败"))
			return
		}

		// 未做预算的项目用零值预算对账，有工时仍会纳入
		budget := models.ProjectBudget{ProjectID: p.ID}
		if p.Budget != nil {
			budget = *p.Budget
		}

		stats := service.Reconcile(budget, entries)
		if !stats.Include() {
			continue
		}
		stats.ProjectID = p.ID
		stats.ProjectName = p.Name
		stats.CompanyName = companyNames[p.CompanyID]
		result = append(result, stats)
	}

	Success(c, result)
}
