package api

import (
	"fmt"
	"net/url"
	"time"

	"crm/database"
	"crm/middleware"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportRow 导出用的工时行，带项目与公司名
type exportRow struct {
	ID           uint
	ProjectName  string
	CompanyName  string
	ResourceName string
	Description  string
	Date         time.Time
	Duration     int
	Billable     bool
	HourlyRate   *float64
	Currency     string
}

// ExportExcel 导出工时记录为 Excel
// @Summary 导出工时记录
// @Description 根据日期范围导出当前用户的工时记录为 Excel 文件
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_time query string true "开始日期 (2024-01-01)"
// @Param end_time query string true "结束日期 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	startTimeStr := c.Query("start_time")
	endTimeStr := c.Query("end_time")

	if startTimeStr == "" || endTimeStr == "" {
		BadRequest(c, "请提供开始时间和结束时间")
		return
	}

	if _, err := time.ParseInLocation("2006-01-02", startTimeStr, time.Local); err != nil {
		BadRequest(c, "开始时间格式错误，应为: 2006-01-02")
		return
	}
	if _, err := time.ParseInLocation("2006-01-02", endTimeStr, time.Local); err != nil {
		BadRequest(c, "结束时间格式错误，应为: 2006-01-02")
		return
	}

	// 查询数据
	var rows []exportRow
	err := database.DB.Table("time_entries").
		Select(`time_entries.id, projects.name AS project_name, companies.name AS company_name,
			time_entries.resource_name, time_entries.description, time_entries.date,
			time_entries.duration, time_entries.billable, time_entries.hourly_rate, time_entries.currency`).
		Joins("LEFT JOIN projects ON projects.id = time_entries.project_id").
		Joins("LEFT JOIN companies ON companies.id = projects.company_id").
		Where("time_entries.user_id = ? AND time_entries.date >= ? AND time_entries.date <= ?",
			userID, startTimeStr, endTimeStr).
		Where("time_entries.deleted_at IS NULL").
		Order("time_entries.date DESC, time_entries.id DESC").
		Scan(&rows).Error
	if err != nil {
		InternalError(c, "查询数据失败: "+err.Error())
		return
	}

	// 创建 Excel 文件
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "工时记录"
	f.SetSheetName("Sheet1", sheetName)

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 数据样式
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, "D", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 14)
	f.SetColWidth(sheetName, "G", "G", 10)
	f.SetColWidth(sheetName, "H", "H", 10)
	f.SetColWidth(sheetName, "I", "I", 12)

	// 写入表头
	headers := []string{"ID", "项目", "公司", "资源", "描述", "日期", "工时(小时)", "计费", "成本"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// 写入数据
	var totalHours, totalCost float64
	for i, row := range rows {
		hours := float64(row.Duration) / 60
		cost := 0.0
		billable := "否"
		if row.Billable {
			billable = "是"
			if row.HourlyRate != nil {
				cost = hours * *row.HourlyRate
			}
		}

		r := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), row.ProjectName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), row.CompanyName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", r), row.ResourceName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", r), row.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", r), row.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", r), hours)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", r), billable)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", r), cost)

		// 设置数据样式
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("I%d", r), dataStyle)
		totalHours += hours
		totalCost += cost
	}

	// 添加汇总行
	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", summaryRow), totalHours)
	f.SetCellValue(sheetName, fmt.Sprintf("H%d", summaryRow), fmt.Sprintf("共 %d 条", len(rows)))
	f.SetCellValue(sheetName, fmt.Sprintf("I%d", summaryRow), totalCost)
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("I%d", summaryRow), summaryStyle)

	// 设置响应头
	filename := fmt.Sprintf("工时记录_%s_%s.xlsx", startTimeStr, endTimeStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))

	// 写入响应
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}
