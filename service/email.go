package service

import (
	"fmt"
	"strings"

	"crm/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendWeeklyReport 发送周报邮件
func (s *EmailService) SendWeeklyReport(toEmail string, report WeeklyTimeReport) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请先在配置中开启 email.enabled")
	}

	subject := fmt.Sprintf("【CRM系统】工时周报 %s ~ %s",
		report.WeekStart.Format("2006-01-02"),
		report.WeekEnd.Format("2006-01-02"))
	body := s.generateWeeklyReportBody(report)

	return s.sendEmail(toEmail, subject, body)
}

// generateWeeklyReportBody 生成周报邮件内容
func (s *EmailService) generateWeeklyReportBody(report WeeklyTimeReport) string {
	var rows strings.Builder
	for _, p := range report.ProjectBreakdown {
		rows.WriteString(fmt.Sprintf(`
            <tr>
                <td>%s</td>
                <td>%s</td>
                <td style="text-align: right;">%.1f</td>
                <td style="text-align: right;">%.1f</td>
                <td style="text-align: right;">%.2f</td>
            </tr>`, p.ProjectName, p.CompanyName, p.Hours, p.BillableHours, p.Revenue))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .summary { background: #f8f9fa; border-radius: 8px; padding: 20px; margin: 20px 0; }
        .summary span { display: inline-block; margin-right: 30px; color: #333; }
        table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        th { background: #2563eb; color: white; padding: 10px; text-align: left; font-size: 14px; }
        td { padding: 10px; border-bottom: 1px solid #e5e7eb; color: #333; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>📊 工时周报</h1>
            <p style="margin: 10px 0 0;">%s ~ %s</p>
        </div>
        <div class="content">
            <div class="summary">
                <span>总工时: <strong>%.1f h</strong></span>
                <span>计费工时: <strong>%.1f h</strong></span>
                <span>计费金额: <strong>%.2f</strong></span>
            </div>
            <table>
                <tr><th>项目</th><th>客户</th><th>工时</th><th>计费工时</th><th>金额</th></tr>%s
            </table>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© CRM系统 - 小微企业客户与项目管理</p>
        </div>
    </div>
</body>
</html>
`,
		report.WeekStart.Format("2006-01-02"),
		report.WeekEnd.Format("2006-01-02"),
		report.TotalHours,
		report.BillableHours,
		report.TotalRevenue,
		rows.String())
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}
