package router

import (
	"time"

	"crm/api"
	"crm/config"
	_ "crm/docs"
	"crm/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 公司相关
			companyHandler := api.NewCompanyHandler()
			companies := authorized.Group("/companies")
			{
				companies.POST("", companyHandler.Create)
				companies.GET("", companyHandler.List)
				companies.GET("/:id", companyHandler.Get)
				companies.PUT("/:id", companyHandler.Update)
				companies.DELETE("/:id", companyHandler.Delete)
			}

			// 联系人相关
			contactHandler := api.NewContactHandler()
			contacts := authorized.Group("/contacts")
			{
				contacts.POST("", contactHandler.Create)
				contacts.GET("", contactHandler.List)
				contacts.GET("/:id", contactHandler.Get)
				contacts.PUT("/:id", contactHandler.Update)
				contacts.DELETE("/:id", contactHandler.Delete)
			}

			// 商机相关
			dealHandler := api.NewDealHandler()
			deals := authorized.Group("/deals")
			{
				deals.GET("/stages", dealHandler.GetStages)
				deals.POST("", dealHandler.Create)
				deals.GET("", dealHandler.List)
				deals.GET("/:id", dealHandler.Get)
				deals.PUT("/:id", dealHandler.Update)
				deals.DELETE("/:id", dealHandler.Delete)
			}

			// 项目与预算相关
			projectHandler := api.NewProjectHandler()
			projects := authorized.Group("/projects")
			{
				projects.POST("", projectHandler.Create)
				projects.GET("", projectHandler.List)
				projects.GET("/:id", projectHandler.Get)
				projects.PUT("/:id", projectHandler.Update)
				projects.DELETE("/:id", projectHandler.Delete)

				projects.PUT("/:id/budget", projectHandler.UpdateBudget)
				projects.POST("/:id/resources", projectHandler.AddResource)
				projects.PUT("/:id/resources/:rid", projectHandler.UpdateResource)
				projects.DELETE("/:id/resources/:rid", projectHandler.DeleteResource)
				projects.POST("/:id/expenses", projectHandler.AddExpense)
				projects.PUT("/:id/expenses/:eid", projectHandler.UpdateExpense)
				projects.DELETE("/:id/expenses/:eid", projectHandler.DeleteExpense)
			}

			// 工时与计时器相关
			timeEntryHandler := api.NewTimeEntryHandler()
			timeEntries := authorized.Group("/time-entries")
			{
				timeEntries.POST("", timeEntryHandler.Create)
				timeEntries.GET("", timeEntryHandler.List)
				timeEntries.GET("/:id", timeEntryHandler.Get)
				timeEntries.PUT("/:id", timeEntryHandler.Update)
				timeEntries.DELETE("/:id", timeEntryHandler.Delete)
			}
			timer := authorized.Group("/timer")
			{
				timer.GET("", timeEntryHandler.GetTimer)
				timer.POST("/start", timeEntryHandler.StartTimer)
				timer.POST("/pause", timeEntryHandler.PauseTimer)
				timer.POST("/resume", timeEntryHandler.ResumeTimer)
				timer.POST("/stop", timeEntryHandler.StopTimer)
				timer.PUT("/description", timeEntryHandler.UpdateTimerDescription)
			}

			// 发票相关
			invoiceHandler := api.NewInvoiceHandler()
			invoices := authorized.Group("/invoices")
			{
				invoices.GET("/statuses", invoiceHandler.GetStatuses)
				invoices.POST("", invoiceHandler.Create)
				invoices.GET("", invoiceHandler.List)
				invoices.GET("/:id", invoiceHandler.Get)
				invoices.PUT("/:id", invoiceHandler.Update)
				invoices.DELETE("/:id", invoiceHandler.Delete)
			}

			// 设置相关
			settingHandler := api.NewSettingHandler()
			settings := authorized.Group("/settings")
			{
				settings.GET("", settingHandler.List)
				settings.PUT("", settingHandler.Put)
			}

			// 报表相关
			reportHandler := api.NewReportHandler(cfg)
			reports := authorized.Group("/reports")
			{
				reports.GET("/weekly", reportHandler.Weekly)
				reports.POST("/weekly/send", reportHandler.SendWeekly)
				reports.GET("/reconciliation", reportHandler.Reconciliation)
			}

			// 导出相关
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
