package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectBudgetWithDetails 预设预算及资源/费用的查询（Preload 按名称排序，Expenses 在前）
func expectBudgetWithDetails(mock sqlmock.Sqlmock, projectID uint) {
	mock.ExpectQuery("SELECT .* FROM `project_budgets`").
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "total_revenue", "contingency_percentage", "overhead_percentage", "currency", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, projectID, 0, 0, 0, "CNY", time.Now(), time.Now(), nil))

	mock.ExpectQuery("SELECT .* FROM `project_expenses`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "budget_id", "category", "description", "planned_cost", "currency", "status", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "software", "云服务器", 1000, "CNY", "planned", time.Now(), time.Now(), nil))

	mock.ExpectQuery("SELECT .* FROM `project_resources`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "budget_id", "name", "type", "rate_type", "hourly_rate", "daily_rate", "currency", "hours_allocated", "days_allocated", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, "张三", "internal", "hourly", 50, 0, "CNY", 20, 0, time.Now(), time.Now(), nil))
}

func TestProjectHandler_UpdateBudget(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectBudgetWithDetails(mock, 1)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `project_budgets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/projects/:id/budget", NewProjectHandler().UpdateBudget)

	body := `{"total_revenue":5000,"contingency_percentage":10,"overhead_percentage":15}`
	req := httptest.NewRequest("PUT", "/projects/1/budget", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 资源 20h*50 + 费用 1000 = 2000，应急 10% = 200，管理 15% = 300
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1000), data["total_resource_cost"])
	assert.Equal(t, float64(1000), data["total_expense_cost"])
	assert.Equal(t, float64(200), data["contingency_cost"])
	assert.Equal(t, float64(300), data["overhead_cost"])
	assert.Equal(t, float64(2500), data["total_cost"])
	assert.Equal(t, float64(2500), data["gross_margin"])
	assert.Equal(t, float64(50), data["margin_percentage"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectHandler_AddResource_InvalidRate(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectBudgetWithDetails(mock, 1)

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/projects/:id/resources", NewProjectHandler().AddResource)

	// 小时计费下费率必须为正
	body := `{"name":"李四","rate_type":"hourly","hourly_rate":0,"hours_allocated":10}`
	req := httptest.NewRequest("POST", "/projects/1/resources", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "小时费率必须大于 0", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectHandler_AddResource_DailyRateSynced(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectBudgetWithDetails(mock, 1)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `project_resources`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `project_budgets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/projects/:id/resources", NewProjectHandler().AddResource)

	body := `{"name":"李四","rate_type":"daily","daily_rate":400,"days_allocated":10}`
	req := httptest.NewRequest("POST", "/projects/1/resources", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 日费率 400 按 8 小时工作日折算小时费率 50
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(50), data["hourly_rate"])
	assert.Equal(t, float64(400), data["daily_rate"])
	require.NoError(t, mock.ExpectationsWereMet())
}
