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

// expectProjectWithResources 预设项目及其预算资源的查询
func expectProjectWithResources(mock sqlmock.Sqlmock, projectID uint, resourceName string, hourlyRate float64) {
	mock.ExpectQuery("SELECT .* FROM `projects`").
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name", "status", "created_at", "updated_at", "deleted_at"}).
			AddRow(projectID, 1, "官网改版", "active", time.Now(), time.Now(), nil))

	mock.ExpectQuery("SELECT .* FROM `project_budgets`").
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "total_revenue", "currency", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, projectID, 100000, "CNY", time.Now(), time.Now(), nil))

	mock.ExpectQuery("SELECT .* FROM `project_resources`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "budget_id", "name", "type", "rate_type", "hourly_rate", "daily_rate", "currency", "hours_allocated", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, resourceName, "internal", "hourly", hourlyRate, 0, "CNY", 100, time.Now(), time.Now(), nil))
}

func TestTimeEntryHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProjectWithResources(mock, 1, "张三", 50)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `time_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/time-entries", NewTimeEntryHandler().Create)

	body := `{"project_id":1,"resource_name":"张三","description":"接口联调","start_time":"2024-01-03 09:00:00","end_time":"2024-01-03 11:30:00"}`
	req := httptest.NewRequest("POST", "/time-entries", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "创建成功", resp["message"])

	// 时长按开始/结束时间算出 150 分钟，费率在创建时快照
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(150), data["duration"])
	assert.Equal(t, true, data["billable"])
	assert.Equal(t, float64(50), data["hourly_rate"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeEntryHandler_Create_ResourceNotMatched(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProjectWithResources(mock, 1, "张三", 50)

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/time-entries", NewTimeEntryHandler().Create)

	// 手工录入时资源名必须严格匹配
	body := `{"project_id":1,"resource_name":"王五","duration":60}`
	req := httptest.NewRequest("POST", "/time-entries", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "资源名称与项目预算中的资源不匹配", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeEntryHandler_Create_EndBeforeStart(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProjectWithResources(mock, 1, "张三", 50)

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/time-entries", NewTimeEntryHandler().Create)

	body := `{"project_id":1,"resource_name":"张三","start_time":"2024-01-03 11:00:00","end_time":"2024-01-03 09:00:00"}`
	req := httptest.NewRequest("POST", "/time-entries", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "结束时间必须晚于开始时间", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeEntryHandler_TimerFlow(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProjectWithResources(mock, 1, "张三", 50)

	// 停止时落库
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `time_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	h := NewTimeEntryHandler()
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/timer/start", h.StartTimer)
	router.POST("/timer/pause", h.PauseTimer)
	router.POST("/timer/resume", h.ResumeTimer)
	router.POST("/timer/stop", h.StopTimer)
	router.GET("/timer", h.GetTimer)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do("POST", "/timer/start", `{"project_id":1,"resource_name":"张三","description":"需求评审"}`)
	assert.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "running", data["state"])

	// 暂停和恢复都不影响开始时间
	assert.Equal(t, 200, do("POST", "/timer/pause", "").Code)
	w = do("GET", "/timer", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "paused", resp["data"].(map[string]interface{})["state"])

	assert.Equal(t, 200, do("POST", "/timer/resume", "").Code)

	w = do("POST", "/timer/stop", "")
	assert.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	entry := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), entry["project_id"])
	assert.Equal(t, "张三", entry["resource_name"])
	assert.Equal(t, true, entry["billable"])

	// 停止后回到空闲
	w = do("GET", "/timer", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "idle", resp["data"].(map[string]interface{})["state"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeEntryHandler_TimerDoubleStart(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectProjectWithResources(mock, 1, "张三", 50)
	expectProjectWithResources(mock, 1, "张三", 50)

	h := NewTimeEntryHandler()
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/timer/start", h.StartTimer)

	body := `{"project_id":1,"resource_name":"张三"}`
	req := httptest.NewRequest("POST", "/timer/start", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	req = httptest.NewRequest("POST", "/timer/start", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "已有进行中的计时器", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}
