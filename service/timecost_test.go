package service

import (
	"testing"
	"time"

	"crm/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeAt(hour, min int) *time.Time {
	t := time.Date(2024, 1, 15, hour, min, 0, 0, time.Local)
	return &t
}

func TestResolveDuration_FromRange(t *testing.T) {
	// 09:00 ~ 11:30 = 150 分钟
	minutes, err := ResolveDuration(timeAt(9, 0), timeAt(11, 30), 0)
	require.NoError(t, err)
	assert.Equal(t, 150, minutes)
}

func TestResolveDuration_EndBeforeStart(t *testing.T) {
	_, err := ResolveDuration(timeAt(11, 30), timeAt(9, 0), 0)
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	// 起止相同同样拒绝
	_, err = ResolveDuration(timeAt(9, 0), timeAt(9, 0), 0)
	assert.ErrorIs(t, err, ErrEndBeforeStart)
}

func TestResolveDuration_Direct(t *testing.T) {
	minutes, err := ResolveDuration(nil, nil, 90)
	require.NoError(t, err)
	assert.Equal(t, 90, minutes)

	_, err = ResolveDuration(nil, nil, 0)
	assert.ErrorIs(t, err, ErrMissingDuration)

	_, err = ResolveDuration(nil, nil, -30)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestBindResource(t *testing.T) {
	resources := []models.ProjectResource{
		{Name: "张三", HourlyRate: 50, Currency: "CNY"},
		{Name: "李四", HourlyRate: 80, Currency: "USD"},
	}

	entry := &models.TimeEntry{ResourceName: "李四"}
	require.NoError(t, BindResource(resources, entry))

	assert.True(t, entry.Billable)
	require.NotNil(t, entry.HourlyRate)
	assert.InDelta(t, 80, *entry.HourlyRate, 0.001)
	assert.Equal(t, "USD", entry.Currency)
}

func TestBindResource_Snapshot(t *testing.T) {
	// 绑定后资源调价不影响已快照的费率
	resources := []models.ProjectResource{{Name: "张三", HourlyRate: 50}}
	entry := &models.TimeEntry{ResourceName: "张三"}
	require.NoError(t, BindResource(resources, entry))

	resources[0].HourlyRate = 100
	assert.InDelta(t, 50, *entry.HourlyRate, 0.001)
}

func TestBindResource_Errors(t *testing.T) {
	// 创建时严格校验：无资源或名称不匹配直接拒绝
	entry := &models.TimeEntry{ResourceName: "张三"}
	assert.ErrorIs(t, BindResource(nil, entry), ErrNoResources)

	resources := []models.ProjectResource{{Name: "李四", HourlyRate: 80}}
	assert.ErrorIs(t, BindResource(resources, entry), ErrResourceNotFound)
	// 失败时不写入任何计费信息
	assert.False(t, entry.Billable)
	assert.Nil(t, entry.HourlyRate)
}

func TestRebindResource(t *testing.T) {
	resources := []models.ProjectResource{{Name: "张三", HourlyRate: 50, Currency: "CNY"}}

	rate := 80.0
	entry := &models.TimeEntry{ResourceName: "李四", Billable: true, HourlyRate: &rate}

	// 匹配成功：重新快照
	RebindResource(resources, entry, "张三")
	assert.Equal(t, "张三", entry.ResourceName)
	assert.True(t, entry.Billable)
	assert.InDelta(t, 50, *entry.HourlyRate, 0.001)

	// 编辑时名称无匹配：静默清除计费信息而非报错
	RebindResource(resources, entry, "王五")
	assert.Equal(t, "王五", entry.ResourceName)
	assert.False(t, entry.Billable)
	assert.Nil(t, entry.HourlyRate)
}

func TestEntryCost(t *testing.T) {
	rate := 50.0
	e := models.TimeEntry{Duration: 150, Billable: true, HourlyRate: &rate}
	// 150 分钟 × 50/h = 125.00
	assert.InDelta(t, 125, EntryCost(e), 0.001)

	// 不计费或未快照费率成本为 0
	e.Billable = false
	assert.Zero(t, EntryCost(e))
	e.Billable = true
	e.HourlyRate = nil
	assert.Zero(t, EntryCost(e))
}
