package service

import (
	"testing"

	"crm/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitchRateType_HourlyToDaily(t *testing.T) {
	r := &models.ProjectResource{
		Name:           "张三",
		RateType:       models.RateTypeHourly,
		HourlyRate:     50,
		HoursAllocated: 100,
	}

	require.NoError(t, SwitchRateType(r, models.RateTypeDaily))

	assert.Equal(t, models.RateTypeDaily, r.RateType)
	assert.InDelta(t, 400, r.DailyRate, 0.001)
	// 100h / 8 = 12.5 → 向上取整 13 天
	assert.InDelta(t, 13, r.DaysAllocated, 0.001)
}

func TestSwitchRateType_DailyToHourly(t *testing.T) {
	r := &models.ProjectResource{
		Name:          "李四",
		RateType:      models.RateTypeDaily,
		DailyRate:     400,
		DaysAllocated: 10,
	}

	require.NoError(t, SwitchRateType(r, models.RateTypeHourly))

	assert.Equal(t, models.RateTypeHourly, r.RateType)
	assert.InDelta(t, 50, r.HourlyRate, 0.001)
	assert.InDelta(t, 80, r.HoursAllocated, 0.001)
}

func TestSwitchRateType_RoundTrip(t *testing.T) {
	// hourly→daily→hourly 后小时费率回到原值
	r := &models.ProjectResource{
		RateType:       models.RateTypeHourly,
		HourlyRate:     62.5,
		HoursAllocated: 40,
	}
	original := r.HourlyRate

	require.NoError(t, SwitchRateType(r, models.RateTypeDaily))
	require.NoError(t, SwitchRateType(r, models.RateTypeHourly))

	assert.InDelta(t, original, r.HourlyRate, 0.0001)
}

func TestSwitchRateType_SameType(t *testing.T) {
	// 切换到当前类型为 no-op
	r := &models.ProjectResource{
		RateType:       models.RateTypeHourly,
		HourlyRate:     50,
		HoursAllocated: 100,
	}
	require.NoError(t, SwitchRateType(r, models.RateTypeHourly))
	assert.InDelta(t, 50, r.HourlyRate, 0.001)
	assert.Zero(t, r.DailyRate)
}

func TestSwitchRateType_Invalid(t *testing.T) {
	r := &models.ProjectResource{RateType: models.RateTypeHourly}
	assert.Error(t, SwitchRateType(r, "weekly"))
}

func TestSyncDailyRate(t *testing.T) {
	// 天计费模式下改日费率立即回算小时费率
	r := &models.ProjectResource{
		RateType:  models.RateTypeDaily,
		DailyRate: 480,
	}
	SyncDailyRate(r)
	assert.InDelta(t, 60, r.HourlyRate, 0.001)

	// 小时计费模式下不联动
	r2 := &models.ProjectResource{
		RateType:   models.RateTypeHourly,
		HourlyRate: 50,
		DailyRate:  999,
	}
	SyncDailyRate(r2)
	assert.InDelta(t, 50, r2.HourlyRate, 0.001)
	assert.InDelta(t, 999, r2.DailyRate, 0.001)
}
