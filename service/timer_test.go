package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_StateMachine(t *testing.T) {
	var timer Timer
	assert.Equal(t, TimerIdle, timer.State)

	rate := 50.0
	require.NoError(t, timer.Start(1, "张三", "开发", true, &rate, "CNY"))
	assert.Equal(t, TimerRunning, timer.State)
	assert.False(t, timer.StartTime.IsZero())

	// 运行中不允许重复启动
	assert.ErrorIs(t, timer.Start(2, "李四", "", false, nil, ""), ErrTimerAlreadyRunning)

	// Running → Paused → Running
	require.NoError(t, timer.Pause())
	assert.Equal(t, TimerPaused, timer.State)
	assert.ErrorIs(t, timer.Pause(), ErrTimerNotRunning)
	require.NoError(t, timer.Resume())
	assert.Equal(t, TimerRunning, timer.State)
	assert.ErrorIs(t, timer.Resume(), ErrTimerNotPaused)
}

func TestTimer_PauseKeepsStartTime(t *testing.T) {
	var timer Timer
	require.NoError(t, timer.Start(1, "张三", "", true, nil, "CNY"))
	started := timer.StartTime

	require.NoError(t, timer.Pause())
	assert.Equal(t, started, timer.StartTime)
	require.NoError(t, timer.Resume())
	assert.Equal(t, started, timer.StartTime)
}

func TestTimer_UpdateDescription(t *testing.T) {
	var timer Timer
	// Idle 状态不允许改描述
	assert.ErrorIs(t, timer.UpdateDescription("x"), ErrTimerNotRunning)

	require.NoError(t, timer.Start(1, "张三", "旧描述", true, nil, "CNY"))
	require.NoError(t, timer.UpdateDescription("新描述"))
	assert.Equal(t, "新描述", timer.Description)

	// 暂停状态允许
	require.NoError(t, timer.Pause())
	require.NoError(t, timer.UpdateDescription("再改一次"))
	assert.Equal(t, "再改一次", timer.Description)
}

func TestTimer_Stop(t *testing.T) {
	var timer Timer
	rate := 50.0
	require.NoError(t, timer.Start(3, "张三", "开发", true, &rate, "CNY"))

	// 回拨开始时间模拟已运行 150 分钟
	timer.StartTime = time.Now().Add(-150 * time.Minute)

	entry, err := timer.Stop()
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, uint(3), entry.ProjectID)
	assert.Equal(t, "张三", entry.ResourceName)
	assert.Equal(t, 150, entry.Duration)
	assert.True(t, entry.Billable)
	require.NotNil(t, entry.HourlyRate)
	assert.InDelta(t, 50, *entry.HourlyRate, 0.001)
	assert.False(t, entry.IsRunning)
	require.NotNil(t, entry.StartTime)
	require.NotNil(t, entry.EndTime)
	// date 为开始时间所在自然日
	assert.Equal(t, entry.StartTime.Day(), entry.Date.Day())
	assert.Equal(t, 0, entry.Date.Hour())

	// 停止后回到 Idle，可再次启动
	assert.Equal(t, TimerIdle, timer.State)
	assert.ErrorIs(t, timer.Pause(), ErrTimerNotRunning)
	require.NoError(t, timer.Start(1, "张三", "", true, nil, "CNY"))
}

func TestTimer_StopWhileIdle(t *testing.T) {
	var timer Timer
	entry, err := timer.Stop()
	assert.ErrorIs(t, err, ErrTimerNotRunning)
	assert.Nil(t, entry)
}

func TestTimer_StopWhilePaused(t *testing.T) {
	// 暂停状态下也可直接停止，时长按墙钟 now-startTime 计算
	var timer Timer
	require.NoError(t, timer.Start(1, "张三", "", false, nil, "CNY"))
	timer.StartTime = time.Now().Add(-90 * time.Minute)
	require.NoError(t, timer.Pause())

	entry, err := timer.Stop()
	require.NoError(t, err)
	assert.Equal(t, 90, entry.Duration)
}

func TestTimer_Elapsed(t *testing.T) {
	var timer Timer
	assert.Zero(t, timer.Elapsed())

	require.NoError(t, timer.Start(1, "张三", "", false, nil, "CNY"))
	timer.StartTime = time.Now().Add(-10 * time.Minute)
	assert.InDelta(t, (10 * time.Minute).Seconds(), timer.Elapsed().Seconds(), 1)
}
