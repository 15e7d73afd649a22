package service

import (
	"errors"
	"math"
	"time"

	"crm/models"
)

// TimerState 计时器状态
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerPaused
)

// String 返回状态的展示文本
func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	default:
		return "idle"
	}
}

// 计时器状态转换错误
var (
	ErrTimerAlreadyRunning = errors.New("已有进行中的计时器")
	ErrTimerNotRunning     = errors.New("没有进行中的计时器")
	ErrTimerNotPaused      = errors.New("计时器未处于暂停状态")
)

// Timer 工时计时器状态机：Idle → Running → {Paused ⇄ Running} → Stop 后回到 Idle
// 权威时长始终由 now-StartTime 现算，暂停只冻结展示，不参与时长计算，
// 展示刷新的 tick 丢失或延迟不会造成漂移
type Timer struct {
	State        TimerState
	StartTime    time.Time
	ProjectID    uint
	ResourceName string
	Description  string
	Billable     bool
	HourlyRate   *float64
	Currency     string
}

// Start 启动计时，记录墙钟开始时间
func (t *Timer) Start(projectID uint, resourceName, description string, billable bool, hourlyRate *float64, currency string) error {
	if t.State != TimerIdle {
		return ErrTimerAlreadyRunning
	}
	t.State = TimerRunning
	t.StartTime = time.Now()
	t.ProjectID = projectID
	t.ResourceName = resourceName
	t.Description = description
	t.Billable = billable
	t.HourlyRate = hourlyRate
	t.Currency = currency
	return nil
}

// Pause 暂停展示刷新，不修改 StartTime
func (t *Timer) Pause() error {
	if t.State != TimerRunning {
		return ErrTimerNotRunning
	}
	t.State = TimerPaused
	return nil
}

// Resume 恢复计时
func (t *Timer) Resume() error {
	if t.State != TimerPaused {
		return ErrTimerNotPaused
	}
	t.State = TimerRunning
	return nil
}

// UpdateDescription 更新描述，仅 Running/Paused 状态允许
func (t *Timer) UpdateDescription(description string) error {
	if t.State == TimerIdle {
		return ErrTimerNotRunning
	}
	t.Description = description
	return nil
}

// Elapsed 当前累计时长，始终由墙钟现算
func (t *Timer) Elapsed() time.Duration {
	if t.State == TimerIdle {
		return 0
	}
	return time.Since(t.StartTime)
}

// Stop 停止计时并生成待持久化的工时记录，状态回到 Idle
// 时长取 now-StartTime 的秒数折算为分钟，而非累计 tick 计数
func (t *Timer) Stop() (*models.TimeEntry, error) {
	if t.State == TimerIdle {
		return nil, ErrTimerNotRunning
	}

	now := time.Now()
	seconds := now.Sub(t.StartTime).Seconds()
	minutes := int(math.Round(seconds / 60))

	start := t.StartTime
	end := now
	entry := &models.TimeEntry{
		ProjectID:    t.ProjectID,
		ResourceName: t.ResourceName,
		Description:  t.Description,
		StartTime:    &start,
		EndTime:      &end,
		Duration:     minutes,
		Date:         time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		Billable:     t.Billable,
		HourlyRate:   t.HourlyRate,
		Currency:     t.Currency,
		IsRunning:    false,
	}

	*t = Timer{}
	return entry, nil
}
