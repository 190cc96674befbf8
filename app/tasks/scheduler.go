package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lysyi3m/autoblog/app/cfg"
	"github.com/lysyi3m/autoblog/app/content"
)

var (
	ErrInvalidInterval = errors.New("interval out of range")
	ErrSchedulerClosed = errors.New("scheduler is closed")
)

// CycleRunner executes a single generation cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context, customTopic *content.Topic) CycleResult
}

var (
	_ CycleRunner        = (*Pipeline)(nil)
	_ SchedulerInterface = (*Scheduler)(nil)
)

// SchedulerInterface is the control surface used by the HTTP handlers.
type SchedulerInterface interface {
	Start(intervalMinutes int) (bool, error)
	Stop() bool
	Restart(intervalMinutes int) error
	RunOnce(ctx context.Context, customTopic *content.Topic) CycleResult
	Status() Status
}

type Status struct {
	IsRunning       bool         `json:"isRunning"`
	IntervalMinutes int          `json:"intervalMinutes"`
	NextRunEstimate *time.Time   `json:"nextRunEstimate"`
	CycleInProgress bool         `json:"cycleInProgress"`
	TotalRuns       int64        `json:"totalRuns"`
	FailedRuns      int64        `json:"failedRuns"`
	SkippedRuns     int64        `json:"skippedRuns"`
	LastRunAt       *time.Time   `json:"lastRunAt"`
	LastResult      *CycleResult `json:"lastResult"`
}

// Scheduler owns the recurring generation timer. At most one timer is active at a time,
// and a timer tick is skipped while the previous cycle is still running.
type Scheduler struct {
	runner       CycleRunner
	restartDelay time.Duration
	unit         time.Duration
	now          func() time.Time

	// ctx lives until Close; cycles run under it so Stop does not abort them.
	ctx    context.Context
	cancel context.CancelFunc
	cycles sync.WaitGroup

	mu              sync.Mutex
	running         bool
	closed          bool
	intervalMinutes int
	stopTimer       context.CancelFunc
	timerDone       chan struct{}

	cycleInProgress atomic.Bool

	statsMu     sync.Mutex
	totalRuns   int64
	failedRuns  int64
	skippedRuns int64
	lastRunAt   *time.Time
	lastResult  *CycleResult
}

func NewScheduler(runner CycleRunner, defaultIntervalMinutes int, restartDelay time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner:          runner,
		restartDelay:    restartDelay,
		unit:            time.Minute,
		now:             time.Now,
		ctx:             ctx,
		cancel:          cancel,
		intervalMinutes: defaultIntervalMinutes,
	}
}

func ValidateInterval(intervalMinutes int) error {
	if intervalMinutes < cfg.MinIntervalMinutes || intervalMinutes > cfg.MaxIntervalMinutes {
		return fmt.Errorf("%w: must be between %d and %d minutes, got %d",
			ErrInvalidInterval, cfg.MinIntervalMinutes, cfg.MaxIntervalMinutes, intervalMinutes)
	}
	return nil
}

// Start runs one cycle right away and then every intervalMinutes. It reports false
// without changing anything when the scheduler is already running.
func (s *Scheduler) Start(intervalMinutes int) (bool, error) {
	if err := ValidateInterval(intervalMinutes); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSchedulerClosed
	}
	if s.running {
		slog.Debug("Scheduler already running", "interval_minutes", s.intervalMinutes)
		return false, nil
	}

	timerCtx, stopTimer := context.WithCancel(s.ctx)
	s.intervalMinutes = intervalMinutes
	s.stopTimer = stopTimer
	s.timerDone = make(chan struct{})
	s.running = true

	s.dispatch("start")
	go s.loop(timerCtx, s.interval(), s.timerDone)

	slog.Info("Scheduler started", "interval_minutes", intervalMinutes)
	return true, nil
}

// Stop cancels the timer. Cycles already dispatched run to completion.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}

	s.stopTimer()
	<-s.timerDone

	s.running = false
	s.stopTimer = nil
	s.timerDone = nil

	slog.Info("Scheduler stopped")
	return true
}

// Restart stops the scheduler, waits for the restart delay and starts it again.
// An invalid interval is rejected before anything is stopped.
func (s *Scheduler) Restart(intervalMinutes int) error {
	if err := ValidateInterval(intervalMinutes); err != nil {
		return err
	}

	s.Stop()
	time.Sleep(s.restartDelay)

	_, err := s.Start(intervalMinutes)
	return err
}

// RunOnce runs one cycle synchronously regardless of the running state.
func (s *Scheduler) RunOnce(ctx context.Context, customTopic *content.Topic) CycleResult {
	result := s.runCycle(ctx, customTopic)
	s.record(result)
	return result
}

// Status reports the scheduler state. NextRunEstimate is now plus the interval,
// not the remaining time of the active timer.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	running := s.running
	intervalMinutes := s.intervalMinutes
	interval := s.interval()
	s.mu.Unlock()

	status := Status{
		IsRunning:       running,
		IntervalMinutes: intervalMinutes,
		CycleInProgress: s.cycleInProgress.Load(),
	}
	if running {
		next := s.now().Add(interval)
		status.NextRunEstimate = &next
	}

	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	status.TotalRuns = s.totalRuns
	status.FailedRuns = s.failedRuns
	status.SkippedRuns = s.skippedRuns
	if s.lastRunAt != nil {
		lastRunAt := *s.lastRunAt
		status.LastRunAt = &lastRunAt
	}
	if s.lastResult != nil {
		lastResult := *s.lastResult
		status.LastResult = &lastResult
	}

	return status
}

// Close stops the timer, cancels in-flight cycles and waits for them to return.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.Stop()
	s.cancel()
	s.cycles.Wait()
}

func (s *Scheduler) interval() time.Duration {
	return time.Duration(s.intervalMinutes) * s.unit
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatch("timer")
		}
	}
}

func (s *Scheduler) dispatch(trigger string) {
	if !s.cycleInProgress.CompareAndSwap(false, true) {
		s.statsMu.Lock()
		s.skippedRuns++
		s.statsMu.Unlock()

		slog.Warn("Previous cycle still in progress, skipping", "trigger", trigger)
		return
	}

	s.cycles.Add(1)
	go func() {
		defer s.cycles.Done()
		defer s.cycleInProgress.Store(false)

		s.record(s.runCycle(s.ctx, nil))
	}()
}

func (s *Scheduler) runCycle(ctx context.Context, customTopic *content.Topic) (result CycleResult) {
	startedAt := s.now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Cycle panicked", "panic", r)
			result = CycleResult{
				Success:   false,
				Error:     fmt.Sprintf("cycle panicked: %v", r),
				StartedAt: startedAt,
				Duration:  s.now().Sub(startedAt),
			}
			result.DurationMs = result.Duration.Milliseconds()
		}
	}()

	return s.runner.RunCycle(ctx, customTopic)
}

func (s *Scheduler) record(result CycleResult) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	s.totalRuns++
	if !result.Success {
		s.failedRuns++
	}

	runAt := result.StartedAt
	if runAt.IsZero() {
		runAt = s.now()
	}
	s.lastRunAt = &runAt
	s.lastResult = &result
}
