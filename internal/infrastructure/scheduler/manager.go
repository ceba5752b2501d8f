// Package scheduler provides background job management using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/ezpsa-inc/ezpsa/internal/shared/biztime"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

// BoardRefresher refreshes one board's cached ticket list and returns the
// number of tickets fetched from upstream.
type BoardRefresher interface {
	RefreshBoard(ctx context.Context, board string) (int, error)
}

// BoardRefresherFunc adapts a function to BoardRefresher.
type BoardRefresherFunc func(ctx context.Context, board string) (int, error)

func (f BoardRefresherFunc) RefreshBoard(ctx context.Context, board string) (int, error) {
	return f(ctx, board)
}

// SchedulerManager owns the process-wide gocron scheduler.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a SchedulerManager running in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterBoardRefreshJobs registers one refresh job per board. Each job runs
// once at start and then every interval; a run still in progress when the
// next one is due is rescheduled rather than stacked.
func (m *SchedulerManager) RegisterBoardRefreshJobs(boards []string, interval time.Duration, refresher BoardRefresher) error {
	if interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", interval)
	}

	for _, board := range boards {
		if board == "" {
			continue
		}
		_, err := m.scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				defer cancel()
				m.refreshBoard(ctx, board, refresher)
			}),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithTags("board-refresh", board),
			gocron.WithName("board-refresh:"+board),
		)
		if err != nil {
			return fmt.Errorf("failed to register refresh job for board %q: %w", board, err)
		}
		m.logger.Infow("registered board refresh job", "board", board, "interval", interval.String())
	}
	return nil
}

func (m *SchedulerManager) refreshBoard(ctx context.Context, board string, refresher BoardRefresher) {
	startTime := biztime.NowUTC()

	fetched, err := refresher.RefreshBoard(ctx, board)
	if err != nil {
		m.logger.Errorw("scheduled board refresh failed",
			"board", board,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Debugw("scheduled board refresh completed",
		"board", board,
		"fetched", fetched,
		"duration", time.Since(startTime),
	)
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
