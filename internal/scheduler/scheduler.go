package scheduler

import (
	"context"
	"errors"

	"temperature-dashboard/internal/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers periodic dashboard refreshes on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	dashboard *services.Dashboard
	schedule  string
	logger    *zap.Logger
}

func NewScheduler(dashboard *services.Dashboard, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		dashboard: dashboard,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start registers the refresh job and starts the cron loop. An empty
// schedule disables periodic refresh.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("Periodic refresh disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.refresh); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("schedule", s.schedule))
	return nil
}

func (s *Scheduler) refresh() {
	s.logger.Info("Starting scheduled temperature refresh")

	job, err := s.dashboard.StartFetch(context.Background())
	if err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			s.logger.Info("Skipping scheduled refresh, run already in progress")
			return
		}
		s.logger.Error("Scheduled refresh failed to start", zap.Error(err))
		return
	}

	result := job.Wait()
	s.logger.Info("Scheduled refresh completed",
		zap.Int("success", len(result.Records)),
		zap.Int("failure", len(result.Failures)))
}

// Stop halts the cron loop; a refresh already running proceeds to
// completion.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
