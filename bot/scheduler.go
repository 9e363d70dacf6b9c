package bot

import (
	"fmt"

	"discord-blog/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler queues a refresh event on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// StartScheduler starts queuing EventRefresh into events on spec. An empty spec
// disables scheduling and returns a nil Scheduler.
func StartScheduler(spec string, events chan<- models.ChannelEvent, logger *zap.Logger) (*Scheduler, error) {
	if spec == "" {
		return nil, nil
	}

	s := &Scheduler{cron: cron.New(), logger: logger.Named("scheduler")}
	_, err := s.cron.AddFunc(spec, func() {
		select {
		case events <- models.ChannelEvent{Kind: models.EventRefresh}:
			s.logger.Debug("Queued scheduled refresh")
		default:
			s.logger.Warn("Event queue full; skipping scheduled refresh")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("could not set up refresh schedule %q: %w", spec, err)
	}
	s.cron.Start()
	s.logger.Info("Refresh scheduled", zap.String("spec", spec))
	return s, nil
}

// Stop stops the cron jobs and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped.")
}
