package picker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// =============================================================================
// Lifecycle
// =============================================================================

// Start loads history and schedules reloads. It fails only when no variant
// could be loaded.
func (s *Service) Start(ctx context.Context) error {
	s.startTime = time.Now()

	if err := s.Reload(ctx); err != nil {
		if s.loadedCount() == 0 {
			return fmt.Errorf("initial history load: %w", err)
		}
		s.log.WithError(err).Warn("starting with partial history")
	}

	if s.reloadSchedule == "" {
		return nil
	}
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{s})))
	if _, err := c.AddFunc(s.reloadSchedule, s.scheduledReload); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", s.reloadSchedule, err)
	}
	c.Start()
	s.cron = c
	s.log.WithField("schedule", s.reloadSchedule).Info("history reload scheduled")
	return nil
}

// Stop halts scheduled reloads and waits for a running one to finish or ctx
// to expire. It is safe to call more than once.
func (s *Service) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		if s.cron == nil {
			return
		}
		select {
		case <-s.cron.Stop().Done():
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}

func (s *Service) scheduledReload() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	// Failures are logged and counted by Reload.
	_ = s.Reload(ctx)
}

// cronLogger routes cron's internal messages to the service logger.
type cronLogger struct{ s *Service }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.log.WithField("cron", fmt.Sprint(keysAndValues...)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.log.WithError(err).WithField("cron", fmt.Sprint(keysAndValues...)).Error(msg)
}
