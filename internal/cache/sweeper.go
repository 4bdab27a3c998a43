package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

func (e *Engine) startSweeper() error {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return fmt.Errorf("failed to create sweep scheduler: %w", err)
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(e.interval),
		gocron.NewTask(e.runSweep),
		gocron.WithName("cache-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		_ = scheduler.Shutdown()

		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}

	scheduler.Start()
	e.scheduler = scheduler

	e.logger.Info().Dur("interval", e.interval).Msg("Will expire cache entries periodically")

	return nil
}

// runSweep is the scheduled job. Failures are logged and the schedule continues.
func (e *Engine) runSweep() {
	if _, err := e.sweep(e.ctx); err != nil {
		e.logger.Warn().Err(err).Msg("Cache sweep failed")
		e.emit(EventSweepFailed, "", 0)
	}
}

func (e *Engine) sweep(ctx context.Context) (int64, error) {
	count, err := e.store.DeleteWhereExpired(ctx, e.now().Unix())
	if err != nil {
		return 0, err
	}

	e.logger.Info().Int64("count", count).Msg("Cache sweep finished")
	e.emit(EventSweep, "", count)

	return count, nil
}
