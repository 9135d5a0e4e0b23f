package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/piewatch/internal/common"
)

// Schedule runs the digest on the configured cron expression (UTC) until ctx is cancelled.
// A failed run is logged; the next tick is the retry.
func (a *App) Schedule(ctx context.Context) error {
	spec := a.Config.Schedule.Cron
	c, err := newScheduler(spec, a.Logger, func() {
		if _, err := a.Run(ctx, time.Now()); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduled run failed")
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	a.Logger.Info().Str("cron", spec).Msg("Scheduler: started")

	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	a.Logger.Info().Msg("Scheduler: stopped")
	return nil
}

// newScheduler registers job on spec. A tick that fires while the previous run
// is still going is skipped, so runs never share the state files.
func newScheduler(spec string, logger *common.Logger, job func()) (*cron.Cron, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("%w: invalid schedule.cron %q: %v", common.ErrConfig, spec, err)
	}

	cronLog := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("failed to register schedule: %w", err)
	}
	return c, nil
}

// cronLogger routes cron's own messages to arbor.
type cronLogger struct {
	logger *common.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Str("detail", fmt.Sprint(keysAndValues...)).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Str("detail", fmt.Sprint(keysAndValues...)).Msg("cron: " + msg)
}
