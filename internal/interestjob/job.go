// Package interestjob runs the monthly interest accrual on a cron schedule.
package interestjob

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Accruer applies one month of interest to every eligible balance it owns.
type Accruer interface {
	AccrueAll(ctx context.Context) (int, error)
}

type target struct {
	name    string
	accruer Accruer
}

// Job accrues interest on accounts and credit cards.
type Job struct {
	cron    *cron.Cron
	logger  zerolog.Logger
	targets []target
}

// New returns job that runs on the standard 5-field cron schedule.
func New(schedule string, logger zerolog.Logger, accounts, cards Accruer) (*Job, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("parse interest schedule %q: %w", schedule, err)
	}

	l := logger.With().Str("job", "interest").Logger()
	cl := cronLogger{l}

	j := &Job{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: l,
		targets: []target{
			{name: "accounts", accruer: accounts},
			{name: "cards", accruer: cards},
		},
	}

	j.cron.Schedule(sched, cron.FuncJob(func() { j.Run(context.Background()) }))

	return j, nil
}

// Run accrues interest once.
//
// A failing target is logged and the remaining targets still run.
func (j *Job) Run(ctx context.Context) {
	ctx = j.logger.WithContext(ctx)

	for _, t := range j.targets {
		n, err := t.accruer.AccrueAll(ctx)
		if err != nil {
			j.logger.Error().Err(err).Str("target", t.name).Msg("accrue interest")
			continue
		}

		j.logger.Info().Str("target", t.name).Int("accrued", n).Msg("accrue interest")
	}
}

// Start runs the scheduler in its own goroutine.
func (j *Job) Start() {
	j.cron.Start()
}

// Stop stops the scheduler. The returned context is done once a running accrual completes.
func (j *Job) Stop() context.Context {
	return j.cron.Stop()
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
