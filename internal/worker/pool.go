package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Task is one unit of periodic work.
type Task func(ctx context.Context) error

// Poller runs a Task once, or repeatedly on a fixed interval.
type Poller struct {
	// Interval between runs. Zero or negative means run once.
	Interval time.Duration
	Task     Task
	Log      logrus.FieldLogger

	runs   int64
	failed int64
}

// Run executes the task immediately. With a positive Interval it keeps running
// the task on every tick until ctx is done; task errors are logged and the loop
// continues. With no Interval the task error is returned.
func (p *Poller) Run(ctx context.Context) error {
	if p.Interval <= 0 {
		return p.runOnce(ctx)
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		if err := p.runOnce(ctx); err != nil && ctx.Err() == nil {
			p.logger().WithError(err).Error("poll failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

// Runs returns how many times the task has been started.
func (p *Poller) Runs() int {
	return int(atomic.LoadInt64(&p.runs))
}

// Failures returns how many runs returned an error.
func (p *Poller) Failures() int {
	return int(atomic.LoadInt64(&p.failed))
}

func (p *Poller) runOnce(ctx context.Context) error {
	atomic.AddInt64(&p.runs, 1)
	err := p.Task(ctx)
	if err != nil {
		atomic.AddInt64(&p.failed, 1)
	}
	return err
}

func (p *Poller) logger() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}
