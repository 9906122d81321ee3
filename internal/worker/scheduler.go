package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/dispatcher"
	"github.com/aliskhannn/push-reminder/internal/errs"
	"github.com/aliskhannn/push-reminder/internal/metrics"
	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/internal/window"
)

//go:generate mockgen -source=scheduler.go -destination=../mocks/worker/scheduler.go -package=mocks

type dueStore interface {
	QueryDue(ctx context.Context, w window.Window) ([]model.DueNotification, error)
}

type notificationDispatcher interface {
	Dispatch(ctx context.Context, due []model.DueNotification) dispatcher.Report
}

// DefaultSchedule fires a pass every minute.
const DefaultSchedule = "@every 1m"

type State int

const (
	StateIdle State = iota
	StateScanning
)

func (s State) String() string {
	if s == StateScanning {
		return "scanning"
	}
	return "idle"
}

type SchedulerOptions struct {
	Schedule    string           // cron expression or descriptor
	SkipOverlap bool             // drop triggers while a pass is in flight
	Clock       func() time.Time // defaults to time.Now
}

// Scheduler runs scan passes: resolve the due window, query the store and
// hand the records to the dispatcher.
type Scheduler struct {
	store       dueStore
	dispatcher  notificationDispatcher
	resolver    *window.Resolver
	observer    metrics.Observer
	schedule    string
	skipOverlap bool
	now         func() time.Time
	inFlight    atomic.Int32
}

func NewScheduler(store dueStore, d notificationDispatcher, resolver *window.Resolver, observer metrics.Observer, opts SchedulerOptions) *Scheduler {
	if observer == nil {
		observer = metrics.Nop{}
	}
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Scheduler{
		store:       store,
		dispatcher:  d,
		resolver:    resolver,
		observer:    observer,
		schedule:    opts.Schedule,
		skipOverlap: opts.SkipOverlap,
		now:         opts.Clock,
	}
}

// State reports whether a pass is currently running.
func (s *Scheduler) State() State {
	if s.inFlight.Load() > 0 {
		return StateScanning
	}
	return StateIdle
}

// RunOnce performs a single pass. Only a failed due-query is returned as an
// error; per-record faults are reflected in the report.
func (s *Scheduler) RunOnce(ctx context.Context) (dispatcher.Report, error) {
	if s.skipOverlap {
		if !s.inFlight.CompareAndSwap(0, 1) {
			return dispatcher.Report{}, errs.ErrScanInProgress
		}
	} else {
		s.inFlight.Add(1)
	}
	defer s.inFlight.Add(-1)

	start := time.Now()
	w := s.resolver.Resolve(s.now())

	due, err := s.store.QueryDue(ctx, w)
	if err != nil {
		s.observer.PassFinished(time.Since(start), 0, err)
		return dispatcher.Report{}, fmt.Errorf("query due notifications: %w", err)
	}

	report := s.dispatcher.Dispatch(ctx, due)
	s.observer.PassFinished(time.Since(start), len(due), nil)

	zlog.Logger.Info().
		Time("upper", w.Upper).
		Int("due", report.Due).
		Int("sent", report.Sent).
		Int("already_sent", report.AlreadySent).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("scan pass finished")

	return report, nil
}

// Run fires RunOnce on the configured schedule until ctx is cancelled, then
// waits for the pass in flight to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(s.schedule, func() { s.tick(ctx) }); err != nil {
		return &errs.ConfigError{Field: "scheduler.schedule", Reason: err.Error()}
	}

	c.Start()
	zlog.Logger.Printf("scheduler started with schedule %q", s.schedule)

	<-ctx.Done()

	<-c.Stop().Done()
	zlog.Logger.Print("scheduler stopped")

	return nil
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	// A started pass runs to completion; Run waits for it on shutdown.
	_, err := s.RunOnce(context.WithoutCancel(ctx))
	switch {
	case errors.Is(err, errs.ErrScanInProgress):
		zlog.Logger.Warn().Msg("previous pass still running, trigger dropped")
	case err != nil:
		zlog.Logger.Error().Err(err).Msg("scan pass failed")
	}
}
