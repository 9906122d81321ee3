// Package dispatcher delivers due notifications through the push gateway and
// records their transition to sent.
//
// Delivery is at-least-once: a record whose send succeeded but whose sent flag
// could not be committed stays pending and is pushed again by a later pass.
package dispatcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/wb-go/wbf/zlog"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/push-reminder/internal/errs"
	"github.com/aliskhannn/push-reminder/internal/metrics"
	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/internal/token"
	"github.com/aliskhannn/push-reminder/pkg/fcm"
)

//go:generate mockgen -source=dispatcher.go -destination=../mocks/dispatcher/mock.go -package=mocks

type notificationStore interface {
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error)
}

type gateway interface {
	Send(ctx context.Context, msg fcm.Message) (string, error)
}

type statusCache interface {
	MarkCached(ctx context.Context, id uuid.UUID, status string) error
}

const (
	DefaultConcurrency = 8
	DefaultSendTimeout = 10 * time.Second
)

// BreakerOptions configures the circuit breaker around gateway calls.
type BreakerOptions struct {
	MaxRequests         uint32        // probes allowed while half-open
	Interval            time.Duration // closed-state count reset period
	Timeout             time.Duration // open-state duration before probing
	ConsecutiveFailures uint32        // failures that open the breaker; 0 disables tripping
}

// Options configures a Dispatcher. Zero values fall back to defaults.
type Options struct {
	Concurrency int
	SendTimeout time.Duration
	Breaker     BreakerOptions
	Clock       func() time.Time
}

// Report summarises one dispatch pass.
type Report struct {
	Due         int `json:"due"`
	Sent        int `json:"sent"`
	AlreadySent int `json:"already_sent"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
}

func (r *Report) add(o metrics.Outcome) {
	switch o {
	case metrics.OutcomeSent:
		r.Sent++
	case metrics.OutcomeAlreadySent:
		r.AlreadySent++
	case metrics.OutcomeSkipped:
		r.Skipped++
	case metrics.OutcomeFailed:
		r.Failed++
	}
}

type Dispatcher struct {
	store       notificationStore
	gateway     gateway
	cache       statusCache
	observer    metrics.Observer
	breaker     *gobreaker.CircuitBreaker[string]
	concurrency int
	sendTimeout time.Duration
	now         func() time.Time
}

// New creates a Dispatcher. cache and observer may be nil.
func New(store notificationStore, gw gateway, cache statusCache, observer metrics.Observer, opts Options) *Dispatcher {
	if observer == nil {
		observer = metrics.Nop{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Dispatcher{
		store:       store,
		gateway:     gw,
		cache:       cache,
		observer:    observer,
		breaker:     newBreaker(opts.Breaker, observer),
		concurrency: opts.Concurrency,
		sendTimeout: opts.SendTimeout,
		now:         opts.Clock,
	}
}

func newBreaker(opts BreakerOptions, observer metrics.Observer) *gobreaker.CircuitBreaker[string] {
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "fcm",
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return opts.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= opts.ConsecutiveFailures
		},
		IsSuccessful: gatewayHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			zlog.Logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("gateway breaker state changed")
			observer.BreakerState(name, to.String())
		},
	})
}

// gatewayHealthy reports whether err leaves the provider's health untouched.
// Token rejections and caller cancellation do not count against it.
func gatewayHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, fcm.ErrTokenRejected) ||
		errors.Is(err, fcm.ErrEmptyToken) ||
		errors.Is(err, context.Canceled)
}

// Dispatch pushes every due notification at most once and marks the delivered
// ones sent. Per-record faults are logged and counted, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, due []model.DueNotification) Report {
	var (
		mu     sync.Mutex
		report = Report{Due: len(due)}
		g      errgroup.Group
	)
	g.SetLimit(d.concurrency)

	for _, n := range due {
		n := n
		g.Go(func() error {
			outcome := d.deliver(ctx, n)
			d.observer.Outcome(outcome)

			mu.Lock()
			report.add(outcome)
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return report
}

func (d *Dispatcher) deliver(ctx context.Context, n model.DueNotification) metrics.Outcome {
	id := n.ID.String()

	tok, err := token.Resolve(n)
	if err != nil {
		zlog.Logger.Warn().Str("id", id).Str("user_id", n.UserID.String()).Msg("no device token, skipping")
		return metrics.OutcomeSkipped
	}

	msg := fcm.Message{Token: tok, Title: n.Title, Body: n.Body}

	start := time.Now()
	messageID, err := d.breaker.Execute(func() (string, error) {
		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()

		return d.gateway.Send(sendCtx, msg)
	})
	d.observer.GatewayCall(time.Since(start), err)

	if err != nil {
		gerr := &errs.GatewayError{NotificationID: n.ID, Err: err}
		ev := zlog.Logger.Error()
		if errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests) ||
			errors.Is(err, fcm.ErrTokenRejected) {
			ev = zlog.Logger.Warn()
		}
		ev.Err(gerr).Str("id", id).Msg("failed to send notification")

		return metrics.OutcomeFailed
	}

	// The push is out: commit it even if the caller has gone away.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
	defer cancel()

	transitioned, err := d.store.MarkSent(commitCtx, n.ID, d.now())
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", id).Str("message_id", messageID).Msg("notification sent but not marked, it will be sent again")
		return metrics.OutcomeFailed
	}

	if !transitioned {
		zlog.Logger.Info().Str("id", id).Msg("notification already marked sent by another pass")
		return metrics.OutcomeAlreadySent
	}

	if d.cache != nil {
		if err := d.cache.MarkCached(commitCtx, n.ID, model.StatusSent); err != nil {
			zlog.Logger.Error().Err(err).Str("id", id).Msg("failed to cache notification status")
		}
	}

	zlog.Logger.Info().Str("id", id).Str("message_id", messageID).Msg("notification sent")

	return metrics.OutcomeSent
}
