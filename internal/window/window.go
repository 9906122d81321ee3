// Package window decides which reminders a scan pass considers due.
//
// Two policies are supported. The bounded policy (default) only picks up
// reminders whose send time lies within a tolerance around now, which keeps
// the backlog after an outage bounded. Its cost is that a reminder whose send
// time slipped below the lower bound before any pass dispatched it is never
// delivered. The unbounded policy picks up everything that is due and unsent,
// however old.
package window

import (
	"fmt"
	"strings"
	"time"

	"github.com/aliskhannn/push-reminder/internal/errs"
)

// Policy selects the due predicate.
type Policy string

const (
	PolicyBounded   Policy = "bounded"
	PolicyUnbounded Policy = "unbounded"
)

// DefaultTolerance is the half-width of the bounded window.
const DefaultTolerance = time.Minute

// ParsePolicy maps a config value onto a Policy. Empty means bounded.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyBounded:
		return PolicyBounded, nil
	case PolicyUnbounded:
		return PolicyUnbounded, nil
	default:
		return "", &errs.ConfigError{
			Field:  "scheduler.window_policy",
			Reason: fmt.Sprintf("unknown policy %q", s),
		}
	}
}

// Window is the range of send times considered due by one pass.
// When Bounded is false, Lower is the zero time and only Upper applies.
type Window struct {
	Lower   time.Time
	Upper   time.Time
	Bounded bool
}

// Contains reports whether sendAt is due within w. Both bounds are inclusive.
func (w Window) Contains(sendAt time.Time) bool {
	if sendAt.After(w.Upper) {
		return false
	}

	return !w.Bounded || !sendAt.Before(w.Lower)
}

// Resolver computes windows for a fixed policy and tolerance.
type Resolver struct {
	policy    Policy
	tolerance time.Duration
}

// NewResolver creates a Resolver. A non-positive tolerance falls back to
// DefaultTolerance.
func NewResolver(policy Policy, tolerance time.Duration) *Resolver {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	return &Resolver{policy: policy, tolerance: tolerance}
}

// Policy returns the resolver's policy.
func (r *Resolver) Policy() Policy { return r.policy }

// Resolve returns the due window for now, normalised to UTC.
func (r *Resolver) Resolve(now time.Time) Window {
	now = now.UTC()

	if r.policy == PolicyUnbounded {
		return Window{Upper: now}
	}

	return Window{
		Lower:   now.Add(-r.tolerance),
		Upper:   now.Add(r.tolerance),
		Bounded: true,
	}
}
