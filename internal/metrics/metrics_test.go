package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheus_Outcomes(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())

	p.Outcome(OutcomeSent)
	p.Outcome(OutcomeSent)
	p.Outcome(OutcomeSkipped)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.outcomes.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.outcomes.WithLabelValues("skipped")))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.outcomes.WithLabelValues("failed")))
}

func TestPrometheus_PassFinished(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())

	p.PassFinished(50*time.Millisecond, 4, nil)
	p.PassFinished(time.Millisecond, 0, errors.New("store down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(p.passes.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.passes.WithLabelValues("error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.dueRecords))
	assert.Equal(t, 1, testutil.CollectAndCount(p.passDuration))
}

func TestPrometheus_BreakerState(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())

	p.BreakerState("fcm", "open")
	assert.Equal(t, 1.0, testutil.ToFloat64(p.breakerState.WithLabelValues("fcm")))

	p.BreakerState("fcm", "half-open")
	assert.Equal(t, 0.0, testutil.ToFloat64(p.breakerState.WithLabelValues("fcm")))
}

func TestNop(t *testing.T) {
	var o Observer = Nop{}
	o.PassFinished(time.Second, 1, nil)
	o.Outcome(OutcomeFailed)
	o.GatewayCall(time.Second, nil)
	o.BreakerState("fcm", "closed")
}
