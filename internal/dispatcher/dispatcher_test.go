package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/push-reminder/internal/metrics"
	mocks "github.com/aliskhannn/push-reminder/internal/mocks/dispatcher"
	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/pkg/fcm"
)

var fixedNow = time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func due(token *string) model.DueNotification {
	return model.DueNotification{
		Notification: model.Notification{
			ID:     uuid.New(),
			UserID: uuid.New(),
			Title:  "Reminder: Lab report",
			Body:   "Due in 2 minutes",
			SendAt: fixedNow,
		},
		DeviceToken: token,
	}
}

func ptr(s string) *string { return &s }

func TestDispatch_SendsAndMarks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)
	cacheMock := mocks.NewMockstatusCache(ctrl)

	reg := prometheus.NewRegistry()
	observer := metrics.NewPrometheus(reg)
	d := New(storeMock, gatewayMock, cacheMock, observer, Options{Concurrency: 1, Clock: clock})

	n := due(ptr("tok-1"))
	msg := fcm.Message{Token: "tok-1", Title: n.Title, Body: n.Body}

	gatewayMock.EXPECT().Send(gomock.Any(), msg).Return("msg-1", nil)
	storeMock.EXPECT().MarkSent(gomock.Any(), n.ID, fixedNow).Return(true, nil)
	cacheMock.EXPECT().MarkCached(gomock.Any(), n.ID, model.StatusSent).Return(nil)

	report := d.Dispatch(context.Background(), []model.DueNotification{n})
	assert.Equal(t, Report{Due: 1, Sent: 1}, report)

	count, err := testutil.GatherAndCount(reg, "reminder_dispatch_outcomes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDispatch_MissingTokenIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)

	d := New(storeMock, gatewayMock, nil, nil, Options{Clock: clock})

	report := d.Dispatch(context.Background(), []model.DueNotification{due(nil), due(ptr("  "))})
	assert.Equal(t, Report{Due: 2, Skipped: 2}, report)
}

func TestDispatch_GatewayFailureLeavesPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)
	cacheMock := mocks.NewMockstatusCache(ctrl)

	d := New(storeMock, gatewayMock, cacheMock, nil, Options{Clock: clock})

	gatewayMock.EXPECT().Send(gomock.Any(), gomock.Any()).Return("", errors.New("registration-token-not-registered"))

	report := d.Dispatch(context.Background(), []model.DueNotification{due(ptr("stale"))})
	assert.Equal(t, Report{Due: 1, Failed: 1}, report)
}

func TestDispatch_MarkSentFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)
	cacheMock := mocks.NewMockstatusCache(ctrl)

	d := New(storeMock, gatewayMock, cacheMock, nil, Options{Clock: clock})
	n := due(ptr("tok"))

	gatewayMock.EXPECT().Send(gomock.Any(), gomock.Any()).Return("msg-1", nil)
	storeMock.EXPECT().MarkSent(gomock.Any(), n.ID, fixedNow).Return(false, errors.New("connection reset"))

	report := d.Dispatch(context.Background(), []model.DueNotification{n})
	assert.Equal(t, Report{Due: 1, Failed: 1}, report)
}

func TestDispatch_AlreadySentDoesNotRefreshCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)
	cacheMock := mocks.NewMockstatusCache(ctrl)

	d := New(storeMock, gatewayMock, cacheMock, nil, Options{Clock: clock})
	n := due(ptr("tok"))

	gatewayMock.EXPECT().Send(gomock.Any(), gomock.Any()).Return("msg-1", nil)
	storeMock.EXPECT().MarkSent(gomock.Any(), n.ID, fixedNow).Return(false, nil)

	report := d.Dispatch(context.Background(), []model.DueNotification{n})
	assert.Equal(t, Report{Due: 1, AlreadySent: 1}, report)
}

func TestDispatch_CacheFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)
	cacheMock := mocks.NewMockstatusCache(ctrl)

	d := New(storeMock, gatewayMock, cacheMock, nil, Options{Clock: clock})
	n := due(ptr("tok"))

	gatewayMock.EXPECT().Send(gomock.Any(), gomock.Any()).Return("msg-1", nil)
	storeMock.EXPECT().MarkSent(gomock.Any(), n.ID, fixedNow).Return(true, nil)
	cacheMock.EXPECT().MarkCached(gomock.Any(), n.ID, model.StatusSent).Return(errors.New("redis down"))

	report := d.Dispatch(context.Background(), []model.DueNotification{n})
	assert.Equal(t, Report{Due: 1, Sent: 1}, report)
}

func TestDispatch_SendTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)

	d := New(storeMock, gatewayMock, nil, nil, Options{SendTimeout: 20 * time.Millisecond, Clock: clock})

	gatewayMock.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ fcm.Message) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	)

	report := d.Dispatch(context.Background(), []model.DueNotification{due(ptr("tok"))})
	assert.Equal(t, Report{Due: 1, Failed: 1}, report)
}

func TestDispatch_OpenBreakerShortCircuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)

	d := New(storeMock, gatewayMock, nil, nil, Options{
		Concurrency: 1,
		Clock:       clock,
		Breaker:     BreakerOptions{ConsecutiveFailures: 1, Timeout: time.Hour},
	})

	gatewayMock.EXPECT().Send(gomock.Any(), gomock.Any()).Return("", errors.New("unavailable")).Times(1)

	report := d.Dispatch(context.Background(), []model.DueNotification{due(ptr("a")), due(ptr("b")), due(ptr("c"))})
	assert.Equal(t, Report{Due: 3, Failed: 3}, report)
}

type countingGateway struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (g *countingGateway) Send(ctx context.Context, _ fcm.Message) (string, error) {
	g.calls.Add(1)
	cur := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)

	for {
		prev := g.maxSeen.Load()
		if cur <= prev || g.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}

	select {
	case <-time.After(g.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return "ok", nil
}

// memStore applies MarkSent as a conditional update on an in-memory row set.
type memStore struct {
	mu          sync.Mutex
	sentAt      map[uuid.UUID]time.Time
	transitions int
}

func (s *memStore) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sentAt[id]; ok {
		return false, nil
	}

	s.sentAt[id] = sentAt
	s.transitions++

	return true, nil
}

func TestDispatch_RejectedTokensDoNotTripBreaker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)

	d := New(storeMock, gatewayMock, nil, nil, Options{
		Concurrency: 1,
		Clock:       clock,
		Breaker: BreakerOptions{
			MaxRequests:         1,
			Interval:            time.Minute,
			Timeout:             30 * time.Second,
			ConsecutiveFailures: 5,
		},
	})

	var batch []model.DueNotification
	for i := 0; i < 5; i++ {
		batch = append(batch, due(ptr("stale")))
	}
	for i := 0; i < 3; i++ {
		batch = append(batch, due(ptr("fresh")))
	}

	gatewayMock.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg fcm.Message) (string, error) {
			if msg.Token == "stale" {
				return "", fmt.Errorf("%w: registration-token-not-registered", fcm.ErrTokenRejected)
			}
			return "msg", nil
		},
	).Times(8)
	storeMock.EXPECT().MarkSent(gomock.Any(), gomock.Any(), fixedNow).Return(true, nil).Times(3)

	report := d.Dispatch(context.Background(), batch)
	assert.Equal(t, Report{Due: 8, Sent: 3, Failed: 5}, report)
}

func TestDispatch_CommitsAfterCallerCancels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)
	cacheMock := mocks.NewMockstatusCache(ctrl)

	d := New(storeMock, gatewayMock, cacheMock, nil, Options{Concurrency: 1, Clock: clock})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := due(ptr("tok"))

	gatewayMock.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, fcm.Message) (string, error) {
			cancel()
			return "msg-1", nil
		},
	)
	storeMock.EXPECT().MarkSent(gomock.Any(), n.ID, fixedNow).DoAndReturn(
		func(ctx context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			return true, nil
		},
	)
	cacheMock.EXPECT().MarkCached(gomock.Any(), n.ID, model.StatusSent).Return(nil)

	report := d.Dispatch(ctx, []model.DueNotification{n})
	assert.Equal(t, Report{Due: 1, Sent: 1}, report)
}

func TestDispatch_CancelledCallerDoesNotTripBreaker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeMock := mocks.NewMocknotificationStore(ctrl)
	gatewayMock := mocks.NewMockgateway(ctrl)

	d := New(storeMock, gatewayMock, nil, nil, Options{
		Concurrency: 1,
		Clock:       clock,
		Breaker:     BreakerOptions{ConsecutiveFailures: 1, Timeout: time.Hour},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gatewayMock.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ fcm.Message) (string, error) {
			return "", ctx.Err()
		},
	).Times(3)

	report := d.Dispatch(ctx, []model.DueNotification{due(ptr("a")), due(ptr("b")), due(ptr("c"))})
	assert.Equal(t, Report{Due: 3, Failed: 3}, report)
}

func TestDispatch_BoundedConcurrency(t *testing.T) {
	gw := &countingGateway{delay: 5 * time.Millisecond}
	store := &memStore{sentAt: map[uuid.UUID]time.Time{}}
	d := New(store, gw, nil, nil, Options{Concurrency: 3, Clock: clock})

	records := make([]model.DueNotification, 20)
	for i := range records {
		records[i] = due(ptr("tok"))
	}

	report := d.Dispatch(context.Background(), records)
	assert.Equal(t, Report{Due: 20, Sent: 20}, report)
	assert.EqualValues(t, 20, gw.calls.Load())
	assert.LessOrEqual(t, gw.maxSeen.Load(), int32(3))
}

func TestDispatch_OverlappingPassesCommitOnce(t *testing.T) {
	gw := &countingGateway{delay: 10 * time.Millisecond}
	store := &memStore{sentAt: map[uuid.UUID]time.Time{}}
	n := due(ptr("tok"))

	first := New(store, gw, nil, nil, Options{Clock: clock})
	second := New(store, gw, nil, nil, Options{Clock: func() time.Time { return fixedNow.Add(time.Second) }})

	var (
		wg      sync.WaitGroup
		reports [2]Report
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		reports[0] = first.Dispatch(context.Background(), []model.DueNotification{n})
	}()
	go func() {
		defer wg.Done()
		reports[1] = second.Dispatch(context.Background(), []model.DueNotification{n})
	}()
	wg.Wait()

	assert.EqualValues(t, 2, gw.calls.Load(), "both passes saw the record as due")
	assert.Equal(t, 1, store.transitions)
	assert.Equal(t, 1, reports[0].Sent+reports[1].Sent)
	assert.Equal(t, 1, reports[0].AlreadySent+reports[1].AlreadySent)
}
