package event

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/aliskhannn/push-reminder/internal/mocks/rabbitmq/handlers/event"
	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/internal/rabbitmq/queue"
	"github.com/aliskhannn/push-reminder/internal/reminder"
)

func message() queue.EventMessage {
	return queue.EventMessage{
		Title:         "Physics midterm",
		DueDate:       "2025-03-10",
		DueTime:       "10:00",
		SubscriberIDs: []uuid.UUID{uuid.New()},
		Offsets:       []float64{5, 2},
	}
}

func TestHandler_HandleMessage_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockreminderService(ctrl)
	h := NewHandler(mockService)

	msg := message()
	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}

	mockService.EXPECT().
		ScheduleEventReminders(gomock.Any(), msg.Event(), msg.Offsets).
		Return([]uuid.UUID{uuid.New(), uuid.New()}, nil)

	h.HandleMessage(context.Background(), msg, strategy)
}

func TestHandler_HandleMessage_RetriesStoreFault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockreminderService(ctrl)
	h := NewHandler(mockService)

	msg := message()
	strategy := retry.Strategy{Attempts: 3, Delay: time.Millisecond, Backoff: 1}

	calls := 0
	mockService.EXPECT().
		ScheduleEventReminders(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, model.Event, []float64) ([]uuid.UUID, error) {
			calls++
			return nil, errors.New("store down")
		}).
		AnyTimes()

	h.HandleMessage(context.Background(), msg, strategy)
	assert.GreaterOrEqual(t, calls, 2)
}

func TestHandler_HandleMessage_InvalidEventNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockreminderService(ctrl)
	h := NewHandler(mockService)

	msg := message()
	msg.DueDate = "someday"
	strategy := retry.Strategy{Attempts: 3, Delay: time.Millisecond, Backoff: 1}

	mockService.EXPECT().
		ScheduleEventReminders(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("resolve due instant: %w", reminder.ErrInvalidDue)).
		Times(1)

	h.HandleMessage(context.Background(), msg, strategy)
}

func TestHandler_HandleMessage_ContextCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockreminderService(ctrl)
	h := NewHandler(mockService)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.HandleMessage(ctx, message(), retry.Strategy{Attempts: 1, Delay: time.Millisecond})
}
