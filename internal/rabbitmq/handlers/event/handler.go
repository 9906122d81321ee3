package event

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/internal/rabbitmq/queue"
	"github.com/aliskhannn/push-reminder/internal/reminder"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/event/mock.go -package=mocks
type reminderService interface {
	ScheduleEventReminders(ctx context.Context, event model.Event, offsets []float64) ([]uuid.UUID, error)
}

type Handler struct {
	service reminderService
}

func NewHandler(svc reminderService) *Handler {
	return &Handler{
		service: svc,
	}
}

// HandleMessage schedules the reminders of one calendar event. Store faults
// are retried with strategy; invalid events are dropped at once.
func (h *Handler) HandleMessage(ctx context.Context, msg queue.EventMessage, strategy retry.Strategy) {
	zlog.Logger.Info().Msgf("Handle Message: Got event %q due %s %s", msg.Title, msg.DueDate, msg.DueTime)

	var (
		ids       []uuid.UUID
		permanent error
	)

	err := retry.Do(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var err error
		ids, err = h.service.ScheduleEventReminders(ctx, msg.Event(), msg.Offsets)
		if isInvalidEvent(err) {
			permanent = err
			return nil
		}

		return err
	}, strategy)

	if permanent != nil {
		zlog.Logger.Warn().Err(permanent).Str("title", msg.Title).Msg("dropping invalid event")
		return
	}

	if err != nil {
		zlog.Logger.Error().Err(err).Str("title", msg.Title).Msg("failed to schedule reminders")
		return
	}

	zlog.Logger.Info().Msgf("Handle Message: scheduled %d reminders for %q", len(ids), msg.Title)
}

func isInvalidEvent(err error) bool {
	return errors.Is(err, reminder.ErrInvalidDue) ||
		errors.Is(err, reminder.ErrInvalidOffset) ||
		errors.Is(err, reminder.ErrEmptyTitle)
}
