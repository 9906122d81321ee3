package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/api/dto"
	"github.com/aliskhannn/push-reminder/internal/api/respond"
	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/internal/rabbitmq/queue"
	"github.com/aliskhannn/push-reminder/internal/reminder"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/reminder/mock.go -package=mocks
type reminderService interface {
	ScheduleEventReminders(ctx context.Context, event model.Event, offsets []float64) ([]uuid.UUID, error)
	SetPreferences(ctx context.Context, userID uuid.UUID, offsets []float64) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (model.Preference, error)
}

type eventPublisher interface {
	Publish(msg queue.EventMessage, strategy retry.Strategy) error
}

// Handler is the producer-facing API: it schedules reminders for events and
// manages per-user default offsets.
type Handler struct {
	service   reminderService
	publisher eventPublisher
	validator *validator.Validate
	strategy  retry.Strategy
}

// NewHandler creates a Handler. publisher may be nil, in which case Enqueue
// answers 503.
func NewHandler(s reminderService, p eventPublisher, v *validator.Validate, strategy retry.Strategy) *Handler {
	return &Handler{service: s, publisher: p, validator: v, strategy: strategy}
}

// Create handles POST /api/reminders: the reminders are materialized and
// stored before the response is written.
func (h *Handler) Create(c *ginext.Context) {
	req, ok := h.decodeSchedule(c)
	if !ok {
		return
	}

	ids, err := h.service.ScheduleEventReminders(c.Request.Context(), req.Event(), req.Offsets)
	if err != nil {
		if isInvalidEvent(err) {
			zlog.Logger.Warn().Err(err).Msg("rejected event")
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}

		zlog.Logger.Error().Err(err).Str("title", req.Title).Msg("failed to schedule reminders")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}

	respond.Created(c.Writer, dto.ScheduleResponse{IDs: ids})
}

// Enqueue handles POST /api/events: the event is published to the calendar
// queue and materialized asynchronously.
func (h *Handler) Enqueue(c *ginext.Context) {
	if h.publisher == nil {
		respond.Fail(c.Writer, http.StatusServiceUnavailable, fmt.Errorf("event queue disabled"))
		return
	}

	req, ok := h.decodeSchedule(c)
	if !ok {
		return
	}

	if err := h.publisher.Publish(queue.NewEventMessage(req.Event(), req.Offsets), h.strategy); err != nil {
		zlog.Logger.Error().Err(err).Str("title", req.Title).Msg("failed to publish event")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.Accepted(c.Writer, "event queued")
}

// GetPreferences handles GET /api/users/:id/preferences.
func (h *Handler) GetPreferences(c *ginext.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.service.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		zlog.Logger.Error().Err(err).Interface("user_id", userID).Msg("failed to get preferences")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, dto.PreferencesResponse{
		UserID:      p.UserID,
		Offsets:     p.Offsets,
		OffsetsText: reminder.FormatOffsets(p.Offsets),
	})
}

// SetPreferences handles PUT /api/users/:id/preferences.
func (h *Handler) SetPreferences(c *ginext.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.PreferencesRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	offsets := req.Offsets
	if len(offsets) == 0 {
		parsed, err := reminder.ParseOffsets(req.OffsetsText)
		if err != nil {
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}
		offsets = parsed
	}

	if len(offsets) == 0 {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("at least one offset is required"))
		return
	}

	if err := h.service.SetPreferences(c.Request.Context(), userID, offsets); err != nil {
		if errors.Is(err, reminder.ErrInvalidOffset) {
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}

		zlog.Logger.Error().Err(err).Interface("user_id", userID).Msg("failed to save preferences")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, dto.PreferencesResponse{
		UserID:      userID,
		Offsets:     offsets,
		OffsetsText: reminder.FormatOffsets(offsets),
	})
}

func (h *Handler) decodeSchedule(c *ginext.Context) (dto.ScheduleRequest, bool) {
	var req dto.ScheduleRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return dto.ScheduleRequest{}, false
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return dto.ScheduleRequest{}, false
	}

	return req, true
}

func parseID(c *ginext.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")

	id, err := uuid.Parse(idStr)
	if err != nil || id == uuid.Nil {
		zlog.Logger.Warn().Interface("idStr", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return uuid.Nil, false
	}

	return id, true
}

func isInvalidEvent(err error) bool {
	return errors.Is(err, reminder.ErrInvalidDue) ||
		errors.Is(err, reminder.ErrInvalidOffset) ||
		errors.Is(err, reminder.ErrEmptyTitle)
}
