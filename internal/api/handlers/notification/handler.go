package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/api/dto"
	"github.com/aliskhannn/push-reminder/internal/api/respond"
	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/internal/repository/notification"
	"github.com/aliskhannn/push-reminder/internal/repository/profile"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// notificationService defines the read and registration operations the
// Handler depends on.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/notification/mock.go -package=mocks
type notificationService interface {
	GetNotificationStatusByID(ctx context.Context, id uuid.UUID) (string, error)
	GetUserNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
}

// Handler serves notification status, the per-user notification list and
// device token registration.
type Handler struct {
	service   notificationService
	validator *validator.Validate
}

func NewHandler(s notificationService, v *validator.Validate) *Handler {
	return &Handler{service: s, validator: v}
}

// GetStatus handles GET /api/notifications/:id.
func (h *Handler) GetStatus(c *ginext.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	status, err := h.service.GetNotificationStatusByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			zlog.Logger.Warn().Interface("id", id).Err(err).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Interface("id", id).Msg("failed to get notification status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, dto.StatusResponse{ID: id, Status: status})
}

// ListByUser handles GET /api/users/:id/notifications?limit=N.
func (h *Handler) ListByUser(c *ginext.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("limit must be between 1 and %d", maxListLimit))
			return
		}
		limit = n
	}

	notifications, err := h.service.GetUserNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, notification.ErrNoNotificationsFound) {
			respond.OK(c.Writer, []model.Notification{})
			return
		}

		zlog.Logger.Error().Err(err).Interface("user_id", userID).Msg("failed to get notifications")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, notifications)
}

// RegisterDeviceToken handles PUT /api/users/:id/device-token.
func (h *Handler) RegisterDeviceToken(c *ginext.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.DeviceTokenRequest
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

	h.setToken(c, userID, req.Token)
}

// UnregisterDeviceToken handles DELETE /api/users/:id/device-token.
func (h *Handler) UnregisterDeviceToken(c *ginext.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	h.setToken(c, userID, "")
}

func (h *Handler) setToken(c *ginext.Context, userID uuid.UUID, token string) {
	if err := h.service.RegisterDeviceToken(c.Request.Context(), userID, token); err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("profile not found"))
			return
		}

		zlog.Logger.Error().Err(err).Interface("user_id", userID).Msg("failed to store device token")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, "device token updated")
}

func parseID(c *ginext.Context, param string) (uuid.UUID, bool) {
	idStr := c.Param(param)

	id, err := uuid.Parse(idStr)
	if err != nil || id == uuid.Nil {
		zlog.Logger.Warn().Interface("idStr", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return uuid.Nil, false
	}

	return id, true
}
