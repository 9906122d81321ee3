package trigger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/api/respond"
	"github.com/aliskhannn/push-reminder/internal/dispatcher"
	"github.com/aliskhannn/push-reminder/internal/errs"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/trigger/mock.go -package=mocks
type scanner interface {
	RunOnce(ctx context.Context) (dispatcher.Report, error)
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// Handler exposes the on-demand scan trigger and the health probe.
type Handler struct {
	scanner scanner
	db      pinger
}

func NewHandler(s scanner, db pinger) *Handler {
	return &Handler{scanner: s, db: db}
}

// SendNow runs one synchronous pass. The pass is not cancelled if the client
// goes away.
func (h *Handler) SendNow(c *ginext.Context) {
	ctx := context.WithoutCancel(c.Request.Context())

	report, err := h.scanner.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrScanInProgress) {
			zlog.Logger.Warn().Msg("send-now dropped, pass in progress")
			respond.Fail(c.Writer, http.StatusConflict, err)
			return
		}

		zlog.Logger.Error().Err(err).Msg("send-now pass failed")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, report)
}

// Health reports whether the notification store is reachable.
func (h *Handler) Health(c *ginext.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("health check failed")
		respond.Fail(c.Writer, http.StatusServiceUnavailable, fmt.Errorf("store unreachable"))
		return
	}

	respond.OK(c.Writer, "ok")
}
