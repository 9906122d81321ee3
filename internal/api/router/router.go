package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/push-reminder/internal/api/handlers/notification"
	"github.com/aliskhannn/push-reminder/internal/api/handlers/reminder"
	"github.com/aliskhannn/push-reminder/internal/api/handlers/trigger"
	"github.com/aliskhannn/push-reminder/internal/metrics"
	"github.com/aliskhannn/push-reminder/internal/middlewares"
)

type Handlers struct {
	Trigger      *trigger.Handler
	Notification *notification.Handler
	Reminder     *reminder.Handler
}

type Options struct {
	CORSOrigins []string
	HTTPMetrics *metrics.HTTP
	Gatherer    prometheus.Gatherer
}

func New(h Handlers, opts Options) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware(opts.CORSOrigins...))
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())
	if opts.HTTPMetrics != nil {
		e.Use(middlewares.Metrics(opts.HTTPMetrics))
	}

	e.GET("/send-now", h.Trigger.SendNow)
	e.GET("/healthz", h.Trigger.Health)

	if opts.Gatherer != nil {
		e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api")
	{
		api.POST("/reminders", h.Reminder.Create)
		api.POST("/events", h.Reminder.Enqueue)
		api.GET("/notifications/:id", h.Notification.GetStatus)

		users := api.Group("/users/:id")
		users.GET("/notifications", h.Notification.ListByUser)
		users.PUT("/device-token", h.Notification.RegisterDeviceToken)
		users.DELETE("/device-token", h.Notification.UnregisterDeviceToken)
		users.GET("/preferences", h.Reminder.GetPreferences)
		users.PUT("/preferences", h.Reminder.SetPreferences)
	}

	return e
}
