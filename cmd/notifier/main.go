package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/api/handlers/notification"
	"github.com/aliskhannn/push-reminder/internal/api/handlers/reminder"
	"github.com/aliskhannn/push-reminder/internal/api/handlers/trigger"
	"github.com/aliskhannn/push-reminder/internal/api/router"
	"github.com/aliskhannn/push-reminder/internal/api/server"
	"github.com/aliskhannn/push-reminder/internal/config"
	"github.com/aliskhannn/push-reminder/internal/dispatcher"
	"github.com/aliskhannn/push-reminder/internal/metrics"
	eventmsg "github.com/aliskhannn/push-reminder/internal/rabbitmq/handlers/event"
	"github.com/aliskhannn/push-reminder/internal/rabbitmq/queue"
	notifrepo "github.com/aliskhannn/push-reminder/internal/repository/notification"
	prefrepo "github.com/aliskhannn/push-reminder/internal/repository/preference"
	profilerepo "github.com/aliskhannn/push-reminder/internal/repository/profile"
	notifsvc "github.com/aliskhannn/push-reminder/internal/service/notification"
	remindersvc "github.com/aliskhannn/push-reminder/internal/service/reminder"
	"github.com/aliskhannn/push-reminder/internal/window"
	"github.com/aliskhannn/push-reminder/internal/worker"
	"github.com/aliskhannn/push-reminder/pkg/fcm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	if err := cfg.Validate(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Validate has already checked these.
	policy, _ := window.ParsePolicy(cfg.Scheduler.WindowPolicy)
	loc, _ := cfg.Reminders.Location()
	dbNum, _ := cfg.Redis.DB()

	val := validator.New()

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, dbNum)
	if err = rdb.Ping(ctx).Err(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	gateway, err := fcm.NewClient(ctx, fcm.Options{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsFile: cfg.Firebase.CredentialsFile,
		CredentialsJSON: []byte(cfg.Firebase.CredentialsJSON),
		Icon:            cfg.Firebase.Icon,
		Badge:           cfg.Firebase.Badge,
	})
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to init firebase messaging")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer := metrics.NewPrometheus(registry)
	httpMetrics := metrics.NewHTTP(registry)

	notifications := notifrepo.NewRepository(db)
	profiles := profilerepo.NewRepository(db)
	preferences := prefrepo.NewRepository(db)

	notifService := notifsvc.NewService(notifications, profiles, rdb, cfg.Retry)
	reminderService := remindersvc.NewService(
		notifications, profiles, preferences, notifService, loc, cfg.Reminders.DefaultOffsets,
	)

	disp := dispatcher.New(notifications, gateway, notifService, observer, dispatcher.Options{
		Concurrency: cfg.Scheduler.Concurrency,
		SendTimeout: cfg.Scheduler.SendTimeout,
		Breaker: dispatcher.BreakerOptions{
			MaxRequests:         cfg.Breaker.MaxRequests,
			Interval:            cfg.Breaker.Interval,
			Timeout:             cfg.Breaker.Timeout,
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		},
	})

	scheduler := worker.NewScheduler(
		notifications, disp, window.NewResolver(policy, cfg.Scheduler.Window), observer,
		worker.SchedulerOptions{
			Schedule:    cfg.Scheduler.Schedule,
			SkipOverlap: cfg.Scheduler.SkipOverlap,
		},
	)

	var (
		wg      sync.WaitGroup
		q       *queue.EventQueue
		closeMQ = func() {}
	)

	if cfg.RabbitMQ.Enabled {
		q, closeMQ = mustEventQueue(cfg.RabbitMQ)
		events := worker.NewEventWorker(q, eventmsg.NewHandler(reminderService))

		wg.Add(1)
		go func() {
			defer wg.Done()
			events.Run(ctx, cfg.Retry, cfg.Workers.Count)
		}()
	}

	reminderHandler := reminder.NewHandler(reminderService, nil, val, cfg.Retry)
	if q != nil {
		reminderHandler = reminder.NewHandler(reminderService, q, val, cfg.Retry)
	}

	r := router.New(router.Handlers{
		Trigger:      trigger.NewHandler(scheduler, db.Master),
		Notification: notification.NewHandler(notifService, val),
		Reminder:     reminderHandler,
	}, router.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		HTTPMetrics: httpMetrics,
		Gatherer:    registry,
	})
	s := server.New(cfg.Server.HTTPPort, r, server.Timeouts{
		Read:  cfg.Server.ReadTimeout,
		Write: cfg.Server.WriteTimeout,
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := scheduler.Run(ctx); err != nil {
			zlog.Logger.Error().Err(err).Msg("scheduler stopped")
			stop()
		}
	}()

	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.HTTPPort).Msg("starting server")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	// wait for the pass in flight and the event workers
	wg.Wait()

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Printf("failed to close master DB: %v", err)
	}

	for i, s := range db.Slaves {
		if err := s.Close(); err != nil {
			zlog.Logger.Printf("failed to close slave DB %d: %v", i, err)
		}
	}

	closeMQ()
}

// mustEventQueue connects to RabbitMQ and declares the calendar event queues.
// The returned func closes the channel and the connection.
func mustEventQueue(cfg config.RabbitMQ) (*queue.EventQueue, func()) {
	conn, err := rabbitmq.Connect(cfg.URL(), cfg.Retries, cfg.Pause)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
	}

	q, err := queue.NewEventQueue(ch)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create event queue")
	}

	return q, func() {
		if err := ch.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
		}

		if err := conn.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
		}
	}
}
