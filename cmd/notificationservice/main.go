// The notification service consumes task lifecycle events into per-user
// notifications and serves the inbox API. The consumer group and the HTTP
// server run side by side and shut down together.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/cache"
	notifconsumer "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/consumer"
	notifhandler "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/handler"
	notifservice "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/service"
	notifstore "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/notification/store"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/config"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/httpserver"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/kafka"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/kafka/consumer"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/logger"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/metrics"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/middleware"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/postgres"
	platformredis "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/redis"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/token"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/trust"
)

const unreadCacheTTL = time.Minute

func main() {
	cfg := config.NotificationServiceFromEnv()
	log := logger.New(cfg.LogLevel)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := kafka.EnsureTopic(startupCtx, cfg.KafkaBrokers, cfg.TaskEventTopic, 3); err != nil {
		startupCancel()
		log.Error("ensure task event topic", "topic", cfg.TaskEventTopic, "error", err)
		os.Exit(1)
	}

	store, err := buildStore(startupCtx, cfg)
	if err != nil {
		startupCancel()
		log.Error("notification store", "error", err)
		os.Exit(1)
	}
	startupCancel()

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis client", "error", err)
		os.Exit(1)
	}
	var unreadCache *cache.UnreadCache
	if redisClient != nil {
		defer redisClient.Close()
		unreadCache = cache.NewUnreadCache(redisClient.Client, unreadCacheTTL, log)
	}

	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, 0)
	trustFilter := trust.NewFilter(cfg.TrustMode, tokens, log, m)

	notifications := notifservice.New(store, unreadCache, log, m, cfg.StoreWriteTimeout)
	eventHandler := notifconsumer.NewTaskEventHandler(notifications, log, m)

	eventConsumer, err := consumer.New(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.TaskEventTopic, eventHandler, log)
	if err != nil {
		log.Error("kafka consumer", "error", err)
		os.Exit(1)
	}

	handler := notifhandler.New(notifications)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler.Register(r, trustFilter)

	srv := httpserver.New(cfg.Addr, r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("notification service listening",
			"addr", cfg.Addr,
			"topic", cfg.TaskEventTopic,
			"group", cfg.ConsumerGroup,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return eventConsumer.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("notification service exited", "error", err)
		os.Exit(1)
	}
	log.Info("notification service stopped")
}

// buildStore selects Postgres when a DSN is configured and falls back to the
// in-memory store for local development.
func buildStore(ctx context.Context, cfg config.NotificationService) (notifstore.Store, error) {
	if cfg.PostgresDSN == "" {
		return notifstore.NewInMemoryStore(), nil
	}
	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	store := notifstore.NewPostgresStore(db)
	if err := store.Schema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
