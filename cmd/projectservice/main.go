// The project service owns projects and tasks. Every committed task mutation
// publishes a lifecycle event to the task-event topic for the notification
// service to consume.
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

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/config"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/httpserver"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/kafka"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/kafka/producer"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/logger"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/metrics"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/middleware"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/events"
	projecthandler "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/handler"
	projectservice "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/service"
	projectstore "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/store"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/userclient"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/token"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/trust"
)

func main() {
	cfg := config.ProjectServiceFromEnv()
	log := logger.New(cfg.LogLevel)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := kafka.EnsureTopic(startupCtx, cfg.KafkaBrokers, cfg.TaskEventTopic, 3); err != nil {
		startupCancel()
		log.Error("ensure task event topic", "topic", cfg.TaskEventTopic, "error", err)
		os.Exit(1)
	}
	startupCancel()

	sender, err := producer.New(cfg.KafkaBrokers)
	if err != nil {
		log.Error("kafka producer", "error", err)
		os.Exit(1)
	}
	defer sender.Close()

	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, 0)
	trustFilter := trust.NewFilter(cfg.TrustMode, tokens, log, m)

	publisher := events.NewProducer(sender, cfg.TaskEventTopic, log, m)
	users := userclient.New(cfg.UserServiceURL, log)
	projects := projectservice.New(projectstore.NewInMemoryStore(), users, publisher, log)
	handler := projecthandler.New(projects, log)

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
		log.Info("project service listening",
			"addr", cfg.Addr,
			"topic", cfg.TaskEventTopic,
			"trust_mode", string(cfg.TrustMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("project service exited", "error", err)
		os.Exit(1)
	}
	log.Info("project service stopped")
}
