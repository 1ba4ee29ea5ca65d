// The user service owns accounts and credentials. It issues identity tokens
// on login and serves user lookups to the other services.
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
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/logger"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/metrics"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/middleware"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/token"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/trust"
	userhandler "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/user/handler"
	userservice "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/user/service"
	userstore "github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/user/store"
)

func main() {
	cfg := config.UserServiceFromEnv()
	log := logger.New(cfg.LogLevel)

	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, cfg.TokenTTL)
	trustFilter := trust.NewFilter(cfg.TrustMode, tokens, log, m)

	users := userservice.New(userstore.NewInMemoryStore(), tokens, log)
	handler := userhandler.New(users, log)

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
		log.Info("user service listening", "addr", cfg.Addr, "trust_mode", string(cfg.TrustMode))
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
		log.Error("user service exited", "error", err)
		os.Exit(1)
	}
	log.Info("user service stopped")
}
