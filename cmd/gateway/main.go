// The gateway authenticates every inbound request, stamps the verified
// identity onto propagation headers, and reverse-proxies to the internal
// services. It is the platform's single trust boundary.
package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/gateway"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/config"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/httpserver"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/logger"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/metrics"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/middleware"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/token"
)

func main() {
	cfg := config.GatewayFromEnv()
	log := logger.New(cfg.LogLevel)

	routes, err := buildRoutes(cfg)
	if err != nil {
		log.Error("invalid upstream URL", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, 0)
	filter := gateway.NewFilter(tokens, cfg.PublicPathPrefixes, log, m)
	proxy := gateway.NewProxy(routes, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/api/*", filter.Middleware(proxy))

	srv := httpserver.New(cfg.Addr, r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("gateway listening", "addr", cfg.Addr)
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
		log.Error("gateway exited", "error", err)
		os.Exit(1)
	}
	log.Info("gateway stopped")
}

func buildRoutes(cfg config.Gateway) ([]gateway.Route, error) {
	targets := []struct {
		prefix string
		raw    string
	}{
		{"/api/auth", cfg.UserServiceURL},
		{"/api/users", cfg.UserServiceURL},
		{"/api/projects", cfg.ProjectServiceURL},
		{"/api/tasks", cfg.ProjectServiceURL},
		{"/api/notifications", cfg.NotifyServiceURL},
	}

	routes := make([]gateway.Route, 0, len(targets))
	for _, t := range targets {
		target, err := url.Parse(t.raw)
		if err != nil {
			return nil, err
		}
		routes = append(routes, gateway.Route{Prefix: t.prefix, Target: target})
	}
	return routes, nil
}
