package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/finchat/internal/auth"
	"github.com/mmynk/finchat/internal/config"
	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/metrics"
	"github.com/mmynk/finchat/internal/middleware"
	"github.com/mmynk/finchat/internal/orchestrator"
	"github.com/mmynk/finchat/internal/recurring"
	"github.com/mmynk/finchat/internal/seed"
	"github.com/mmynk/finchat/internal/service"
	"github.com/mmynk/finchat/internal/storage/sqlite"
	"github.com/mmynk/finchat/internal/suggestion"
	"github.com/mmynk/finchat/internal/tools"
	"github.com/mmynk/finchat/internal/userlock"
	"github.com/mmynk/finchat/internal/workflow"
	"github.com/mmynk/finchat/pkg/api"
	"github.com/mmynk/finchat/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	l := ledger.New(store)
	tracker := workflow.New(store, l)
	locks := userlock.New()
	registry := tools.Default()
	orch := orchestrator.New(l, store, tracker, locks, orchestrator.WithMetrics(m), orchestrator.WithRegistry(registry))
	exec := suggestion.New(l, store, locks, suggestion.WithMetrics(m))
	scheduler := recurring.New(store, l, locks, recurring.WithMetrics(m))

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	if cfg.SeedDemo {
		if _, err := seed.Demo(context.Background(), authenticator, l, scheduler, time.Now()); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	interceptors := connect.WithInterceptors(
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(m),
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders:   []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	mount := func(path string, h http.Handler) {
		r.Handle(path+"*", h)
		slog.Debug("Service mounted", "path", path)
	}
	mount(api.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, slog.Default()), interceptors))
	mount(api.NewChatServiceHandler(service.NewChatService(orch, exec), interceptors))
	mount(api.NewFinanceServiceHandler(service.NewFinanceService(l), interceptors))
	mount(api.NewWorkflowServiceHandler(service.NewWorkflowService(tracker, l, registry), interceptors))
	mount(api.NewRecurringServiceHandler(service.NewRecurringService(scheduler), interceptors))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

