package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sybilguard/internal/activity"
	"sybilguard/internal/identity/handler"
	"sybilguard/internal/identity/honeypot"
	identitymetrics "sybilguard/internal/identity/metrics"
	"sybilguard/internal/identity/ports"
	"sybilguard/internal/identity/scheduler"
	"sybilguard/internal/identity/service"
	jwttoken "sybilguard/internal/jwt_token"
	"sybilguard/internal/platform/config"
	"sybilguard/internal/platform/httpserver"
	"sybilguard/internal/platform/logger"
	platformmetrics "sybilguard/internal/platform/metrics"
	"sybilguard/pkg/platform/audit/publisher"
	"sybilguard/pkg/platform/circuit"
	"sybilguard/pkg/platform/middleware/admin"
	request "sybilguard/pkg/platform/middleware/request"
	"sybilguard/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close(context.Background())

	auditPublisher := publisher.NewPublisher(infra.auditStore,
		publisher.WithAsyncBuffer(1024),
		publisher.WithLogger(log),
	)
	defer auditPublisher.Close()

	identityMetrics := identitymetrics.New()
	httpMetrics := platformmetrics.New(prometheus.DefaultRegisterer)

	provider, err := newActivityProvider(cfg.Activity, log)
	if err != nil {
		return err
	}

	serviceOpts := []service.Option{
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(identityMetrics),
		service.WithConfig(&cfg.Identity),
	}
	if cfg.Identity.HoneypotEnabled {
		decoys, err := honeypot.New(infra.verdicts, cfg.HoneypotDecoys)
		if err != nil {
			return err
		}
		serviceOpts = append(serviceOpts, service.WithHoneypot(decoys))
	}
	svc, err := service.New(infra.matrices, infra.graph, infra.verdicts, provider, serviceOpts...)
	if err != nil {
		return err
	}
	if err := svc.Initialize(ctx); err != nil {
		// Overrides retry initialization lazily; keep serving.
		log.WarnContext(ctx, "identity engine initialization failed", "error", err)
	}

	sched, err := scheduler.New(svc,
		scheduler.WithLogger(log),
		scheduler.WithMetrics(identityMetrics),
		scheduler.WithAuditPublisher(auditPublisher),
		scheduler.WithInterval(cfg.Identity.AnalysisInterval),
		scheduler.WithWorkers(cfg.Identity.Workers),
	)
	if err != nil {
		return err
	}
	if cfg.Identity.Enabled {
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(cfg.ShutdownTimeout); err != nil {
				log.Warn("scheduler shutdown", "error", err)
			}
		}()
	} else {
		log.InfoContext(ctx, "sybil protection disabled; background analysis not started")
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience,
		jwttoken.WithLeeway(cfg.JWTLeeway),
	)
	identityHandler := handler.New(svc, sched, log, handler.WithAuditLog(infra.auditStore))

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(request.RequestID)
	r.Use(request.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	identityHandler.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdmin(jwttoken.ForAdmin(jwtService), log))
		identityHandler.RegisterAdmin(r)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", healthHandler(infra.healthChecks()))

	log.Info("starting sybilguard", "addr", cfg.Addr, "mode", cfg.Identity.Mode)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, r), cfg.ShutdownTimeout, log)
}

func newActivityProvider(cfg config.ActivityConfig, log *slog.Logger) (ports.ActivityProvider, error) {
	if cfg.URL == "" {
		log.Warn("ACTIVITY_API_URL not set; analyses will fail until a provider is configured")
		return activity.Unconfigured{}, nil
	}
	breaker := circuit.New("activity-api",
		circuit.WithFailureThreshold(cfg.FailureThreshold),
		circuit.WithCooldown(cfg.Cooldown),
	)
	client, err := activity.New(cfg.URL,
		activity.WithAPIKey(cfg.APIKey),
		activity.WithLogger(log),
		activity.WithBreaker(breaker),
		activity.WithRetries(cfg.MaxRetries, cfg.RetryDelay),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
