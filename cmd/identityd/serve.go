package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/cloudapi/identity"
	"github.com/cloudapi/identity/internal/api"
	"github.com/cloudapi/identity/internal/config"
	"github.com/cloudapi/identity/internal/database"
	"github.com/cloudapi/identity/jwks"
	"github.com/cloudapi/identity/validator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the identity server",
	Long: `Load the key set once, then serve GET / with the caller's claims.
A failure to load the key set aborts startup.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel == "" {
		initLogger(cfg.LogLevel)
	}
	logger := zap.L()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	keySet, err := loadKeySet(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to load JWKS", zap.Error(err))
	}
	for _, key := range keySet.Keys() {
		logger.Debug("Loaded key", zap.String("kid", key.ID), zap.String("alg", key.Algorithm))
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Error creating postgres pool", zap.Error(err))
	}
	defer db.Close()
	if db != nil {
		logger.Debug("Postgres pool created")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	middleware, err := newMiddleware(cfg, keySet, logger, registry)
	if err != nil {
		return err
	}

	serverOpts := []api.Option{
		api.WithAllowedOrigins(cfg.Server.CORSAllowedOrigins),
		api.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		api.WithLogger(logger),
	}
	if db != nil {
		serverOpts = append(serverOpts, api.WithReadiness(db))
	}

	server := &http.Server{
		Addr:         net.JoinHostPort("0.0.0.0", cfg.Server.Port),
		Handler:      api.NewServer(middleware, serverOpts...).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return serve(ctx, server, cfg.Server.ShutdownTimeout, logger)
}

func loadKeySet(ctx context.Context, cfg *config.Config) (*jwks.KeySet, error) {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if cfg.Auth.DiscoverIssuer {
		issuerURL, err := url.Parse(cfg.IssuerURL())
		if err != nil {
			return nil, fmt.Errorf("invalid issuer URL: %w", err)
		}
		return jwks.Load(loadCtx, jwks.WithIssuerURL(issuerURL))
	}

	certsURL, err := url.Parse(cfg.JWKSURL())
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}
	return jwks.Load(loadCtx, jwks.WithCustomJWKSURI(certsURL))
}

func validatorOptions(cfg *config.Config, keySet *jwks.KeySet) []validator.Option {
	opts := []validator.Option{
		validator.WithKeySet(keySet),
		validator.WithAllowedClockSkew(cfg.Auth.ClockSkew),
	}
	if cfg.Auth.KeySelection == "first" {
		opts = append(opts, validator.WithKeySelection(validator.FirstKey))
	}
	if cfg.Auth.Issuer != "" {
		opts = append(opts, validator.WithIssuer(cfg.Auth.Issuer))
	}
	if len(cfg.Auth.Audience) > 0 {
		opts = append(opts, validator.WithAudiences(cfg.Auth.Audience))
	}
	return opts
}

func newMiddleware(cfg *config.Config, keySet *jwks.KeySet, logger *zap.Logger, reg prometheus.Registerer) (*identity.Middleware, error) {
	v, err := validator.New(validatorOptions(cfg, keySet)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	metrics, err := identity.NewPrometheusMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return identity.New(
		identity.WithValidator(v),
		identity.WithLogger(identity.NewZapLogger(logger.Sugar())),
		identity.WithMetrics(metrics),
		identity.WithTracer(identity.NewOpenTelemetryTracer(otel.Tracer("github.com/cloudapi/identity"))),
	)
}

func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Using port", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
