package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"

	"github.com/sysguard/seqscore/internal/application/usecase"
	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/service"
	"github.com/sysguard/seqscore/internal/infrastructure/config"
	"github.com/sysguard/seqscore/internal/infrastructure/messaging"
	"github.com/sysguard/seqscore/internal/infrastructure/ml"
	"github.com/sysguard/seqscore/internal/infrastructure/postgres"
	"github.com/sysguard/seqscore/internal/infrastructure/report"
	"github.com/sysguard/seqscore/internal/infrastructure/telemetry"
	"github.com/sysguard/seqscore/internal/presentation/consumer"
	grpcpresentation "github.com/sysguard/seqscore/internal/presentation/grpc"
	"github.com/sysguard/seqscore/internal/presentation/rest"
	"github.com/sysguard/seqscore/pkg/auth"
	"github.com/sysguard/seqscore/pkg/kafka"
	"github.com/sysguard/seqscore/pkg/observability"
	pgutil "github.com/sysguard/seqscore/pkg/postgres"
)

const serviceName = "seqscore"

func main() {
	if err := run(); err != nil {
		slog.Error("seqscored exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.LogConfig())
	slog.SetDefault(logger)

	logger.Info("starting seqscored",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"environment", cfg.Environment,
	)

	// Initialize tracing.
	if cfg.OTelEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Endpoint:    cfg.OTelEndpoint,
			Insecure:    !cfg.IsProduction(),
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() {
				flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer flushCancel()
				_ = shutdown(flushCtx)
			}()
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	// Database connection and schema.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgutil.NewPool(dbCtx, pgutil.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	migrationsDir, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	if err := pgutil.RunMigrations(cfg.DatabaseURL, "file://"+migrationsDir); err != nil {
		return err
	}
	logger.Info("migrations applied", "dir", migrationsDir)

	// Wire infrastructure adapters.
	assessmentRepo := postgres.NewAssessmentRepository(pool)

	var eventPublisher port.EventPublisher
	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(cfg.KafkaConfig())
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer producer.Close()
		eventPublisher = messaging.NewKafkaPublisher(producer, cfg.KafkaTopic, logger)
	} else {
		logger.Warn("KAFKA_BROKER is empty, events are only logged")
		eventPublisher = messaging.NewLogPublisher(logger)
	}

	resolver, err := cfg.Resolver()
	if err != nil {
		return fmt.Errorf("configure artifact resolver: %w", err)
	}

	// Wire domain services.
	sequenceScorer := service.NewSequenceScorer(
		resolver,
		ml.NewPMMLLoader(cfg.FeaturePrefix),
		logger,
		service.WithStrictSequences(cfg.StrictSequences),
	)
	scorer, err := telemetry.NewInstrumentedScorer(sequenceScorer, otel.GetTracerProvider(), meterProvider)
	if err != nil {
		return fmt.Errorf("instrument scorer: %w", err)
	}

	// Wire use cases.
	scoreSequenceUC := usecase.NewScoreSequence(assessmentRepo, eventPublisher, scorer, cfg.MaliciousThreshold)
	assessReportUC := usecase.NewAssessReport(
		assessmentRepo,
		eventPublisher,
		scorer,
		report.NewLinuxAMD64Table(),
		logger,
		cfg.MaliciousThreshold,
	)
	getAssessmentUC := usecase.NewGetAssessment(assessmentRepo)
	listAssessmentsUC := usecase.NewListAssessments(assessmentRepo)

	// gRPC server.
	var interceptor grpc.UnaryServerInterceptor
	if cfg.AuthEnabled() {
		jwtCfg, err := cfg.JWTConfig()
		if err != nil {
			return fmt.Errorf("load jwt config: %w", err)
		}
		jwtService, err := auth.NewJWTService(jwtCfg)
		if err != nil {
			return fmt.Errorf("create jwt service: %w", err)
		}
		interceptor = auth.UnaryAuthInterceptor(jwtService, grpcpresentation.HealthMethods)
	} else {
		logger.Warn("authentication disabled, all calls run as the development tenant",
			"tenant_id", cfg.DevTenantID.String(),
		)
		interceptor = auth.UnaryStaticClaimsInterceptor(cfg.DevClaims())
	}

	grpcHandler := grpcpresentation.NewScoringServiceHandler(
		scoreSequenceUC,
		assessReportUC,
		getAssessmentUC,
		listAssessmentsUC,
		logger,
	)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:    cfg.GRPCAddress(),
		TLS:        cfg.TLSConfig(),
		Reflection: !cfg.IsProduction(),
	}, logger, grpcpresentation.UnaryLoggingInterceptor(logger), interceptor)
	if err != nil {
		return err
	}

	// HTTP server (health checks and metrics).
	healthHandler := rest.NewHealthHandler(logger, map[string]rest.Check{
		"database": func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) },
		"artifact": func(ctx context.Context) error {
			_, err := resolver.Resolve(ctx)
			return err
		},
	})
	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.LoggingMiddleware(logger)(httpMux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if cfg.KafkaEnabled() && cfg.KafkaIngestTopic != "" {
		sequenceConsumer := consumer.NewSequenceConsumer(scoreSequenceUC, logger)
		kafkaConsumer, err := kafka.NewConsumer(cfg.KafkaConfig(), cfg.KafkaIngestTopic, sequenceConsumer.Handle, logger)
		if err != nil {
			return fmt.Errorf("create kafka consumer: %w", err)
		}
		defer kafkaConsumer.Close()

		go func() {
			if err := kafkaConsumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer error: %w", err)
			}
		}()
	}

	logger.Info("seqscored started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"artifact_dir", cfg.ArtifactDir,
		"artifact_path", cfg.ArtifactPath,
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down seqscored")
	cancel()

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("meter provider shutdown error", "error", err)
	}

	logger.Info("seqscored stopped")
	return runErr
}
