package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/agent"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/api"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/auth"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/config"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/export"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/intent"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/observability"
	s3store "github.com/gaurav-aionos/AI-powered-business-analyser/internal/storage/s3"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/warehouse"
)

func main() {
	cfg, err := config.LoadFromEnv("analyser-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	wh, err := warehouse.Open(context.Background(), warehouse.Config{
		Driver:          cfg.Warehouse.Driver,
		DSN:             cfg.Warehouse.DSN,
		MaxOpenConns:    cfg.Warehouse.MaxOpenConns,
		MaxIdleConns:    cfg.Warehouse.MaxIdleConns,
		ConnMaxIdleTime: cfg.Warehouse.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Warehouse.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open warehouse", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = wh.Close() }()

	// Schema introspection is a startup requirement: without the table
	// mapping and summary neither tier of classification can work.
	mapping, err := wh.DetectEntityMapping(context.Background())
	if err != nil {
		logger.Error("failed to detect entity mapping", slog.Any("error", err))
		os.Exit(1)
	}
	schemaSummary, err := wh.BuildSchemaSummary(context.Background())
	if err != nil {
		logger.Error("failed to build schema summary", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("warehouse schema introspected",
		slog.Int("mapped_entities", len(mapping)),
		slog.String("driver", cfg.Warehouse.Driver),
	)

	var oracle intent.Oracle
	if cfg.AI.Enabled {
		oracle, err = intent.NewOpenAIOracle(intent.OracleConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Timeout:     cfg.AI.Timeout,
		})
		if err != nil {
			logger.Error("failed to initialize intent oracle", slog.Any("error", err))
			os.Exit(1)
		}
	}
	classifier := &intent.Classifier{
		Oracle:        oracle,
		Mapping:       mapping,
		SchemaSummary: schemaSummary,
		Logger:        logger,
	}

	analyserAgent := &agent.Agent{
		Classifier: classifier,
		Warehouse:  wh,
		Logger:     logger,
	}

	deps := api.Dependencies{
		Logger:     logger,
		Agent:      analyserAgent,
		Classifier: classifier,
		Schema:     wh,
		Mapping:    mapping,
		Readiness: api.CombineReadinessChecks(
			api.CheckWarehouse(wh),
			api.CheckObjectStoreConfig(cfg),
		),
		DependencyTimeout: time.Second,
	}

	if cfg.Export.Enabled {
		objectStore, err := s3store.New(context.Background(), s3store.Config{
			Endpoint:         cfg.ObjectStore.Endpoint,
			Region:           cfg.ObjectStore.Region,
			Bucket:           cfg.ObjectStore.Bucket,
			AccessKeyID:      cfg.ObjectStore.AccessKeyID,
			SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
			UseSSL:           cfg.ObjectStore.UseSSL,
			AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
		})
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		analyserAgent.Exporter = &export.Exporter{
			Store:  objectStore,
			Prefix: cfg.Export.Prefix,
			Logger: logger,
		}
		deps.Exports = objectStore
	}

	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
