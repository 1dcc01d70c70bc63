// @title Analytics Query Service
// @version 1.0
// @description Team-level website analytics over PostgreSQL or ClickHouse.
// @BasePath /
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsCH "analytics-query-service/internal/analytics/adapters/clickhouse"
	analyticsHttp "analytics-query-service/internal/analytics/adapters/http/fiber"
	analyticsPg "analytics-query-service/internal/analytics/adapters/postgres"
	"analytics-query-service/internal/analytics/core/domain"
	analyticsUsecase "analytics-query-service/internal/analytics/core/usecase"
	"analytics-query-service/internal/config"
	"analytics-query-service/internal/logger"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "analytics-query-service/docs"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Service.Environment)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	backend, err := cfg.Backend()
	if err != nil {
		appLogger.Fatal("Invalid analytics backend", zap.Error(err))
	}

	// Postgres holds team membership, so it is opened for either backend.
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		appLogger.Fatal("Failed to open postgres", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetimeSec) * time.Second)

	if err := db.Ping(); err != nil {
		appLogger.Fatal("Failed to ping postgres", zap.Error(err))
	}

	pgDB := analyticsPg.NewSQLDB(db)

	// Engines
	relational := &analyticsUsecase.Engine{
		Dialect:  analyticsPg.NewDialect(),
		Executor: analyticsPg.NewExecutor(pgDB),
	}

	var columnar *analyticsUsecase.Engine
	if backend == domain.Columnar {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		chClient, err := analyticsCH.NewClient(ctx, &cfg.ClickHouse, appLogger)
		cancel()
		if err != nil {
			appLogger.Fatal("Failed to initialize ClickHouse client", zap.Error(err))
		}
		defer chClient.Close()

		columnar = &analyticsUsecase.Engine{
			Dialect:  analyticsCH.NewDialect(),
			Executor: analyticsCH.NewExecutor(chClient.Conn()),
		}
	}

	dispatcher, err := analyticsUsecase.NewDispatcher(backend)
	if err != nil {
		appLogger.Fatal("Failed to create dispatcher", zap.Error(err))
	}

	// Usecases
	analyticsUC := analyticsUsecase.NewAnalyticsUseCase(dispatcher, relational, columnar, appLogger)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	analyticsHandler := analyticsHttp.NewAnalyticsHandler(
		analyticsUC,
		analyticsPg.NewTeamAccessChecker(pgDB),
		appLogger,
	)
	app.Get("/teams/:id/pageviews", analyticsHandler.GetPageviews)
	app.Get("/teams/:id/stats", analyticsHandler.GetStats)
	app.Get("/teams/:id/summary", analyticsHandler.GetSummary)
	app.Get("/teams/:id/metrics", analyticsHandler.GetMetrics)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	addr := ":" + cfg.Service.APIPort
	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Error("Fiber stopped", zap.Error(err))
		}
	}()

	appLogger.Info("Server started",
		zap.String("addr", addr),
		zap.Stringer("backend", backend))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	appLogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Fiber shutdown error", zap.Error(err))
	}

	appLogger.Info("Server exiting")
}
