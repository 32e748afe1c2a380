package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"memberdoc/api"
	"memberdoc/docs"
	"memberdoc/internal/config"
	"memberdoc/internal/convert"
	"memberdoc/internal/database"
	"memberdoc/internal/database/migration"
	handlers "memberdoc/internal/http/handler"
	"memberdoc/internal/http/middleware"
	"memberdoc/internal/logger"
	"memberdoc/internal/merge"
	"memberdoc/internal/repository"
	"memberdoc/internal/repository/postgres"
	"memberdoc/internal/service"
	"memberdoc/internal/storage"
	"memberdoc/internal/telemetry"
	"memberdoc/internal/template"
)

// @title Member Document API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(cfg.Logger)
	defer func() { _ = log.Sync() }()

	_, _ = maxprocs.Set(maxprocs.Logger(log.Sugar().Debugf))

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Logger.ServiceName, cfg.Logger.ServiceVersion, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	if _, err := api.Load(ctx); err != nil {
		return err
	}

	// Generation events are optional; without DB_HOST the service runs stateless.
	var events repository.GenerationEventRepository
	db, err := database.Open(ctx, cfg.Database, log)
	switch {
	case errors.Is(err, database.ErrDisabled):
	case err != nil:
		return fmt.Errorf("connect database: %w", err)
	default:
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		events = postgres.NewGenerationEventPostgres(db)
	}

	tpl, err := newTemplateSource(ctx, cfg)
	if err != nil {
		return err
	}
	if err := tpl.Check(ctx); err != nil {
		// Not fatal: the file may be mounted after startup. /health reports it.
		log.Warn("template not readable", zap.String("template", tpl.String()), zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register service metrics: %w", err)
	}
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	docSvc := service.NewDocumentService(service.Deps{
		Template:  tpl,
		Merger:    merge.NewDocxMerger(),
		Converter: convert.NewOfficeConverter(cfg.Converter.Binary, cfg.Converter.Timeout(), convert.WithLogger(log)),
		Events:    events,
		Metrics:   metrics,
		TempDir:   cfg.Converter.TempDir,
		Logger:    log,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMW.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigin,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Content-Type,Accept,X-Request-ID",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Disposition,X-Request-ID",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		Documents: docSvc,
		Template:  tpl,
		DB:        db,
		Logger:    log,
	})

	configureDocs(cfg.AppHost)
	app.Get("/swagger/*", swagger.HandlerDefault)

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening",
			zap.String("addr", addr),
			zap.String("template", tpl.String()),
			zap.String("converter", cfg.Converter.Binary),
			zap.Bool("events_enabled", events != nil),
		)
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return app.ShutdownWithContext(sctx)
	})
	return g.Wait()
}

// configureDocs points the generated Swagger document at the public host.
func configureDocs(host string) {
	docs.SwaggerInfo.Host = host
	docs.SwaggerInfo.Schemes = []string{"http", "https"}
}

func newTemplateSource(ctx context.Context, cfg *config.AppConfig) (template.Source, error) {
	switch cfg.Template.Source {
	case config.TemplateSourceFile:
		return template.NewFileSource(cfg.Template.Path), nil
	case config.TemplateSourceMinIO:
		store, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("initialize object storage: %w", err)
		}
		return template.NewObjectSource(store, cfg.Template.ObjectKey), nil
	default:
		return nil, fmt.Errorf("unknown TEMPLATE_SOURCE %q", cfg.Template.Source)
	}
}
