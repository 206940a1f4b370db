package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeovahfialho/portfolio/internal/api"
	"github.com/jeovahfialho/portfolio/internal/config"
	"github.com/jeovahfialho/portfolio/internal/quotes"
	"github.com/jeovahfialho/portfolio/internal/service"
	"github.com/jeovahfialho/portfolio/internal/storage/cache"
	"github.com/jeovahfialho/portfolio/internal/storage/postgres"
	pkglogger "github.com/jeovahfialho/portfolio/pkg/logger"
)

// @title Portfolio Equity API
// @version 1.0
// @description API para consulta de cotações diárias ajustadas
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Erro ao carregar configuração:", err)
	}

	if err := pkglogger.Init(cfg.LogLevel, cfg.Development(), "stdout"); err != nil {
		log.Fatal("Erro ao inicializar logger:", err)
	}
	defer pkglogger.Close()

	client, err := quotes.NewClient(quotes.Options{
		APIKey:     cfg.VantageAPIKey,
		BaseURL:    cfg.VantageBaseURL,
		HTTPClient: quotes.NewHTTPClient(cfg.UpstreamTimeout),
	})
	if err != nil {
		pkglogger.Fatal("erro ao criar cliente de cotações", zap.Error(err))
	}

	checks := map[string]api.HealthChecker{}

	// Registro de consultas (opcional)
	var recorder service.LookupRecorder = service.NoopRecorder{}
	var lister api.LookupLister
	if db := connectPostgres(cfg); db != nil {
		defer db.Close()
		repo := db.Lookups()
		recorder = repo
		lister = repo
		checks["postgres"] = db
	}

	// Contadores do rate limiter (memória quando Redis não está configurado)
	var limiterStorage fiber.Storage
	if storage := connectRedis(cfg); storage != nil {
		defer storage.Close()
		limiterStorage = storage
		checks["redis"] = storage
	}

	equityService := service.NewEquityService(client, recorder)
	handler := api.NewHandler(equityService, lister, checks)

	app := fiber.New(fiber.Config{
		Prefork:                 false,
		ServerHeader:            "Portfolio",
		DisableStartupMessage:   true,
		AppName:                 "Portfolio Equity API v" + api.Version,
		ReadTimeout:             cfg.APIReadTimeout,
		WriteTimeout:            cfg.APIWriteTimeout,
		IdleTimeout:             120 * time.Second,
		ReadBufferSize:          8192,
		WriteBufferSize:         8192,
		ProxyHeader:             "X-Forwarded-For",
		EnableTrustedProxyCheck: true,
		BodyLimit:               1 * 1024 * 1024,
		JSONEncoder:             json.Marshal,
		JSONDecoder:             json.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	api.SetupRoutes(app, handler, api.RouteOptions{
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
		LimiterStorage:  limiterStorage,
		MetricsEnabled:  cfg.MetricsEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pkglogger.Info("iniciando servidor", zap.String("addr", cfg.Addr()))
		if err := app.Listen(cfg.Addr()); err != nil {
			return fmt.Errorf("erro no servidor: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		pkglogger.Info("encerrando servidor")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		pkglogger.Error("servidor finalizado com erro", zap.Error(err))
		os.Exit(1)
	}
}

func connectPostgres(cfg *config.Config) *postgres.DB {
	if cfg.DatabaseURL == "" {
		pkglogger.Info("DATABASE_URL não configurado, registro de consultas desabilitado")
		return nil
	}

	db, err := postgres.Open(context.Background(), cfg)
	if err != nil {
		pkglogger.Warn("PostgreSQL não disponível, continuando sem registro de consultas", zap.Error(err))
		return nil
	}

	pkglogger.Info("✅ Conectado ao PostgreSQL")
	return db
}

func connectRedis(cfg *config.Config) *cache.RedisStorage {
	if cfg.RedisURL == "" {
		return nil
	}

	storage, err := cache.NewRedisStorage(cfg)
	if err != nil {
		pkglogger.Warn("Redis não disponível, rate limiter em memória", zap.Error(err))
		return nil
	}

	pkglogger.Info("✅ Conectado ao Redis")
	return storage
}
