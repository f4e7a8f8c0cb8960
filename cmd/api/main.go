package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/ecolista-api/internal/application/analytics"
	"github.com/jhoicas/ecolista-api/internal/application/ports"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
	"github.com/jhoicas/ecolista-api/internal/domain/repository"
	infraai "github.com/jhoicas/ecolista-api/internal/infrastructure/ai"
	"github.com/jhoicas/ecolista-api/internal/infrastructure/memory"
	"github.com/jhoicas/ecolista-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ecolista-api/internal/interfaces/http"
	"github.com/jhoicas/ecolista-api/pkg/config"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("ai", cfg.AI.Provider).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var store repository.ProductStore
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store = memory.NewProductStore()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		store = postgres.NewProductRepository(pool)
	}

	productUC := usecase.NewProductUseCase(store, log)
	categoryUC := usecase.NewCategoryUseCase(store, log)

	var advisor ports.EcoAdvisor
	switch cfg.AI.Provider {
	case config.AIProviderAnthropic:
		advisor = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	case config.AIProviderGemini:
		advisor = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	}
	advisorUC := usecase.NewAdvisorUseCase(advisor, cfg.AI.Timeout, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "EcoLista API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      productUC,
		CategoryUC:     categoryUC,
		AdvisorUC:      advisorUC,
		SummaryUC:      analytics.NewSummaryUseCase(store),
		SearchDebounce: cfg.Search.Debounce,
		Logger:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
