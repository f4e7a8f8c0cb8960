package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolista-api/internal/application/analytics"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	CategoryUC     *usecase.CategoryUseCase
	AdvisorUC      *usecase.AdvisorUseCase // opcional
	SummaryUC      *analytics.SummaryUseCase
	SearchDebounce time.Duration
	Logger         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := app.Group("/api")

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, validate)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Upsert)
	if deps.AdvisorUC != nil {
		products.Post("/suggest", NewAdvisorHandler(deps.AdvisorUC, validate).Suggest)
	}
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, validate)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Delete("/:name", categoryHandler.Delete)

	if deps.SummaryUC != nil {
		api.Get("/stats", NewStatsHandler(deps.SummaryUC).Summary)
	}

	// Sesión en vivo: una vista con búsqueda con debounce por conexión.
	sessionHandler := NewSessionHandler(deps.ProductUC, deps.CategoryUC, validate, deps.SearchDebounce, deps.Logger)
	api.Use("/session", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/session", websocket.New(sessionHandler.Handle))
}
