package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/pkg/jwt"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC   *stock.StockUseCase
	Log       *logger.Logger
	JWTSecret string
	// Gatherer origen de /metrics; nil desactiva la ruta.
	Gatherer prometheus.Gatherer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.Log)
	stockGroup.Get("/groups", stockHandler.ListGroups)
	stockGroup.Get("/groups/tickets", stockHandler.Tickets)
	stockGroup.Post("/groups/duplicate", RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero), stockHandler.Duplicate)
	stockGroup.Get("/alerts", stockHandler.Alerts)
	stockGroup.Get("/export", stockHandler.Export)
}
