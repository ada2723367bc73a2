package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Cartera-api/internal/application/cartera"
	"github.com/jhoicas/Cartera-api/internal/application/inventory"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Accounts  *cartera.AccountUseCase
	Stock     *inventory.StockMovementUseCase
	JWTSecret string
	JWTIssuer string
	Location  *time.Location // zona de negocio para filtros por fecha
	Log       zerolog.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token con business_id.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Cartera
	accounts := protected.Group("/accounts")
	accountHandler := NewAccountHandler(deps.Accounts, deps.Log.With().Str("handler", "accounts").Logger())
	accounts.Post("/upsert", accountHandler.Upsert)
	accounts.Get("/", accountHandler.List)
	accounts.Get("/:id", accountHandler.GetByID)
	accounts.Post("/:id/transactions", accountHandler.AddTransaction)
	accounts.Post("/:id/cancel", accountHandler.Cancel)

	// Stock y kardex
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Stock, deps.Location, deps.Log.With().Str("handler", "stock").Logger())
	stock.Post("/", stockHandler.Provision)
	stock.Get("/low", stockHandler.LowStock)
	stock.Post("/reserve", stockHandler.Reserve)
	stock.Post("/receipts", stockHandler.Receipt)
	stock.Post("/sales", stockHandler.Sale)
	stock.Post("/returns", stockHandler.Return)
	stock.Post("/invoices/:id/lines", stockHandler.SaleLines)
	stock.Post("/purchases/:id/lines", stockHandler.PurchaseLines)
	stock.Get("/:product_id/:warehouse_id", stockHandler.Get)

	protected.Get("/kardex", stockHandler.Kardex)
}
