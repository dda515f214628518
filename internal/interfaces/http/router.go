package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/co2-ledger/internal/application/auth"
	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/application/report"
	"github.com/jhoicas/co2-ledger/internal/application/tokens"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName   string
	AuthUC        *auth.AuthUseCase
	Registrar     *ledger.Registrar
	Rollup        *ledger.RollupCalculator
	Warehouse     *ledger.WarehouseLedger
	Sync          *ledger.SyncService
	Reports       *report.ReportUseCase
	Accrual       *tokens.AccrualService
	Compensations *tokens.CompensationService
	Companies     repository.CompanyRepository
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Auth: login público; register solo para usuarios ya autenticados de la misma empresa
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Lots: registro por rol y consulta de procedencia
	lots := protected.Group("/lots")
	lotHandler := NewLotHandler(deps.Registrar, deps.Rollup, deps.Reports)
	lots.Post("/production", RequireRole(entity.OperationProduction.AllowedRole()), lotHandler.RegisterProduction)
	lots.Post("/transformation", RequireRole(entity.OperationTransformation.AllowedRole()), lotHandler.RegisterTransformation)
	lots.Post("/transport", RequireRole(entity.OperationTransport.AllowedRole()), lotHandler.RegisterTransport)
	lots.Post("/sale", RequireRole(entity.OperationSale.AllowedRole()), lotHandler.RegisterSale)
	lots.Get("/:id", lotHandler.GetProvenance)
	lots.Get("/:id/unit-cost", lotHandler.GetUnitCost)
	lots.Get("/:id/report", lotHandler.DownloadReport)

	// Warehouse de la empresa del token
	warehouse := protected.Group("/warehouse")
	warehouseHandler := NewWarehouseHandler(deps.Warehouse)
	warehouse.Get("/", warehouseHandler.List)
	warehouse.Get("/:lotId", warehouseHandler.GetBalance)

	// Sincronización blockchain
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.Sync)
	syncGroup.Get("/pending", syncHandler.Pending)
	syncGroup.Get("/lots/:id", syncHandler.Composition)
	syncGroup.Post("/lots/:id/registered", syncHandler.MarkRegistered)

	// Tokens
	tokenGroup := protected.Group("/tokens")
	tokenHandler := NewTokenHandler(deps.Accrual)
	tokenGroup.Get("/delta", tokenHandler.Delta)
	tokenGroup.Post("/lots/:id/accrue", tokenHandler.Accrue)

	// Empresa y compensaciones
	companyHandler := NewCompanyHandler(deps.Companies, deps.Compensations)
	protected.Get("/companies/me", companyHandler.Me)
	protected.Post("/compensations", companyHandler.Compensate)
	protected.Get("/compensations", companyHandler.ListCompensations)
}
