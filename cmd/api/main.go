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

	"github.com/jhoicas/co2-ledger/internal/application/auth"
	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/application/report"
	"github.com/jhoicas/co2-ledger/internal/application/tokens"
	infrapdf "github.com/jhoicas/co2-ledger/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/co2-ledger/internal/interfaces/http"
	"github.com/jhoicas/co2-ledger/pkg/config"
	"github.com/jhoicas/co2-ledger/pkg/logger"
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer be.close()

	costCache, closeCache := openCostCache(ctx, cfg.Cache, log)
	defer closeCache()

	verifier, err := tokens.NewThresholdVerifier(be.thresholds, cfg.Threshold.SecretKey)
	if err != nil {
		log.Fatal().Err(err).Msg("verificador de umbrales")
	}

	graph := ledger.NewCompositionGraph(be.operations, be.composition)
	rollup := ledger.NewRollupCalculator(graph, costCache)
	registrar := ledger.NewRegistrar(be.txRunner, ledger.NewCompanyRoleAuthorizer(be.companies), log)
	syncSvc := ledger.NewSyncService(be.operations, graph, log)
	accrualSvc := tokens.NewAccrualService(verifier, be.operations, be.txRunner, log)
	compensationSvc := tokens.NewCompensationService(be.txRunner, be.compensations)
	reportUC := report.NewReportUseCase(rollup, be.companies, infrapdf.NewMarotoReportGenerator())
	authUC := auth.NewAuthUseCase(be.users, be.companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "CO2 Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName:   cfg.App.Name,
		AuthUC:        authUC,
		Registrar:     registrar,
		Rollup:        rollup,
		Warehouse:     ledger.NewWarehouseLedger(be.warehouse),
		Sync:          syncSvc,
		Reports:       reportUC,
		Accrual:       accrualSvc,
		Compensations: compensationSvc,
		Companies:     be.companies,
		JWTSecret:     cfg.JWT.Secret,
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
