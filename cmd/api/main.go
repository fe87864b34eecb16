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

	"github.com/jhoicas/farmacia-pro/internal/application/auth"
	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
	"github.com/jhoicas/farmacia-pro/internal/application/usecase"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
	"github.com/jhoicas/farmacia-pro/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/farmacia-pro/internal/infrastructure/pdf"
	"github.com/jhoicas/farmacia-pro/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/farmacia-pro/internal/interfaces/http"
	"github.com/jhoicas/farmacia-pro/pkg/clock"
	"github.com/jhoicas/farmacia-pro/pkg/config"
	"github.com/jhoicas/farmacia-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Inventory.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		productRepo  repository.ProductRepository
		batchRepo    repository.BatchRepository
		movementRepo repository.StockMovementRepository
		supplierRepo repository.SupplierRepository
		userRepo     repository.UserRepository
		txRunner     appinv.TxRunner
	)

	switch cfg.Inventory.StoreDriver {
	case "memory":
		// Modo dev/demo: todo en memoria, mismo modelo de concurrencia por producto.
		store := memory.NewStore()
		productRepo = memory.NewProductRepository(store)
		batchRepo = memory.NewBatchRepository(store)
		movementRepo = memory.NewStockMovementRepository(store)
		supplierRepo = memory.NewSupplierRepository(store)
		userRepo = memory.NewUserRepository(store)
		txRunner = memory.NewTxRunner(store)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		productRepo = postgres.NewProductRepository(pool)
		batchRepo = postgres.NewBatchRepository(pool)
		movementRepo = postgres.NewStockMovementRepository(pool)
		supplierRepo = postgres.NewSupplierRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	clk := clock.System{}

	ledgerUC := appinv.NewLedgerUseCase(txRunner, productRepo, batchRepo, clk)
	allocatorUC := appinv.NewAllocatorUseCase(txRunner, productRepo, batchRepo, clk, cfg.Inventory.AllocationRetries)
	movementUC := appinv.NewMovementUseCase(txRunner, productRepo, movementRepo, clk)
	reconcileUC := appinv.NewReconcileUseCase(productRepo, batchRepo, movementRepo)

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := appinv.NewReportUseCase(productRepo, batchRepo, pdfGenerator, clk, cfg.Inventory.ExpiryWindowDays)

	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		SupplierUC: supplierUC,
		AuthUC:     authUC,
		Ledger:     ledgerUC,
		Allocator:  allocatorUC,
		Movements:  movementUC,
		Reconcile:  reconcileUC,
		Reports:    reportUC,
		Clock:      clk,
		JWTSecret:  cfg.JWT.Secret,
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
