// @title                       WMS Ledger API
// @version                     1.0
// @description                 Ledger de movimientos de inventario con expansión de bundles.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/wms-ledger/docs"
	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/wms-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/resilience"
	httpRouter "github.com/jhoicas/wms-ledger/internal/interfaces/http"
	"github.com/jhoicas/wms-ledger/pkg/config"
	"github.com/jhoicas/wms-ledger/pkg/logger"
)

// stores puertos del ledger según STORE_DRIVER.
type stores struct {
	tx        inventory.TxRunner
	catalog   repository.CatalogRepository
	reasons   repository.ReasonCodeRepository
	movements repository.MovementRepository
	inventory repository.InventoryRepository
	invQuery  repository.InventoryQueryRepository
	bundles   repository.BundleRepository
	history   repository.HistoryRepository
	close     func()
}

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
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	m := metrics.New("wms")

	submitUC := inventory.NewSubmitMovementUseCase(st.tx, st.catalog, st.reasons, m, log,
		inventory.SubmitConfig{EnforceReasonCategory: cfg.Ledger.EnforceReasonCategory})
	queryUC := inventory.NewQueryUseCase(st.movements, st.inventory, st.invQuery, st.bundles, st.history, st.reasons,
		inventory.HistoryLimits{Default: cfg.Ledger.HistoryDefaultLimit, Max: cfg.Ledger.HistoryMaxLimit})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http"), m))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "WMS Ledger API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.DB.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Submit:        submitUC,
		Batch:         inventory.NewBatchSubmitUseCase(submitUC, cfg.Ledger.BatchMaxItems, log),
		Delete:        inventory.NewDeleteMovementUseCase(st.tx, m, log),
		Query:         queryUC,
		LowStock:      inventory.NewLowStockUseCase(st.invQuery),
		Reconcile:     inventory.NewReconcileUseCase(st.tx, m, log),
		HistoryReport: inventory.NewHistoryReportUseCase(queryUC, infrapdf.NewHistoryReportGenerator()),
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

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.DB.Driver == config.StoreDriverMemory {
		s := memory.New()
		if err := s.LoadDemoCatalog(); err != nil {
			return nil, err
		}
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return &stores{
			tx:        s.TxRunner(),
			catalog:   s.Catalog(),
			reasons:   s.ReasonCodes(),
			movements: s.Movements(),
			inventory: s.Inventory(),
			invQuery:  s.InventoryQuery(),
			bundles:   s.Bundles(),
			history:   s.History(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	tx := resilience.NewBreakerTxRunner(postgres.NewTxRunner(pool), resilience.BreakerConfig{
		Name:                "postgres",
		ConsecutiveFailures: uint32(cfg.DB.BreakerFailures),
		OpenTimeout:         time.Duration(cfg.DB.BreakerTimeoutSeconds) * time.Second,
	}, log.Named("store"))
	return &stores{
		tx:        tx,
		catalog:   postgres.NewCatalogRepository(pool),
		reasons:   postgres.NewReasonCodeRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		inventory: postgres.NewInventoryRepository(pool),
		invQuery:  postgres.NewInventoryQueryRepository(pool),
		bundles:   postgres.NewBundleRepository(pool),
		history:   postgres.NewHistoryRepository(pool),
		close:     pool.Close,
	}, nil
}
