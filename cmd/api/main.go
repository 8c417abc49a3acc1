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

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios y fuente de eventos del backend elegido por STORAGE_DRIVER.
type storage struct {
	products repository.ProductRepository
	batches  repository.StockBatchRepository
	entries  repository.FinanceEntryRepository
	settings repository.SettingsRepository
	txRunner inventory.TxRunner
	upstream realtime.Upstream
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		bus := memory.NewBus()
		store := memory.NewStore(bus)
		return &storage{
			products: store.Products(),
			batches:  store.Batches(),
			entries:  store.Entries(),
			settings: store.Settings(),
			txRunner: store.TxRunner(),
			upstream: bus,
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		products: postgres.NewProductRepository(pool),
		batches:  postgres.NewStockBatchRepository(pool),
		entries:  postgres.NewFinanceEntryRepository(pool),
		settings: postgres.NewSettingsRepository(pool),
		txRunner: postgres.NewTxRunner(pool, cfg.Realtime.Channel),
		upstream: postgres.NewChangeFeed(pool, cfg.Realtime.Channel, log),
		close:    pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer store.close()

	rt := realtime.NewManager(store.upstream, log,
		realtime.WithBuffer(cfg.Realtime.Buffer),
		realtime.WithRetryDelay(cfg.Realtime.RetryDelay),
	)
	defer rt.Close()

	productUC := usecase.NewProductUseCase(store.products, store.batches)
	settingsUC := usecase.NewSettingsUseCase(store.settings)
	adjustUC := inventory.NewAdjustBatchesUseCase(store.txRunner, log)
	restockUC := inventory.NewRestockUseCase(store.txRunner, store.settings, log)
	auditUC := inventory.NewAuditUseCase(store.products, store.batches, store.entries, 0)

	// PDF: estado de cuenta de deuda con proveedor por lote
	statementUC := inventory.NewDebtStatementUseCase(store.batches, store.products, store.entries, infrapdf.NewMarotoStatementGenerator())

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		SettingsUC:  settingsUC,
		AdjustUC:    adjustUC,
		RestockUC:   restockUC,
		AuditUC:     auditUC,
		StatementUC: statementUC,
		Realtime:    rt,
		Auth: httpRouter.AuthConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
		},
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

	// Cerrar suscripciones primero para que los streams SSE terminen.
	rt.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
