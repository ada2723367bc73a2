package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Cartera-api/internal/application/cartera"
	"github.com/jhoicas/Cartera-api/internal/application/inventory"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Cartera-api/internal/interfaces/http"
	"github.com/jhoicas/Cartera-api/pkg/clock"
	"github.com/jhoicas/Cartera-api/pkg/config"
	"github.com/jhoicas/Cartera-api/pkg/logger"
)

// stores puertos de persistencia según STORE_DRIVER.
type stores struct {
	tx        txRunner
	accounts  repository.AccountRepository
	documents repository.SourceDocumentRepository
	stock     repository.StockRepository
	kardex    repository.KardexRepository
	close     func()
}

// txRunner transacciones de cartera e inventario sobre el mismo backend.
type txRunner interface {
	cartera.TxRunner
	inventory.TxRunner
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
		Str("store", cfg.App.StoreDriver).
		Str("timezone", cfg.Business.Timezone).
		Msg("iniciando aplicación")

	clk, err := clock.NewBusiness(cfg.Business.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria de negocio")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer st.close()

	accountUC := cartera.NewAccountUseCase(
		st.tx, st.accounts, st.documents, clk, log.Component("cartera"),
		cartera.WithConflictRetries(cfg.Ledger.ConflictRetries),
	)
	stockUC := inventory.NewStockMovementUseCase(
		st.tx, st.stock, st.kardex, clk, log.Component("inventory"), cfg.Ledger.ConflictRetries,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Accounts:  accountUC,
		Stock:     stockUC,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
		Location:  clk.Location(),
		Log:       log.Component("http"),
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
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		store := memory.NewStore()
		if cfg.App.SeedFile != "" {
			if err := store.LoadSeedFile(ctx, cfg.App.SeedFile); err != nil {
				return nil, err
			}
			log.Info().Str("file", cfg.App.SeedFile).Msg("seed cargado en memoria")
		}
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		return &stores{
			tx:        store,
			accounts:  store.Accounts(),
			documents: store.Documents(),
			stock:     store.Stock(),
			kardex:    store.Kardex(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &stores{
		tx:        postgres.NewTxRunner(pool),
		accounts:  postgres.NewAccountRepository(pool),
		documents: postgres.NewSourceDocumentRepository(pool),
		stock:     postgres.NewStockRepository(pool),
		kardex:    postgres.NewKardexRepository(pool),
		close:     pool.Close,
	}, nil
}
