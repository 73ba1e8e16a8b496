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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	mongostore "github.com/jhoicas/ventas-api/internal/infrastructure/mongo"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ventas-api/internal/interfaces/http"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
	"github.com/jhoicas/ventas-api/pkg/telemetry"
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
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	productRepo, saleRepo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("conexión al almacén")
	}

	productUC := usecase.NewProductUseCase(productRepo)
	submitSaleUC := sales.NewSubmitSaleUseCase(productRepo, saleRepo, log)
	saleQueryUC := sales.NewQueryUseCase(saleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Ventas API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		SubmitSale: submitSaleUC,
		SaleQuery:  saleQueryUC,
		Log:        log,
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
	closeStore(shutdownCtx)
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cerrar trazas")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore construye los repositorios según STORE_DRIVER y devuelve la función de cierre.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (
	repository.ProductRepository, repository.SaleRepository, func(context.Context), error,
) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.New()
		return memory.NewProductRepository(store), memory.NewSaleRepository(store), func(context.Context) {}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("desconectar MongoDB")
			}
		}
		return mongostore.NewProductRepository(db), mongostore.NewSaleRepository(db), closeFn, nil

	default:
		if cfg.DB.Migrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				return nil, nil, nil, err
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.NewProductRepository(pool), postgres.NewSaleRepository(pool), func(context.Context) { pool.Close() }, nil
	}
}
