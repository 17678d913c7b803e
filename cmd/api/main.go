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

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/auth"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/orders"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/stock"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/usecase"
	infrapdf "github.com/thiagocbrandao05/atelie-facil-api/internal/infrastructure/pdf"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/infrastructure/postgres"
	httpRouter "github.com/thiagocbrandao05/atelie-facil-api/internal/interfaces/http"
	"github.com/thiagocbrandao05/atelie-facil-api/pkg/config"
	"github.com/thiagocbrandao05/atelie-facil-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	productMovementRepo := postgres.NewProductStockMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	materialUC := usecase.NewMaterialUseCase(materialRepo)
	productUC := usecase.NewProductUseCase(productRepo, materialRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo)
	pricingUC := usecase.NewPricingUseCase(productRepo, settingsRepo)

	entryUC := stock.NewEntryUseCase(txRunner, materialRepo, movementRepo)
	alertsUC := stock.NewAlertsUseCase(materialRepo, movementRepo, productRepo, productMovementRepo)
	reportUC := stock.NewReportUseCase(materialRepo, movementRepo)
	finishedUC := stock.NewFinishedGoodsUseCase(productRepo, productMovementRepo)
	availabilityUC := stock.NewAvailabilityUseCase(orderRepo, materialRepo, movementRepo, productMovementRepo, settingsRepo)

	orderUC := orders.NewUseCase(txRunner, orderRepo, productRepo, customerRepo, settingsRepo)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	pdfGenerator := infrapdf.NewOrderPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ateliê Fácil API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MaterialUC:     materialUC,
		ProductUC:      productUC,
		CustomerUC:     customerUC,
		SettingsUC:     settingsUC,
		PricingUC:      pricingUC,
		EntryUC:        entryUC,
		AlertsUC:       alertsUC,
		ReportUC:       reportUC,
		FinishedUC:     finishedUC,
		AvailabilityUC: availabilityUC,
		OrderUC:        orderUC,
		AuthUC:         authUC,
		CompanyRepo:    companyRepo,
		PDFGen:         pdfGenerator,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
