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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/facturati/facturati-api/internal/application/auth"
	"github.com/facturati/facturati-api/internal/application/billing"
	"github.com/facturati/facturati-api/internal/application/stock"
	"github.com/facturati/facturati-api/internal/application/usecase"
	infrapdf "github.com/facturati/facturati-api/internal/infrastructure/pdf"
	"github.com/facturati/facturati-api/internal/infrastructure/postgres"
	infraubl "github.com/facturati/facturati-api/internal/infrastructure/ubl"
	httpRouter "github.com/facturati/facturati-api/internal/interfaces/http"
	"github.com/facturati/facturati-api/pkg/config"
	"github.com/facturati/facturati-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("chargement de la configuration : " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Taux de TVA par défaut lu de la config, ex. "0.20".
	defaultTax, err := decimal.NewFromString(cfg.Billing.DefaultTaxRate)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.Billing.DefaultTaxRate).Msg("taux de TVA invalide")
	}
	billingCfg := billing.Config{
		Currency:       cfg.Billing.Currency,
		DefaultTaxRate: defaultTax,
		BankName:       cfg.Billing.BankName,
		BankRIB:        cfg.Billing.BankRIB,
	}

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo, defaultTax)
	orderUC := usecase.NewOrderUseCase(orderRepo, clientRepo, txRunner)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	dashboardUC := usecase.NewDashboardUseCase(analyticsRepo)

	clientUC := billing.NewClientUseCase(clientRepo)
	quoteUC := billing.NewQuoteUseCase(quoteRepo, clientRepo, productRepo, billingCfg)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, clientRepo, productRepo, billingCfg)
	convertQuoteUC := billing.NewConvertQuoteUseCase(txRunner)
	convertOrderUC := billing.NewConvertOrderUseCase(txRunner, productRepo, billingCfg)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	xmlBuilder := infraubl.NewXMLBuilder()
	exportUC := billing.NewExportUseCase(invoiceRepo, quoteRepo, companyRepo, clientRepo, pdfGenerator, xmlBuilder, billingCfg)

	stockHistoryUC := stock.NewHistoryUseCase(productRepo, movementRepo, orderRepo)
	stockAdjustUC := stock.NewAdjustUseCase(txRunner, productRepo)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
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
	app.Use(httpRouter.MetricsMiddleware())

	// Swagger UI en local : http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturati API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		ProductUC:     productUC,
		OrderUC:       orderUC,
		SupplierUC:    supplierUC,
		DashboardUC:   dashboardUC,
		ClientUC:      clientUC,
		QuoteUC:       quoteUC,
		InvoiceUC:     invoiceUC,
		CreateInvoice: createInvoiceUC,
		ConvertQuote:  convertQuoteUC,
		ConvertOrder:  convertOrderUC,
		ExportUC:      exportUC,
		StockHistory:  stockHistoryUC,
		StockAdjust:   stockAdjustUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP arrêté")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}
