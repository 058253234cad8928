package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	_ "github.com/jhoicas/supply-chain-api/docs"
	"github.com/jhoicas/supply-chain-api/internal/application/analytics"
	"github.com/jhoicas/supply-chain-api/internal/application/auth"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
	"github.com/jhoicas/supply-chain-api/internal/application/procurement"
	"github.com/jhoicas/supply-chain-api/internal/application/temperature"
	"github.com/jhoicas/supply-chain-api/internal/application/usecase"
	"github.com/jhoicas/supply-chain-api/internal/infrastructure/dispatch"
	"github.com/jhoicas/supply-chain-api/internal/infrastructure/excel"
	"github.com/jhoicas/supply-chain-api/internal/infrastructure/jobs"
	infrapdf "github.com/jhoicas/supply-chain-api/internal/infrastructure/pdf"
	"github.com/jhoicas/supply-chain-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/supply-chain-api/internal/interfaces/http"
	"github.com/jhoicas/supply-chain-api/pkg/config"
	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

// systemUserID autor de las solicitudes creadas por la tarea diaria.
const systemUserID = "system"

// @title                       Supply Chain API
// @version                     1.0
// @description                 Inventario por lotes con cadena de frío, solicitudes de stock y órdenes de compra.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	supplierItemRepo := postgres.NewSupplierItemRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	batchRepo := postgres.NewInventoryBatchRepository(pool)
	transactionRepo := postgres.NewInventoryTransactionRepository(pool)
	salesRepo := postgres.NewSalesRepository(pool)
	requestRepo := postgres.NewStockRequestRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	receiptRepo := postgres.NewGoodsReceiptRepository(pool)
	temperatureRepo := postgres.NewTemperatureLogRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stock := inventory.NewStockCalculator(batchRepo, salesRepo, supplierItemRepo, supplierRepo, cfg.Replenishment.DefaultLeadTimeDays)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo, roleRepo, storeRepo)
	storeUC := usecase.NewStoreUseCase(storeRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	supplierItemUC := usecase.NewSupplierItemUseCase(supplierItemRepo, supplierRepo, itemRepo)
	itemUC := usecase.NewItemUseCase(itemRepo, stock)

	batchUC := inventory.NewBatchUseCase(batchRepo, transactionRepo, itemRepo, storeRepo)
	salesUC := inventory.NewSalesUseCase(txRunner, salesRepo)
	adjustUC := inventory.NewAdjustUseCase(txRunner)

	// Documentos de la orden: PDF imprimible y XML de despacho con huella C14N
	poUC := procurement.NewPOUseCase(
		txRunner, orderRepo, supplierRepo, storeRepo, itemRepo,
		infrapdf.NewMarotoPDFGenerator(), dispatch.NewXMLBuilderService(), log,
	)
	requestUC := procurement.NewStockRequestUseCase(
		txRunner, requestRepo, itemRepo, storeRepo, poUC, cfg.Replenishment.ExpressApproverID, log,
	)
	replenishmentUC := procurement.NewReplenishmentUseCase(
		storeRepo, itemRepo, requestRepo, stock, requestUC, cfg.Replenishment.ExtraQty, log,
	)
	receiptUC := procurement.NewGoodsReceiptUseCase(txRunner, receiptRepo, log)

	temperatureUC := temperature.NewUseCase(
		temperature.NewSimulator(analyticsRepo, batchRepo, temperatureRepo, log),
		temperature.NewMonitor(analyticsRepo, log),
		batchRepo, itemRepo, temperatureRepo,
	)

	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo, orderRepo, itemRepo, stock, log)
	reportUC := analytics.NewReportUseCase(analyticsRepo, excel.NewExporter())
	notificationUC := analytics.NewNotificationUseCase(analyticsRepo, orderRepo, requestRepo, log)

	// Tareas programadas; con Redis el lock evita que varias réplicas las repitan
	var locker jobs.Locker
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no responde, los jobs corren sin lock")
		} else {
			locker = jobs.NewRedisLocker(rdb)
		}
	}
	scheduler := jobs.NewScheduler(jobs.Config{
		DailyHour:           cfg.Jobs.AutoReplenishHour,
		DailyMinute:         cfg.Jobs.AutoReplenishMinute,
		Location:            cfg.Jobs.Location(),
		TemperatureEnabled:  cfg.Jobs.TemperatureEnabled,
		TemperatureInterval: cfg.Jobs.TemperatureInterval,
	},
		func(ctx context.Context) error {
			results, err := replenishmentUC.AutoReplenish(ctx, systemUserID, "")
			if err != nil {
				return err
			}
			log.Info().Int("created", len(results)).Msg("reposición automática diaria")
			return nil
		},
		func(ctx context.Context) error {
			_, err := temperatureUC.Tick(ctx)
			return err
		},
		locker, log,
	)
	scheduler.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Supply Chain API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "time": time.Now().UTC()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		UserUC:          userUC,
		StoreUC:         storeUC,
		SupplierUC:      supplierUC,
		SupplierItemUC:  supplierItemUC,
		ItemUC:          itemUC,
		BatchUC:         batchUC,
		SalesUC:         salesUC,
		AdjustUC:        adjustUC,
		StockRequestUC:  requestUC,
		ReplenishmentUC: replenishmentUC,
		POUC:            poUC,
		GoodsReceiptUC:  receiptUC,
		TemperatureUC:   temperatureUC,
		DashboardUC:     dashboardUC,
		ReportUC:        reportUC,
		NotificationUC:  notificationUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	scheduler.Wait()

	log.Info().Msg("aplicación detenida")
}
