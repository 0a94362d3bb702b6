package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/smartpos/pos-engine/internal/cache"
	"github.com/smartpos/pos-engine/internal/config"
	gateway "github.com/smartpos/pos-engine/internal/gateways"
	"github.com/smartpos/pos-engine/internal/handlers"
	"github.com/smartpos/pos-engine/internal/repository"
	"github.com/smartpos/pos-engine/internal/services"
	xhttp "github.com/smartpos/pos-engine/pkg/http"
	"github.com/smartpos/pos-engine/pkg/logger"
	"github.com/smartpos/pos-engine/pkg/prom"
	"github.com/smartpos/pos-engine/pkg/sqlite"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (loopback only; the desktop shell is the single client)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	dbDebug := false
	if config.Get().AppEnv == "dev" {
		dbDebug = true
	}
	db, err := sqlite.Open(sqlite.Config{
		Dir:  config.Get().DataDir,
		File: config.Get().DatabaseFile,
	}, dbDebug)
	if err != nil {
		logger.Error("failed opening database", "error", err)
		return
	}
	if err := db.Migrate(); err != nil {
		logger.Error("failed running migrations", "error", err)
		return
	}

	var dashboardCache cache.DashboardCache = &cache.NoopDashboardCache{}
	if config.Get().RedisAddr != "" {
		redisCache := cache.NewRedisDashboardCache(
			config.Get().RedisAddr,
			config.Get().RedisPassword,
			config.Get().RedisDatabase,
		)
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.Warn("redis unreachable, dashboard cache disabled", "error", err)
		} else {
			dashboardCache = redisCache
		}
	}

	printer, err := gateway.NewPrinterClient(gateway.PrinterConfig{
		URL:        config.Get().PrinterURL,
		Timeout:    time.Duration(config.Get().PrinterTimeoutMs) * time.Millisecond,
		MaxRetries: config.Get().PrinterMaxRetries,
		RetryDelay: 200 * time.Millisecond,
		MaxConns:   4,
	})
	if err != nil {
		logger.Error("failed creating printer client", "error", err)
		return
	}

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// services
	catalogService := services.NewCatalogService(categoryRepo, productRepo)
	ledgerService := services.NewLedgerService(transactionRepo, productRepo, settingsRepo)
	reportService := services.NewReportService(reportRepo, transactionRepo, dashboardCache,
		config.Get().ExportDir, config.Get().LowStockThreshold)
	settingsService := services.NewSettingsService(settingsRepo)
	receiptService := services.NewReceiptService(transactionRepo, settingsRepo, printer)

	// v1 handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService, receiptService)
	reportHandler := handlers.NewReportHandler(reportService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	healthHandler := handlers.NewHealthHandler(db)

	g := s.Router.Group("/api/v1")
	handlers.RegisterCatalogRoutes(g, catalogHandler)
	handlers.RegisterTransactionRoutes(g, transactionHandler)
	handlers.RegisterReportRoutes(g, reportHandler)
	handlers.RegisterSettingsRoutes(g, settingsHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	if config.Get().MetricsAddr != "" {
		if err := prom.Create(config.Get().AppName, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed creating metrics registry", "error", err)
			return
		}
		go prom.ListenAndServe(config.Get().MetricsAddr, config.Get().MetricsURI)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
		if err := db.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
