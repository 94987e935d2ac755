package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"realTimeDash/config"
	"realTimeDash/internal/adapters/binanceclient"
	"realTimeDash/internal/adapters/httpview"
	"realTimeDash/internal/adapters/logger"
	"realTimeDash/internal/adapters/redispub"
	"realTimeDash/internal/adapters/sqlite"
	"realTimeDash/internal/adapters/twelvedata"
	"realTimeDash/internal/app"
	"realTimeDash/internal/ports"
	"realTimeDash/internal/source"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewZeroLogger(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Persistent Store
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize observation store: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(ctx, err, "Error closing observation store")
		}
	}()

	// 4. Initialize Price Client and one poller per symbol
	priceClient, err := newPriceClient(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize price client: %v", err)
	}
	prices := make([]ports.PriceSource, 0, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		poller, err := source.NewPricePoller(source.PricePollerConfig{
			Symbol:  symbol,
			Client:  priceClient,
			Logger:  appLogger,
			Timeout: cfg.FetchTimeout,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize price poller for %s: %v", symbol, err)
		}
		prices = append(prices, poller)
	}
	appLogger.Info(ctx, "Price pollers initialized", map[string]interface{}{"provider": cfg.PriceProvider, "symbols": cfg.Symbols})

	// 5. Initialize Render Boundary
	var publishers []ports.Publisher
	if cfg.HTTPAddr != "" {
		view, err := httpview.New(appLogger)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize HTTP view: %v", err)
		}
		publishers = append(publishers, view)
		go func() {
			if err := view.Serve(ctx, cfg.HTTPAddr); err != nil {
				appLogger.Error(ctx, err, "HTTP view stopped")
			}
		}()
	}
	if cfg.RedisAddr != "" {
		pub, err := redispub.New(ctx, redispub.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
			Logger:   appLogger,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize Redis publisher: %v", err)
		}
		defer pub.Close()
		publishers = append(publishers, pub)
		appLogger.Info(ctx, "Redis publisher initialized", map[string]interface{}{"addr": cfg.RedisAddr, "channel": cfg.RedisChannel})
	}

	// 6. Initialize Dashboard Service
	svc, err := app.NewDashboardService(
		app.Config{
			MaxPoints:    cfg.MaxPoints,
			TickInterval: cfg.TickInterval,
			StoreTimeout: cfg.StoreTimeout,
		},
		appLogger,
		source.NewSynthetic(),
		repo,
		prices,
		publishers...,
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize dashboard service: %v", err)
	}

	// 7. Run until SIGINT/SIGTERM
	if err := svc.Start(ctx); err != nil {
		appLogger.Error(ctx, err, "Dashboard service exited with error")
		log.Fatalf("FATAL: Dashboard service exited with error: %v", err)
	}
	appLogger.Info(ctx, "Application finished gracefully.")
}

func newPriceClient(cfg *config.Config, appLogger ports.Logger) (ports.PriceClient, error) {
	if cfg.PriceProvider == config.ProviderBinance {
		return binanceclient.New(binanceclient.Config{
			APIKey:     cfg.BinanceAPIKey,
			SecretKey:  cfg.BinanceSecretKey,
			UseTestnet: cfg.BinanceTestnet,
			Logger:     appLogger,
		})
	}
	return twelvedata.New(twelvedata.Config{
		BaseURL: cfg.TwelveDataURL,
		APIKey:  cfg.TwelveDataAPIKey,
		Timeout: cfg.FetchTimeout,
		Logger:  appLogger,
	})
}
