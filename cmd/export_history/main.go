package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"realTimeDash/config"
	"realTimeDash/internal/adapters/logger"
	"realTimeDash/internal/adapters/sqlite"
	"realTimeDash/internal/utils"
)

func main() {
	out := flag.String("out", "", "output CSV file (default: data/history_<timestamp>.csv, '-' for stdout)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewZeroLogger(cfg.LogLevel)
	ctx := context.Background()

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to open observation store: %v", err)
	}
	defer repo.Close()

	observations, err := repo.ReadAll(ctx)
	if err != nil {
		appLogger.Error(ctx, err, "Error reading persisted observations")
		log.Fatalf("Error reading persisted observations: %v", err)
	}
	appLogger.Info(ctx, "Read persisted observations", map[string]interface{}{"count": len(observations)})

	if *out == "-" {
		if err := utils.WriteObservationsCSV(os.Stdout, observations); err != nil {
			log.Fatalf("Error writing CSV: %v", err)
		}
		return
	}

	filename := *out
	if filename == "" {
		filename = fmt.Sprintf("data/history_%s.csv", time.Now().Format("20060102_150405"))
	}
	if err := utils.WriteObservationsToFile(observations, filename); err != nil {
		appLogger.Error(ctx, err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Saved to", map[string]interface{}{"filename": filename})
}
