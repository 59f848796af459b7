package main

import (
	"context"
	"fmt"
	"os"

	"temperature-dashboard/internal/config"
	"temperature-dashboard/internal/services"
	"temperature-dashboard/internal/stats"
	"go.uber.org/zap"
)

// One-shot mode: fetch every configured city, print the summary report and
// export both formats.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	dashboard := services.NewDashboard(cfg, logger)

	result, err := dashboard.Fetch(context.Background())
	if err != nil {
		logger.Fatal("Fetch run failed to start", zap.Error(err))
	}

	summary, err := stats.Summarize(result.Records)
	if err != nil {
		logger.Error("No city could be fetched, nothing to report", zap.Error(err))
		os.Exit(1)
	}

	fmt.Println(stats.Render(summary))

	csvPath, err := dashboard.ExportCSV()
	if err != nil {
		logger.Fatal("CSV export failed", zap.Error(err))
	}
	fmt.Printf("Data saved to CSV: %s\n", csvPath)

	jsonPath, err := dashboard.ExportJSON()
	if err != nil {
		logger.Fatal("JSON export failed", zap.Error(err))
	}
	fmt.Printf("Data saved to JSON: %s\n", jsonPath)
}
