package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"store-dashboard-go/internal/client"
	"store-dashboard-go/internal/config"
	"store-dashboard-go/internal/logger"
)

const dateLayout = "2006-01-02"

// exports is the set of CSV reports pulled from the server.
var exports = []string{"sales", "expenses", "summary"}

func main() {
	startFlag := flag.String("start", "", "range start date (YYYY-MM-DD), defaults to 30 days ago")
	endFlag := flag.String("end", "", "range end date (YYYY-MM-DD), defaults to today")
	outFlag := flag.String("out", "", "output directory, overrides exporter.output_dir")
	flag.Parse()

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	start, end, err := resolveRange(*startFlag, *endFlag)
	if err != nil {
		log.Fatal("Invalid date range", zap.Error(err))
	}

	outputDir := cfg.Exporter.OutputDir
	if *outFlag != "" {
		outputDir = *outFlag
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatal("Failed to create output directory", zap.String("dir", outputDir), zap.Error(err))
	}

	c := client.NewClient(&cfg.Exporter, log)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := c.GetStatus(ctx); err != nil {
		log.Fatal("Dashboard server is not reachable", zap.String("base_url", cfg.Exporter.BaseURL), zap.Error(err))
	}

	if err := run(ctx, c, log, outputDir, start, end); err != nil {
		log.Fatal("Export failed", zap.Error(err))
	}
	log.Info("Export complete", zap.String("dir", outputDir))
}

func run(ctx context.Context, c client.ClientInterface, log *zap.Logger, outputDir string, start, end time.Time) error {
	summary, err := c.GetSummary(ctx, start, end)
	if err != nil {
		return err
	}
	log.Info("Period summary",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Float64("total_sales", summary.Summary.TotalSales),
		zap.Float64("total_expenses", summary.Summary.TotalExpenses),
		zap.Float64("net_profit", summary.Summary.NetProfit),
		zap.Float64("roi", summary.Summary.ROI),
	)

	suffix := fmt.Sprintf("%s_to_%s", start.Format(dateLayout), end.Format(dateLayout))
	for _, name := range exports {
		data, err := c.DownloadCSV(ctx, name, start, end)
		if err != nil {
			return err
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.csv", name, suffix))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Info("Wrote export", zap.String("file", path), zap.Int("bytes", len(data)))
	}
	return nil
}

func resolveRange(startRaw, endRaw string) (start, end time.Time, err error) {
	now := time.Now().UTC()
	end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start = end.AddDate(0, 0, -30)

	if startRaw != "" {
		if start, err = time.ParseInLocation(dateLayout, startRaw, time.UTC); err != nil {
			return start, end, fmt.Errorf("invalid start date %q: %w", startRaw, err)
		}
	}
	if endRaw != "" {
		if end, err = time.ParseInLocation(dateLayout, endRaw, time.UTC); err != nil {
			return start, end, fmt.Errorf("invalid end date %q: %w", endRaw, err)
		}
	}
	return start, end, nil
}
