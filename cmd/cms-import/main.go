// Command cms-import copies entries from the headless CMS into the database.
// Entries that already exist are skipped, so the command can be re-run.
//
// Flags:
//
//	--max      stop after this many CMS documents (default: all)
//	--timeout  overall deadline (default: 30m)
//	--config   config file (default: $CONFIG_PATH or ./config.yaml)
//
// Exit codes: 0 = success, 1 = error, 2 = finished with failed entries.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartmarshall/polyglot-dictionary/internal/app"
	"github.com/heartmarshall/polyglot-dictionary/internal/config"
	"github.com/heartmarshall/polyglot-dictionary/internal/service/cms"
)

func main() {
	maxFlag := flag.Int("max", 0, "stop after this many CMS documents (0 = all)")
	timeoutFlag := flag.Duration("timeout", 30*time.Minute, "overall deadline")
	configPath := flag.String("config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if !cfg.CMS.Enabled() {
		logger.Error("cms is not configured, set CMS_BASE_URL and CMS_API_KEY")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeoutFlag)
	defer cancel()

	deps, err := app.Wire(ctx, cfg, logger)
	if err != nil {
		logger.Error("wire dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.Close()

	start := time.Now()
	result, err := deps.CMS.Import(ctx, cms.ImportInput{MaxEntries: *maxFlag})
	if err != nil {
		attrs := []any{slog.String("error", err.Error())}
		if result != nil {
			attrs = append(attrs, slog.Int("fetched", result.Fetched), slog.Int("created", result.Created))
		}
		logger.Error("cms import failed", attrs...)
		deps.Close()
		os.Exit(1)
	}

	logger.Info("cms import completed",
		slog.Int("fetched", result.Fetched),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
		slog.Int("degraded", result.Degraded),
		slog.Duration("elapsed", time.Since(start)),
	)

	if result.Failed > 0 {
		deps.Close()
		os.Exit(2)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}
