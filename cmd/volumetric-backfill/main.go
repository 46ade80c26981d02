package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/volumetric/internal/backfill"
	"github.com/claude/volumetric/internal/config"
	"github.com/claude/volumetric/internal/pipeline"
	"github.com/claude/volumetric/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	userID := flag.Int("user", 1, "user ID to backfill")
	startStr := flag.String("start", "", "start date (YYYY-MM-DD), defaults to 1 year ago")
	endStr := flag.String("end", "", "end date (YYYY-MM-DD, exclusive), defaults to tomorrow")
	dryRun := flag.Bool("dry-run", false, "list sessions that would be processed without running the pipeline")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("volumetric-backfill", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	end := time.Now().AddDate(0, 0, 1)
	if *endStr != "" {
		end, err = time.Parse("2006-01-02", *endStr)
		if err != nil {
			log.Error("invalid end date", "value", *endStr, "error", err)
			os.Exit(1)
		}
	}
	start := end.AddDate(-1, 0, 0)
	if *startStr != "" {
		start, err = time.Parse("2006-01-02", *startStr)
		if err != nil {
			log.Error("invalid start date", "value", *startStr, "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loc, err := cfg.Analytics.Location()
	if err != nil {
		log.Error("failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	// Open the processing ledger
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".volumetric-backfill")

	state, err := backfill.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *dryRun {
		log.Info("DRY RUN mode — sessions will be listed but not processed")
	}

	pipe := pipeline.New(db, loc, log)
	runner := backfill.New(db, pipe, state, *dryRun, log)

	stats, err := runner.Run(ctx, *userID, start, end)
	if err != nil {
		log.Error("backfill failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("backfill complete")
}

func printStats(stats *backfill.Stats) {
	fmt.Println()
	fmt.Println("=== Backfill Summary ===")
	fmt.Printf("  Sessions total:     %d\n", stats.SessionsTotal)
	fmt.Printf("  Sessions processed: %d\n", stats.SessionsProcessed)
	fmt.Printf("  Sessions skipped:   %d (already processed)\n", stats.SessionsSkipped)
	fmt.Printf("  Sessions errored:   %d\n", stats.SessionsErrored)
	fmt.Println()
}
