// Command seeder populates the sense inventory from a RoWordNet JSON
// export. It is intended to be run offline, not as part of the main server.
//
// Flags:
//
//	--dry-run        parse the export without writing to DB
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lexiguard/lexiguard-backend/internal/adapter/postgres"
	"github.com/lexiguard/lexiguard-backend/internal/adapter/postgres/synset"
	"github.com/lexiguard/lexiguard-backend/internal/app"
	"github.com/lexiguard/lexiguard-backend/internal/config"
	"github.com/lexiguard/lexiguard-backend/internal/seeder"
)

// Compile-time interface assertion.
var _ seeder.SynsetBulkRepo = (*synset.Repo)(nil)

func main() {
	dryRunFlag := flag.Bool("dry-run", false, "parse the export without writing to DB")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	// Load app config (for DB connection).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	// Load seeder config.
	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *dryRunFlag {
		seederCfg.DryRun = true
	}

	// 30-minute context timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	// Connect to DB.
	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	repo := synset.New(pool, txm)

	// Run pipeline.
	pipeline := seeder.NewPipeline(logger, repo, *seederCfg)
	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully",
		slog.Int("parsed", result.Parsed),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped),
	)
}
