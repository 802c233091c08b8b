// Package seeder loads the sense inventory from a RoWordNet export into
// PostgreSQL. It runs offline, not as part of the main server.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexiguard/lexiguard-backend/internal/domain"
	"github.com/lexiguard/lexiguard-backend/internal/seeder/rowordnet"
)

// SynsetBulkRepo is the repository surface the pipeline writes through.
type SynsetBulkRepo interface {
	BulkUpsert(ctx context.Context, synsets []domain.Synset) error
}

// Result holds the outcome of a pipeline run.
type Result struct {
	Parsed   int
	Inserted int
	Skipped  int
	Duration time.Duration
}

// Pipeline parses the export and writes synsets in batches.
type Pipeline struct {
	log  *slog.Logger
	repo SynsetBulkRepo
	cfg  Config
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, repo SynsetBulkRepo, cfg Config) *Pipeline {
	return &Pipeline{log: log, repo: repo, cfg: cfg}
}

// Run executes the seeding pipeline. With DryRun set, the export is parsed
// and validated but nothing is written.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	if p.cfg.RoWordNetPath == "" {
		return Result{}, fmt.Errorf("seeder: rowordnet_path is not configured")
	}

	parsed, err := rowordnet.Parse(p.cfg.RoWordNetPath)
	if err != nil {
		return Result{}, fmt.Errorf("seeder: parse rowordnet export: %w", err)
	}

	stats := parsed.Stats
	p.log.Info("parsed rowordnet export",
		slog.String("path", p.cfg.RoWordNetPath),
		slog.Int("total", stats.TotalSynsets),
		slog.Int("usable", len(parsed.Synsets)),
		slog.Int("nonlexicalized", stats.Nonlexicalized),
		slog.Int("empty", stats.EmptySynsets),
		slog.Int("duplicates", stats.Duplicates),
	)

	result := Result{
		Parsed:  len(parsed.Synsets),
		Skipped: stats.TotalSynsets - len(parsed.Synsets),
	}

	if p.cfg.DryRun {
		p.log.Info("dry run, skipping database writes")
		result.Duration = time.Since(start)
		return result, nil
	}

	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	for offset := 0; offset < len(parsed.Synsets); offset += batchSize {
		end := min(offset+batchSize, len(parsed.Synsets))
		batch := parsed.Synsets[offset:end]

		if err := p.repo.BulkUpsert(ctx, batch); err != nil {
			return result, fmt.Errorf("seeder: upsert batch at %d: %w", offset, err)
		}
		result.Inserted += len(batch)

		p.log.Debug("batch written",
			slog.Int("offset", offset),
			slog.Int("size", len(batch)),
		)
	}

	result.Duration = time.Since(start)

	p.log.Info("seeding complete",
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}
