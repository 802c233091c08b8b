// Command migrate applies database migrations for the sense inventory.
//
// Usage:
//
//	migrate [--dir migrations] <up|down|status>
//
// The database DSN is taken from the application configuration
// (DATABASE_DSN env or config file).
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/lexiguard/lexiguard-backend/internal/config"
)

func main() {
	dirFlag := flag.String("dir", "migrations", "directory with migration files")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		log.Fatal("usage: migrate [--dir migrations] <up|down|status>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	// goose.NewProvider correctly handles $$-delimited PL/pgSQL functions,
	// unlike the legacy goose.Up which splits on semicolons.
	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(*dirFlag))
	if err != nil {
		log.Fatalf("create goose provider: %v", err)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		for _, r := range results {
			fmt.Printf("applied %s\n", r.Source.Path)
		}
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		fmt.Printf("rolled back %s\n", result.Source.Path)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			log.Fatalf("migrate status: %v", err)
		}
		for _, s := range statuses {
			state := "pending"
			if s.State == goose.StateApplied {
				state = "applied"
			}
			fmt.Printf("%-8s %s\n", state, s.Source.Path)
		}
	default:
		log.Fatalf("unknown command %q (want up, down, or status)", command)
	}
}
