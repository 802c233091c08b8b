// Package synset implements the sense inventory adapter using PostgreSQL.
// Synsets and their literals are reference data loaded offline by the seeder;
// the repository only ever reads them at request time.
package synset

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lexiguard/lexiguard-backend/internal/adapter/postgres"
	"github.com/lexiguard/lexiguard-backend/internal/domain"
)

// psql is the squirrel statement builder configured for PostgreSQL placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides read access to the sense inventory and bulk writes for the seeder.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new synset repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// CandidateSenseIDs returns the ids of all synsets containing the given
// literal, ordered by synset id. The literal is matched lowercased; an
// unknown literal yields an empty slice, not an error.
func (r *Repo) CandidateSenseIDs(ctx context.Context, literal string) ([]string, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.
		Select("DISTINCT synset_id").
		From("synset_literals").
		Where(sq.Eq{"literal": strings.ToLower(literal)}).
		OrderBy("synset_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidate query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("candidate sense ids for %q: %w", literal, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan candidate id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("candidate sense ids for %q: %w", literal, err)
	}

	return ids, nil
}

// SenseInfo returns the full synset record for the given id, including its
// literals ordered by position. Returns domain.ErrNotFound for unknown ids.
func (r *Repo) SenseInfo(ctx context.Context, id string) (*domain.Synset, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.
		Select("id", "pos", "definition").
		From("synsets").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sense query: %w", err)
	}

	var s domain.Synset
	row := querier.QueryRow(ctx, query, args...)
	if err := row.Scan(&s.ID, &s.PartOfSpeech, &s.Definition); err != nil {
		return nil, postgres.MapError(err, "synset", id)
	}

	literals, err := r.literalsFor(ctx, querier, id)
	if err != nil {
		return nil, postgres.MapError(err, "synset", id)
	}
	s.Literals = literals

	return &s, nil
}

func (r *Repo) literalsFor(ctx context.Context, querier postgres.Querier, synsetID string) ([]string, error) {
	query, args, err := psql.
		Select("literal").
		From("synset_literals").
		Where(sq.Eq{"synset_id": synsetID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build literals query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("literals for %s: %w", synsetID, err)
	}
	defer rows.Close()

	literals := []string{}
	for rows.Next() {
		var lit string
		if err := rows.Scan(&lit); err != nil {
			return nil, fmt.Errorf("scan literal: %w", err)
		}
		literals = append(literals, lit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("literals for %s: %w", synsetID, err)
	}

	return literals, nil
}

// BulkUpsert inserts or replaces a batch of synsets with their literals.
// Used by the seeder only. Each synset's literals are replaced wholesale so
// re-seeding is idempotent. Runs in a single transaction per call.
func (r *Repo) BulkUpsert(ctx context.Context, synsets []domain.Synset) error {
	if len(synsets) == 0 {
		return nil
	}

	return r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		querier := postgres.QuerierFromCtx(txCtx, r.pool)

		batch := &pgx.Batch{}
		for _, s := range synsets {
			batch.Queue(
				`INSERT INTO synsets (id, pos, definition)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (id) DO UPDATE SET pos = $2, definition = $3`,
				s.ID, s.PartOfSpeech, s.Definition,
			)
			batch.Queue(`DELETE FROM synset_literals WHERE synset_id = $1`, s.ID)
			for i, lit := range s.Literals {
				batch.Queue(
					`INSERT INTO synset_literals (synset_id, literal, position)
					 VALUES ($1, $2, $3)`,
					s.ID, strings.ToLower(lit), i,
				)
			}
		}

		results := querier.SendBatch(txCtx, batch)
		defer results.Close()

		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("bulk upsert synsets: %w", err)
			}
		}

		return nil
	})
}

// Ping verifies database connectivity for health checks.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
