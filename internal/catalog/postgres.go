package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cards (
	position  SERIAL,
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	version   TEXT NOT NULL DEFAULT '',
	promo     BOOLEAN NOT NULL DEFAULT FALSE,
	data      JSONB NOT NULL
)`

// PostgresSource reads and writes catalog definitions in a cards table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects to databaseURL and verifies the connection.
func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect catalog database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// EnsureSchema creates the cards table if it does not exist.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create cards table: %w", err)
	}
	return nil
}

// Load reads every definition in insertion order.
func (s *PostgresSource) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.pool.Query(ctx, "SELECT data FROM cards ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Definition, error) {
		var raw []byte
		if err := row.Scan(&raw); err != nil {
			return Definition{}, err
		}
		var def Definition
		if err := json.Unmarshal(raw, &def); err != nil {
			return Definition{}, fmt.Errorf("decode card row: %w", err)
		}
		return def, nil
	})
	if err != nil {
		return nil, fmt.Errorf("read cards: %w", err)
	}
	return New(defs), nil
}

// Count returns the number of stored definitions.
func (s *PostgresSource) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM cards").Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// Truncate removes every stored definition.
func (s *PostgresSource) Truncate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "TRUNCATE cards RESTART IDENTITY"); err != nil {
		return fmt.Errorf("truncate cards: %w", err)
	}
	return nil
}

// Import upserts definitions in batches, one transaction per batch.
// It returns how many rows were written before the first failure.
func (s *PostgresSource) Import(ctx context.Context, defs []Definition, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	imported := 0
	for start := 0; start < len(defs); start += batchSize {
		end := min(start+batchSize, len(defs))
		if err := s.importBatch(ctx, defs[start:end]); err != nil {
			return imported, err
		}
		imported += end - start
	}
	return imported, nil
}

func (s *PostgresSource) importBatch(ctx context.Context, defs []Definition) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, def := range defs {
		if def.ID == "" {
			return fmt.Errorf("card %q has no id", def.FullName())
		}
		data, err := json.Marshal(def)
		if err != nil {
			return fmt.Errorf("encode card %s: %w", def.ID, err)
		}
		batch.Queue(`INSERT INTO cards (id, name, version, promo, data) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, version = EXCLUDED.version,
			promo = EXCLUDED.promo, data = EXCLUDED.data`,
			def.ID, def.Name, def.Version, def.Promo, data)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert cards: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
