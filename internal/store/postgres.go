package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// ImportCreatedBy marks rows inserted by the CSV import
const ImportCreatedBy = "csv-import"

// DefaultChunkSize is how many rows go into one INSERT statement
const DefaultChunkSize = 500

// importColumns is the number of bind parameters per inserted row
const importColumns = 5

// maxBindParams is the PostgreSQL limit on parameters in one statement
const maxBindParams = 65535

// MaxChunkSize is the largest chunk whose INSERT stays within maxBindParams
const MaxChunkSize = maxBindParams / importColumns

const postgresSchema = `
CREATE TABLE IF NOT EXISTS quiz_questions (
	id            BIGSERIAL PRIMARY KEY,
	question_text TEXT        NOT NULL,
	options       JSONB       NOT NULL,
	correct_index INT         NOT NULL,
	difficulty    TEXT        NOT NULL,
	is_active     BOOLEAN     NOT NULL DEFAULT TRUE,
	created_by    TEXT        NOT NULL DEFAULT 'seed',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PoolConfig sizes the connection pool
type PoolConfig struct {
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// NewPool connects to PostgreSQL
func NewPool(ctx context.Context, dsn string, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	return pool, nil
}

// Transactor runs functions inside a transaction
type Transactor struct {
	pool *pgxpool.Pool
}

// NewTransactor creates a transactor over pool
func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// WithinTx commits when fn returns nil and rolls back otherwise
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Importer loads validated rows into quiz_questions
type Importer struct {
	tx        *Transactor
	chunkSize int
	progress  func(inserted int)
}

// NewImporter creates an importer. A non-positive chunkSize uses
// DefaultChunkSize; one above MaxChunkSize is capped.
func NewImporter(tx *Transactor, chunkSize int) *Importer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkSize = min(chunkSize, MaxChunkSize)
	return &Importer{tx: tx, chunkSize: chunkSize}
}

// OnProgress registers a callback invoked after every chunk
func (i *Importer) OnProgress(fn func(inserted int)) {
	i.progress = fn
}

// Import creates the table if needed and inserts rows in chunks inside a
// single transaction. Any failure rolls back every chunk.
func (i *Importer) Import(ctx context.Context, rows []model.ImportRow) (int, error) {
	inserted := 0

	err := i.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, postgresSchema); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		for start := 0; start < len(rows); start += i.chunkSize {
			chunk := rows[start:min(start+i.chunkSize, len(rows))]

			query, args, err := buildInsert(chunk)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("insert rows %d-%d: %w", start+1, start+len(chunk), err)
			}

			inserted += len(chunk)
			if i.progress != nil {
				i.progress(inserted)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// buildInsert renders one multi-row INSERT with positional parameters
func buildInsert(rows []model.ImportRow) (string, []any, error) {
	if n := len(rows) * importColumns; n > maxBindParams {
		return "", nil, fmt.Errorf("insert of %d rows needs %d parameters, limit is %d", len(rows), n, maxBindParams)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO quiz_questions (question_text, options, correct_index, difficulty, created_by) VALUES ")

	args := make([]any, 0, len(rows)*importColumns)
	for n, row := range rows {
		options, err := json.Marshal(row.Options)
		if err != nil {
			return "", nil, fmt.Errorf("encode options: %w", err)
		}

		if n > 0 {
			sb.WriteString(", ")
		}
		offset := n * importColumns
		fmt.Fprintf(&sb, "($%d, $%d::jsonb, $%d, $%d, $%d)", offset+1, offset+2, offset+3, offset+4, offset+5)

		args = append(args, row.Text, string(options), row.CorrectIndex, row.Difficulty, ImportCreatedBy)
	}

	return sb.String(), args, nil
}
