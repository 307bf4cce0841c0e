package catalog

import (
	"context"
	"embed"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/lingua/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsTable records applied catalog migrations.
const MigrationsTable = "catalog_migrations"

// Querier is the read side of a pgx connection or pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Migrate creates the catalog_messages table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	return db.Migrate(ctx, pool, migrations, "migrations", MigrationsTable, log)
}

// LoadPostgres reads all catalog entries, optionally limited to langs.
func LoadPostgres(ctx context.Context, q Querier, langs ...string) ([]Entry, error) {
	query := `SELECT language, msgid, msgstr FROM catalog_messages ORDER BY language, msgid`
	args := []any{}
	if len(langs) > 0 {
		query = `SELECT language, msgid, msgstr FROM catalog_messages WHERE language = ANY($1) ORDER BY language, msgid`
		args = append(args, langs)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Entry])
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return entries, nil
}

// SavePostgres upserts entries in one transaction.
func SavePostgres(ctx context.Context, pool *pgxpool.Pool, entries []Entry) error {
	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			if e.Language == "" {
				return ErrEmptyLanguage
			}
			batch.Queue(`INSERT INTO catalog_messages (language, msgid, msgstr) VALUES ($1, $2, $3)
				ON CONFLICT (language, msgid) DO UPDATE SET msgstr = EXCLUDED.msgstr, updated_at = now()`,
				e.Language, e.Msgid, e.Msgstr)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}
