package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/lingua/pkg/db"
	"github.com/dmitrymomot/lingua/pkg/model"
)

// DefaultPKColumn is the primary key column of mapped tables.
const DefaultPKColumn = "id"

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type table struct {
	typ  *model.Type
	name string
	pk   string
}

// Postgres reads and writes instances of registered types to PostgreSQL.
// Every storage field of a type maps to a column of the same name; the
// schema itself is managed elsewhere.
type Postgres struct {
	pool   *pgxpool.Pool
	opts   *options
	mu     sync.RWMutex
	tables map[string]table
}

// NewPostgres creates a store on pool.
func NewPostgres(pool *pgxpool.Pool, opts ...Option) *Postgres {
	return &Postgres{
		pool:   pool,
		opts:   newOptions(opts),
		tables: make(map[string]table),
	}
}

// Register maps t to a table. An empty name selects "app_name" built from
// the type label.
func (p *Postgres) Register(t *model.Type, name string) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", ErrInvalidTable)
	}
	if name == "" {
		name = t.App() + "_" + t.Name()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables[t.Label()] = table{typ: t, name: name, pk: DefaultPKColumn}
	return nil
}

func (p *Postgres) table(t *model.Type) (table, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	tbl, ok := p.tables[t.Label()]
	if !ok {
		return table{}, fmt.Errorf("%w: %s", ErrUnknownType, t.Label())
	}
	return tbl, nil
}

func (tbl table) columns() []string {
	fields := tbl.typ.Fields()
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.Name)
	}
	return cols
}

func (tbl table) selectSQL(where string) string {
	cols := append([]string{tbl.pk}, tbl.columns()...)
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(quoteAll(cols))
	b.WriteString(" FROM ")
	b.WriteString(quote(tbl.name))
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(quote(tbl.pk))
	return b.String()
}

func (tbl table) upsertSQL() string {
	cols := tbl.columns()
	all := append([]string{tbl.pk}, cols...)

	placeholders := make([]string, len(all))
	for i := range all {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) ",
		quote(tbl.name), quoteAll(all), strings.Join(placeholders, ", "), quote(tbl.pk))
	if len(cols) == 0 {
		return sql + "DO NOTHING"
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = quote(c) + " = EXCLUDED." + quote(c)
	}
	return sql + "DO UPDATE SET " + strings.Join(sets, ", ")
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteAll(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quote(n)
	}
	return strings.Join(out, ", ")
}

// All returns every instance of t ordered by primary key.
func (p *Postgres) All(ctx context.Context, t *model.Type) ([]*model.Instance, error) {
	tbl, err := p.table(t)
	if err != nil {
		return nil, err
	}
	return p.query(ctx, p.pool, tbl, tbl.selectSQL(""))
}

// Get returns the instance of t with primary key pk.
func (p *Postgres) Get(ctx context.Context, t *model.Type, pk any) (*model.Instance, error) {
	tbl, err := p.table(t)
	if err != nil {
		return nil, err
	}
	insts, err := p.query(ctx, p.pool, tbl, tbl.selectSQL(quote(tbl.pk)+" = $1"), pk)
	if err != nil {
		return nil, err
	}
	if len(insts) == 0 {
		return nil, fmt.Errorf("%w: %s(%v)", ErrNotFound, t.Label(), pk)
	}
	return insts[0], nil
}

func (p *Postgres) query(ctx context.Context, q querier, tbl table, sql string, args ...any) ([]*model.Instance, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", tbl.name, err)
	}
	defer rows.Close()

	cols := tbl.columns()
	var out []*model.Instance
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", tbl.name, err)
		}
		inst := model.NewInstance(tbl.typ, normalize(values[0]))
		for i, c := range cols {
			if err := inst.SetAttr(c, normalize(values[i+1])); err != nil {
				return nil, err
			}
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: read %s: %w", tbl.name, err)
	}
	return out, nil
}

// normalize maps driver integer and float widths to the types model fields
// produce when parsing.
func normalize(v any) any {
	switch x := v.(type) {
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// Save upserts inst and runs the save hooks after commit.
func (p *Postgres) Save(ctx context.Context, inst *model.Instance) error {
	return p.SaveAll(ctx, []*model.Instance{inst})
}

// SaveAll upserts insts in one transaction. Save hooks run after commit,
// once per instance.
func (p *Postgres) SaveAll(ctx context.Context, insts []*model.Instance) error {
	for _, inst := range insts {
		if inst == nil || inst.Type == nil {
			return ErrNilInstance
		}
		if err := inst.Validate(); err != nil {
			return err
		}
	}

	err := db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		for _, inst := range insts {
			tbl, err := p.table(inst.Type)
			if err != nil {
				return err
			}
			args := []any{inst.PK}
			for _, c := range tbl.columns() {
				args = append(args, pkOf(inst.Attr(c)))
			}
			if _, err := tx.Exec(ctx, tbl.upsertSQL(), args...); err != nil {
				return fmt.Errorf("store: save %s: %w", inst, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.opts.log.DebugContext(ctx, "saved instances", slog.Int("count", len(insts)))

	var errs []error
	for _, inst := range insts {
		if err := p.opts.runHooks(ctx, inst); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReverseFK returns a fetcher listing the rows of child whose column field
// holds the owner's primary key.
func (p *Postgres) ReverseFK(child *model.Type, field string) model.Fetcher {
	return model.FetcherFunc(func(ctx context.Context, inst *model.Instance) ([]*model.Instance, error) {
		tbl, err := p.table(child)
		if err != nil {
			return nil, err
		}
		return p.query(ctx, p.pool, tbl, tbl.selectSQL(quote(field)+" = $1"), inst.PK)
	})
}

// ManyToMany returns a fetcher listing the rows of target joined to the
// owner through joinTable. ownerColumn and targetColumn hold the primary
// keys of both sides.
func (p *Postgres) ManyToMany(target *model.Type, joinTable, ownerColumn, targetColumn string) model.Fetcher {
	return model.FetcherFunc(func(ctx context.Context, inst *model.Instance) ([]*model.Instance, error) {
		tbl, err := p.table(target)
		if err != nil {
			return nil, err
		}
		where := fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s = $1)",
			quote(tbl.pk), quote(targetColumn), quote(joinTable), quote(ownerColumn))
		return p.query(ctx, p.pool, tbl, tbl.selectSQL(where), inst.PK)
	})
}

// Generic returns a fetcher listing the rows of child that address the
// owner by type label in typeColumn and primary key in idColumn.
func (p *Postgres) Generic(child *model.Type, typeColumn, idColumn string) model.Fetcher {
	return model.FetcherFunc(func(ctx context.Context, inst *model.Instance) ([]*model.Instance, error) {
		tbl, err := p.table(child)
		if err != nil {
			return nil, err
		}
		where := fmt.Sprintf("%s = $1 AND %s = $2", quote(typeColumn), quote(idColumn))
		return p.query(ctx, p.pool, tbl, tbl.selectSQL(where), inst.Type.Label(), inst.PK)
	})
}
