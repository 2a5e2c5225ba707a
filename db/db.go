// Package db owns the single relational-database handle: a file-backed
// SQLite database holding the seven relations. The Store is opened once,
// passed to every registration and query, and closed exactly once.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/footstats/config"
	"github.com/padraicbc/footstats/table"
)

var (
	// ErrRelationExists is returned by Register when the relation name is
	// already present. The caller decides whether to skip or fail.
	ErrRelationExists = errors.New("relation already exists")
	// ErrStoreClosed is returned by any operation after Close.
	ErrStoreClosed = errors.New("store is closed")
	// ErrQuerySyntax wraps a parse-time error from the engine.
	ErrQuerySyntax = errors.New("query syntax error")
	// ErrQueryRuntime wraps an execution-time error from the engine
	// (unknown table or column, type errors, and the like).
	ErrQueryRuntime = errors.New("query runtime error")
)

// insertBatchSize bounds rows per INSERT during registration.
const insertBatchSize = 500

// Store wraps the bun handle bound to one database file.
type Store struct {
	db     *bun.DB
	closed bool
}

// Open opens (creating if absent) the SQLite database file named in the
// config and verifies the connection.
func Open(cfg *config.Config) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+cfg.DBPath+"?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	// The whole pipeline is single-threaded; one connection keeps SQLite's
	// locking out of the picture.
	sqldb.SetMaxOpenConns(1)

	bdb := bun.NewDB(sqldb, sqlitedialect.New())
	if cfg.Debug {
		bdb.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := bdb.PingContext(context.Background()); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DBPath, err)
	}
	return &Store{db: bdb}, nil
}

// DB exposes the underlying bun handle for typed raw-SQL scans.
func (s *Store) DB() *bun.DB { return s.db }

// Relations returns the sorted names of all registered relations.
func (s *Store) Relations(ctx context.Context) ([]string, error) {
	if s.closed {
		return nil, ErrStoreClosed
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return names, rows.Err()
}

// Register writes an in-memory table as a named relation. Registering a name
// that is already present fails with ErrRelationExists: re-running the load
// against a non-empty file must be an explicit caller decision, never a
// silent duplication.
func (s *Store) Register(ctx context.Context, name string, tbl *table.Table) error {
	if s.closed {
		return ErrStoreClosed
	}

	existing, err := s.Relations(ctx)
	if err != nil {
		return err
	}
	for _, n := range existing {
		if n == name {
			return fmt.Errorf("%w: %s", ErrRelationExists, name)
		}
	}

	defs := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c.Name), c.Kind.SQLType())
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	for start := 0; start < len(tbl.Rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(tbl.Rows) {
			end = len(tbl.Rows)
		}
		if err := s.insertBatch(ctx, name, tbl, tbl.Rows[start:end]); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) insertBatch(ctx context.Context, name string, tbl *table.Table, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(tbl.Columns)), ", ") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteIdent(name))
	b.WriteString(" VALUES ")
	args := make([]any, 0, len(rows)*len(tbl.Columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder)
		args = append(args, row...)
	}
	_, err := s.db.ExecContext(ctx, b.String(), args...)
	return err
}

// Execute runs exactly the given SQL text and materializes the result.
// Engine errors are classified but never swallowed.
func (s *Store) Execute(ctx context.Context, sqlText string) (*table.Table, error) {
	if s.closed {
		return nil, ErrStoreClosed
	}
	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	return scanTable(rows)
}

// Close releases the handle. Safe to call more than once; every operation
// after the first Close fails with ErrStoreClosed.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// classify splits engine errors into the parse-time and execution-time
// classes. SQLite reports both through one error value, so the split rides
// on the engine's own "syntax error" wording.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "syntax error") || strings.Contains(msg, "incomplete input") {
		return fmt.Errorf("%w: %v", ErrQuerySyntax, err)
	}
	return fmt.Errorf("%w: %v", ErrQueryRuntime, err)
}

// scanTable drains sql.Rows into a uniform table value.
func scanTable(rows *sql.Rows) (*table.Table, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	cols := make([]table.Column, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = table.Column{Name: ct.Name(), Kind: kindOf(ct.DatabaseTypeName())}
	}
	t := table.New(cols...)

	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classify(err)
		}
		for i, v := range cells {
			if b, ok := v.([]byte); ok {
				cells[i] = string(b)
			}
		}
		if err := t.Append(cells); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return t, nil
}

func kindOf(dbType string) table.Kind {
	switch strings.ToUpper(dbType) {
	case "INTEGER", "INT", "BIGINT":
		return table.Integer
	case "REAL", "FLOAT", "DOUBLE", "NUMERIC":
		return table.Float
	default:
		return table.Text
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
