// Package sqldb provides a source that turns the rows of an SQL query into
// items keyed by column name.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aretw0/gather/pkg/core"
	"github.com/aretw0/gather/pkg/source"
)

// Source runs SQL against DB on every call.
type Source struct {
	ID   string
	DB   *sql.DB
	SQL  string
	Args []any
}

// New creates a Source.
func New(name string, db *sql.DB, query string, args ...any) *Source {
	return &Source{ID: name, DB: db, SQL: query, Args: args}
}

// Open opens a database handle and checks that it is reachable.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}

func (s *Source) Name() string { return s.ID }

func (s *Source) Query(ctx context.Context) (*core.Collection, error) {
	rows, err := s.DB.QueryContext(ctx, s.SQL, s.Args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	coll := core.NewCollection()
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		item := make(core.Item, len(columns))
		for i, col := range columns {
			item[col] = normalize(values[i])
		}
		coll.Add(item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return coll, nil
}

// normalize converts driver byte slices to strings so they compare as text.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

var _ source.Source = (*Source)(nil)
