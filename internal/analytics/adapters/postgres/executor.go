package postgres

import (
	"context"
	"fmt"
	"regexp"

	"analytics-query-service/internal/analytics/core/ports"

	"github.com/Masterminds/squirrel"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// Executor runs relational statements through database/sql and lib/pq.
type Executor struct {
	db DB
}

var _ ports.QueryExecutor = (*Executor)(nil)

func NewExecutor(db DB) *Executor {
	return &Executor{db: db}
}

func (e *Executor) Query(ctx context.Context, sql string, params map[string]any) ([]ports.Row, error) {
	query, args, err := Bind(sql, params)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []ports.Row
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make(ports.Row, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)(::\w+)?\}\}`)

// Bind rewrites {{name}} placeholders into positional $N arguments in
// order of appearance. A placeholder without a value is an error.
func Bind(sql string, params map[string]any) (string, []any, error) {
	var (
		args    []any
		missing string
	)

	rewritten := placeholderPattern.ReplaceAllStringFunc(sql, func(m string) string {
		sub := placeholderPattern.FindStringSubmatch(m)
		v, ok := params[sub[1]]
		if !ok {
			if missing == "" {
				missing = sub[1]
			}
			return m
		}
		args = append(args, v)
		return "?" + sub[2]
	})

	if missing != "" {
		return "", nil, fmt.Errorf("no value bound for placeholder %q", missing)
	}

	query, err := squirrel.Dollar.ReplacePlaceholders(rewritten)
	if err != nil {
		return "", nil, err
	}

	return query, args, nil
}
