package ports

import "context"

// Row is one result row keyed by column name. Values keep the backend's
// native representation; the result normalizer coerces them.
type Row map[string]any

type QueryExecutor interface {
	// Query runs sql with the named parameters referenced by its
	// placeholders. Placeholder syntax is dialect specific.
	Query(ctx context.Context, sql string, params map[string]any) ([]Row, error)
}
