package clickhouse

import (
	"context"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() []string
	// ScanTypes is the Go type each column scans into.
	ScanTypes() []reflect.Type
	Err() error
	Close() error
}

type Conn interface {
	// Query runs query with typed server-side parameters.
	Query(ctx context.Context, query string, params map[string]string) (Rows, error)
}

type nativeRows struct {
	rows driver.Rows
}

func (r *nativeRows) Next() bool {
	return r.rows.Next()
}

func (r *nativeRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *nativeRows) Columns() []string {
	return r.rows.Columns()
}

func (r *nativeRows) ScanTypes() []reflect.Type {
	cts := r.rows.ColumnTypes()
	out := make([]reflect.Type, len(cts))
	for i, ct := range cts {
		out[i] = ct.ScanType()
	}
	return out
}

func (r *nativeRows) Err() error {
	return r.rows.Err()
}

func (r *nativeRows) Close() error {
	return r.rows.Close()
}

type nativeConn struct {
	conn driver.Conn
}

func NewNativeConn(conn driver.Conn) Conn {
	return &nativeConn{conn: conn}
}

func (c *nativeConn) Query(ctx context.Context, query string, params map[string]string) (Rows, error) {
	ctx = clickhouse.Context(ctx, clickhouse.WithParameters(clickhouse.Parameters(params)))
	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return &nativeRows{rows: rows}, nil
}
