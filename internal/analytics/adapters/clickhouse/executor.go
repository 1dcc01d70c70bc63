package clickhouse

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"time"

	"analytics-query-service/internal/analytics/core/ports"
)

// Executor runs columnar statements over the native protocol.
type Executor struct {
	conn Conn
}

var _ ports.QueryExecutor = (*Executor)(nil)

func NewExecutor(conn Conn) *Executor {
	return &Executor{conn: conn}
}

func (e *Executor) Query(ctx context.Context, sql string, params map[string]any) ([]ports.Row, error) {
	encoded, err := EncodeParams(sql, params)
	if err != nil {
		return nil, err
	}

	rows, err := e.conn.Query(ctx, sql, encoded)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := rows.Columns()
	types := rows.ScanTypes()
	if len(types) != len(cols) {
		return nil, fmt.Errorf("column metadata mismatch: %d names, %d types", len(cols), len(types))
	}

	var out []ports.Row
	for rows.Next() {
		dest := make([]any, len(cols))
		for i, t := range types {
			dest[i] = reflect.New(t).Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make(ports.Row, len(cols))
		for i, c := range cols {
			row[c] = deref(reflect.ValueOf(dest[i]).Elem())
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// deref unwraps Nullable columns, which scan into pointer types.
func deref(v reflect.Value) any {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}

var placeholderPattern = regexp.MustCompile(`\{(\w+):[^{}]+\}`)

// EncodeParams renders the parameters referenced by sql in the text form the
// server parses for each declared type. A placeholder without a value is an
// error.
func EncodeParams(sql string, params map[string]any) (map[string]string, error) {
	out := make(map[string]string)
	for _, m := range placeholderPattern.FindAllStringSubmatch(sql, -1) {
		name := m[1]
		if _, done := out[name]; done {
			continue
		}
		v, ok := params[name]
		if !ok {
			return nil, fmt.Errorf("no value bound for placeholder %q", name)
		}
		s, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

func encodeValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case time.Time:
		return strconv.FormatInt(x.UnixMilli(), 10), nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return "", fmt.Errorf("unsupported parameter type %T", v)
	}
}
