// Package result coerces raw backend rows into typed analytics results.
// Backends disagree on numeric representation: lib/pq returns numeric sums
// as text, ClickHouse returns unsigned integers and Decimal values.
package result

import (
	"math"
	"math/big"
	"strconv"
	"time"

	"analytics-query-service/internal/analytics/core/domain"
	"analytics-query-service/internal/analytics/core/ports"

	"github.com/shopspring/decimal"
)

type PointOptions struct {
	// Unit and Location format time-typed bucket values. Unused for
	// breakdowns.
	Unit     domain.TimeUnit
	Location *time.Location

	WithCountry bool
}

// Points maps x/y rows, keeping row order.
func Points(rows []ports.Row, opts PointOptions) ([]domain.MetricPoint, error) {
	out := make([]domain.MetricPoint, 0, len(rows))
	for _, r := range rows {
		x, err := Label("x", r["x"], opts.Unit, opts.Location)
		if err != nil {
			return nil, err
		}
		y, err := Int("y", r["y"])
		if err != nil {
			return nil, err
		}

		p := domain.MetricPoint{X: x, Y: y}
		if opts.WithCountry {
			if c, ok := r["country"]; ok && c != nil {
				s, err := Label("country", c, "", nil)
				if err != nil {
					return nil, err
				}
				p.Country = &s
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// Totals maps the single aggregate row. No row means no data.
func Totals(rows []ports.Row) (domain.TotalsResult, error) {
	switch len(rows) {
	case 0:
		return domain.TotalsResult{}, nil
	case 1:
	default:
		return domain.TotalsResult{}, &domain.NormalizationError{
			Column: "*",
			Value:  len(rows),
			Reason: "expected a single totals row",
		}
	}

	r := rows[0]
	var res domain.TotalsResult
	fields := []struct {
		column string
		dest   *int64
	}{
		{"pageviews", &res.Pageviews},
		{"uniques", &res.Uniques},
		{"bounces", &res.Bounces},
		{"totaltime", &res.TotalTime},
	}
	for _, f := range fields {
		v, err := Int(f.column, r[f.column])
		if err != nil {
			return domain.TotalsResult{}, err
		}
		*f.dest = v
	}
	return res, nil
}

// Int coerces an integral value in any backend representation.
func Int(column string, v any) (int64, error) {
	fail := func(reason string) (int64, error) {
		return 0, &domain.NormalizationError{Column: column, Value: v, Reason: reason}
	}

	switch x := v.(type) {
	case nil:
		return fail("missing value")
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return fail("overflows int64")
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return fail("overflows int64")
		}
		return int64(x), nil
	case float32:
		return fromDecimal(decimal.NewFromFloat32(x), fail)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fail("not a finite number")
		}
		return fromDecimal(decimal.NewFromFloat(x), fail)
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return fail("not numeric text")
		}
		return fromDecimal(d, fail)
	case []byte:
		d, err := decimal.NewFromString(string(x))
		if err != nil {
			return fail("not numeric text")
		}
		return fromDecimal(d, fail)
	case decimal.Decimal:
		return fromDecimal(x, fail)
	case *big.Int:
		if x == nil {
			return fail("missing value")
		}
		return fromDecimal(decimal.NewFromBigInt(x, 0), fail)
	case big.Int:
		return fromDecimal(decimal.NewFromBigInt(&x, 0), fail)
	default:
		return fail("unsupported type")
	}
}

func fromDecimal(d decimal.Decimal, fail func(string) (int64, error)) (int64, error) {
	if !d.Equal(d.Truncate(0)) {
		return fail("not an integer")
	}
	b := d.BigInt()
	if !b.IsInt64() {
		return fail("overflows int64")
	}
	return b.Int64(), nil
}

// Label coerces a bucket label or dimension value to a string. A NULL
// dimension value becomes "". Time values are formatted as bucket labels.
func Label(column string, v any, unit domain.TimeUnit, loc *time.Location) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case time.Time:
		if loc == nil {
			loc = time.UTC
		}
		if unit == "" {
			return x.In(loc).Format(time.RFC3339), nil
		}
		return unit.Label(x, loc), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, err := Int(column, x)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case decimal.Decimal:
		return x.String(), nil
	default:
		return "", &domain.NormalizationError{Column: column, Value: v, Reason: "unsupported type"}
	}
}
