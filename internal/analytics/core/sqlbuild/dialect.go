// Package sqlbuild compiles a FilterSet and a metric request into one
// parameterized statement for a given SQL dialect. Business rules (bounce
// definition, session duration cap, self-referral exclusion, row cap) live
// here once; dialects only supply syntax.
package sqlbuild

import (
	"analytics-query-service/internal/analytics/core/domain"
)

type ParamType int

const (
	ParamUUID ParamType = iota + 1
	ParamTimestamp
	ParamInt
	ParamString
)

// Dialect is the per-backend syntax capability.
type Dialect interface {
	Backend() domain.Backend

	// Param renders a bound-parameter placeholder. name is always one of
	// the package's fixed parameter names, never user input.
	Param(name string, typ ParamType) string

	// Column renders the qualified column of an allow-listed dimension.
	Column(dim domain.Dimension) string

	// SessionJoin is the join that makes session-derived columns
	// available, or "" when events already carry them.
	SessionJoin() string

	// DateTrunc buckets a timestamp column to the unit boundary on the
	// wall clock of timezone, an already rendered expression.
	DateTrunc(column string, unit domain.TimeUnit, timezone string) string

	// DateLabel formats a DateTrunc bucket with the unit's label layout.
	DateLabel(bucket string, unit domain.TimeUnit) string

	// ElapsedSeconds is the whole number of seconds between two
	// timestamp expressions, rounded down.
	ElapsedSeconds(from, to string) string
}
