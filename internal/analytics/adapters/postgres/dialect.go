package postgres

import (
	"fmt"

	"analytics-query-service/internal/analytics/core/domain"
	"analytics-query-service/internal/analytics/core/sqlbuild"

	"github.com/lib/pq"
)

// Dialect renders PostgreSQL syntax. Placeholders are written as
// {{name}} or {{name::cast}} and turned into $N by the Executor.
type Dialect struct{}

var _ sqlbuild.Dialect = Dialect{}

func NewDialect() Dialect {
	return Dialect{}
}

func (Dialect) Backend() domain.Backend {
	return domain.Relational
}

func (Dialect) Param(name string, typ sqlbuild.ParamType) string {
	if typ == sqlbuild.ParamUUID {
		return "{{" + name + "::uuid}}"
	}
	return "{{" + name + "}}"
}

func (Dialect) Column(dim domain.Dimension) string {
	table := "website_event"
	if dim.SessionDerived() {
		table = "session"
	}
	return table + "." + pq.QuoteIdentifier(string(dim))
}

func (Dialect) SessionJoin() string {
	return "inner join session on website_event.session_id = session.session_id"
}

// DateTrunc converts the timestamptz column to the zone's wall clock before
// truncating, so buckets follow local midnight and DST.
func (Dialect) DateTrunc(column string, unit domain.TimeUnit, timezone string) string {
	return fmt.Sprintf("date_trunc('%s', %s at time zone %s)", unit, column, timezone)
}

var dateFormats = map[domain.TimeUnit]string{
	domain.UnitMinute: `YYYY-MM-DD"T"HH24:MI`,
	domain.UnitHour:   `YYYY-MM-DD"T"HH24:00`,
	domain.UnitDay:    `YYYY-MM-DD`,
	domain.UnitMonth:  `YYYY-MM`,
	domain.UnitYear:   `YYYY`,
}

func (Dialect) DateLabel(bucket string, unit domain.TimeUnit) string {
	return fmt.Sprintf("to_char(%s, '%s')", bucket, dateFormats[unit])
}

func (Dialect) ElapsedSeconds(from, to string) string {
	return fmt.Sprintf("floor(extract(epoch from (%s - %s)))::bigint", to, from)
}
