package clickhouse

import (
	"fmt"
	"strings"

	"analytics-query-service/internal/analytics/core/domain"
	"analytics-query-service/internal/analytics/core/sqlbuild"
)

// Dialect renders ClickHouse syntax with {name:Type} server-side
// parameters. Events carry their session columns, so no join is needed for
// session-derived dimensions.
type Dialect struct{}

var _ sqlbuild.Dialect = Dialect{}

func NewDialect() Dialect {
	return Dialect{}
}

func (Dialect) Backend() domain.Backend {
	return domain.Columnar
}

func (Dialect) Param(name string, typ sqlbuild.ParamType) string {
	switch typ {
	case sqlbuild.ParamUUID:
		return "{" + name + ":UUID}"
	case sqlbuild.ParamTimestamp:
		// Sent as unix milliseconds so the server timezone never applies.
		return "fromUnixTimestamp64Milli({" + name + ":Int64})"
	case sqlbuild.ParamInt:
		return "{" + name + ":UInt32}"
	default:
		return "{" + name + ":String}"
	}
}

func (Dialect) Column(dim domain.Dimension) string {
	return "website_event." + quoteIdentifier(string(dim))
}

func (Dialect) SessionJoin() string {
	return ""
}

var truncFuncs = map[domain.TimeUnit]string{
	domain.UnitMinute: "toStartOfMinute",
	domain.UnitHour:   "toStartOfHour",
	domain.UnitDay:    "toStartOfDay",
	domain.UnitMonth:  "toStartOfMonth",
	domain.UnitYear:   "toStartOfYear",
}

func (Dialect) DateTrunc(column string, unit domain.TimeUnit, timezone string) string {
	return fmt.Sprintf("%s(toTimeZone(%s, %s))", truncFuncs[unit], column, timezone)
}

var dateFormats = map[domain.TimeUnit]string{
	domain.UnitMinute: "%Y-%m-%dT%H:%i",
	domain.UnitHour:   "%Y-%m-%dT%H:00",
	domain.UnitDay:    "%Y-%m-%d",
	domain.UnitMonth:  "%Y-%m",
	domain.UnitYear:   "%Y",
}

func (Dialect) DateLabel(bucket string, unit domain.TimeUnit) string {
	return fmt.Sprintf("formatDateTime(%s, '%s')", bucket, dateFormats[unit])
}

func (Dialect) ElapsedSeconds(from, to string) string {
	return fmt.Sprintf("intDiv(toUnixTimestamp64Milli(%s) - toUnixTimestamp64Milli(%s), 1000)", to, from)
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}
