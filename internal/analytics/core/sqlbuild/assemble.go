package sqlbuild

import (
	"fmt"
	"maps"
	"time"

	"analytics-query-service/internal/analytics/core/domain"
)

const (
	// MaxRows caps every breakdown. Rows tied at the cap are kept or dropped
	// in whatever order the backend returns them.
	MaxRows = 100

	// SessionDurationCap is the longest session whose duration counts
	// toward total time. Longer sessions contribute 0.
	SessionDurationCap = time.Hour
)

// Statement is a complete query for one dialect.
type Statement struct {
	SQL    string
	Params map[string]any
}

// Totals aggregates page views, unique sessions, bounces and total time.
func Totals(d Dialect, fs domain.FilterSet) (Statement, error) {
	cf, err := Compile(d, fs.WithEventType(domain.EventPageView), Options{})
	if err != nil {
		return Statement{}, err
	}

	elapsed := d.ElapsedSeconds("t.min_time", "t.max_time")
	capSeconds := int64(SessionDurationCap / time.Second)

	query := fmt.Sprintf(`
select
  coalesce(sum(t.c), 0) as pageviews,
  count(distinct t.session_id) as uniques,
  coalesce(sum(case when t.c = 1 then 1 else 0 end), 0) as bounces,
  coalesce(sum(case when %[1]s < %[2]d then %[1]s else 0 end), 0) as totaltime
from (
  select
    %[3]s as session_id,
    count(*) as c,
    min(%[4]s) as min_time,
    max(%[4]s) as max_time
  %[5]s
  group by %[3]s
) as t
`, elapsed, capSeconds, eventSessionID, eventCreatedAt, source(cf))

	return Statement{SQL: query, Params: cf.Params}, nil
}

// PageviewSeries counts page views per time bucket, ascending.
func PageviewSeries(d Dialect, fs domain.FilterSet) (Statement, error) {
	return series(d, fs, "count(*)")
}

// SessionSeries counts distinct sessions per time bucket, ascending.
func SessionSeries(d Dialect, fs domain.FilterSet) (Statement, error) {
	return series(d, fs, fmt.Sprintf("count(distinct %s)", eventSessionID))
}

func series(d Dialect, fs domain.FilterSet, aggregate string) (Statement, error) {
	cf, err := Compile(d, fs.WithEventType(domain.EventPageView), Options{})
	if err != nil {
		return Statement{}, err
	}

	bucket := d.DateTrunc(eventCreatedAt, fs.Unit, d.Param(ParamTimezone, ParamString))
	label := d.DateLabel(bucket, fs.Unit)

	params := maps.Clone(cf.Params)
	params[ParamTimezone] = fs.Timezone

	// Grouping by the label rather than the bucket instant merges the
	// repeated wall-clock hour of a DST fall-back into one bucket.
	query := fmt.Sprintf(`
select
  %s as x,
  %s as y
%s
group by x
order by x
`, label, aggregate, source(cf))

	return Statement{SQL: query, Params: params}, nil
}

// PageviewMetrics is the top-N breakdown of events by dim. Breaking down by
// event name counts custom events; every other dimension counts page views.
func PageviewMetrics(d Dialect, fs domain.FilterSet, dim domain.Dimension) (Statement, error) {
	if !dim.Valid() {
		return Statement{}, fmt.Errorf("%w: %q", domain.ErrInvalidDimension, dim)
	}

	et := domain.EventPageView
	if dim == domain.DimEventName {
		et = domain.EventCustomEvent
	}

	cf, err := Compile(d, fs.WithEventType(et), Options{Breakdown: dim})
	if err != nil {
		return Statement{}, err
	}

	query := fmt.Sprintf(`
select
  %s as x,
  count(*) as y
%s
group by x
order by y desc
limit %d
`, d.Column(dim), source(cf), MaxRows)

	return Statement{SQL: query, Params: cf.Params}, nil
}

// SessionMetrics is the top-N breakdown of distinct sessions by dim. City
// and subdivision rows also carry their country.
func SessionMetrics(d Dialect, fs domain.FilterSet, dim domain.Dimension) (Statement, error) {
	if !dim.Valid() {
		return Statement{}, fmt.Errorf("%w: %q", domain.ErrInvalidDimension, dim)
	}

	cf, err := Compile(d, fs.WithEventType(domain.EventPageView), Options{
		RequireSessionJoin: dim.SessionDerived(),
		Breakdown:          dim,
	})
	if err != nil {
		return Statement{}, err
	}

	var country, groupCountry string
	if dim.CarriesCountry() {
		country = fmt.Sprintf(",\n  %s as country", d.Column(domain.DimCountry))
		groupCountry = ", country"
	}

	query := fmt.Sprintf(`
select
  %s as x,
  count(distinct %s) as y%s
%s
group by x%s
order by y desc
limit %d
`, d.Column(dim), eventSessionID, country, source(cf), groupCountry, MaxRows)

	return Statement{SQL: query, Params: cf.Params}, nil
}

func source(cf CompiledFilter) string {
	from := "from website_event\n  inner join team_website on website_event.website_id = team_website.website_id"
	if cf.Join != "" {
		from += "\n  " + cf.Join
	}
	return from + "\nwhere " + cf.Where
}
