package sqlbuild_test

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"analytics-query-service/internal/analytics/adapters/clickhouse"
	"analytics-query-service/internal/analytics/adapters/postgres"
	"analytics-query-service/internal/analytics/core/domain"
	"analytics-query-service/internal/analytics/core/sqlbuild"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamID = "7f9c2e1a-3b4d-4c5e-8f6a-0b1c2d3e4f5a"

var (
	pgPlaceholder = regexp.MustCompile(`\{\{(\w+)(?:::\w+)?\}\}`)
	chPlaceholder = regexp.MustCompile(`\{(\w+):[^{}]+\}`)
)

func newFilterSet(t *testing.T, unit domain.TimeUnit, filters map[domain.FilterKey]string) domain.FilterSet {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fs, err := domain.NewFilterSet(teamID, start, start.Add(2*time.Hour), "Europe/Berlin", unit, domain.EventPageView, filters)
	require.NoError(t, err)
	return fs
}

func placeholderNames(re *regexp.Regexp, sql string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range re.FindAllStringSubmatch(sql, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	sort.Strings(out)
	return out
}

func paramNames(params map[string]any) []string {
	out := make([]string, 0, len(params))
	for k := range params {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type builder struct {
	name  string
	build func(d sqlbuild.Dialect, fs domain.FilterSet) (sqlbuild.Statement, error)
}

var builders = []builder{
	{"totals", sqlbuild.Totals},
	{"pageview series", sqlbuild.PageviewSeries},
	{"session series", sqlbuild.SessionSeries},
	{"pageview metrics url", func(d sqlbuild.Dialect, fs domain.FilterSet) (sqlbuild.Statement, error) {
		return sqlbuild.PageviewMetrics(d, fs, domain.DimURLPath)
	}},
	{"pageview metrics referrer", func(d sqlbuild.Dialect, fs domain.FilterSet) (sqlbuild.Statement, error) {
		return sqlbuild.PageviewMetrics(d, fs, domain.DimReferrerDomain)
	}},
	{"pageview metrics event name", func(d sqlbuild.Dialect, fs domain.FilterSet) (sqlbuild.Statement, error) {
		return sqlbuild.PageviewMetrics(d, fs, domain.DimEventName)
	}},
	{"session metrics city", func(d sqlbuild.Dialect, fs domain.FilterSet) (sqlbuild.Statement, error) {
		return sqlbuild.SessionMetrics(d, fs, domain.DimCity)
	}},
	{"session metrics browser", func(d sqlbuild.Dialect, fs domain.FilterSet) (sqlbuild.Statement, error) {
		return sqlbuild.SessionMetrics(d, fs, domain.DimBrowser)
	}},
}

// ------------------------------------------------------------
// PLACEHOLDERS AND PARAMETERS AGREE
// ------------------------------------------------------------

func TestStatements_PlaceholdersMatchParams(t *testing.T) {
	fs := newFilterSet(t, domain.UnitHour, map[domain.FilterKey]string{
		domain.FilterURL:     "/pricing",
		domain.FilterCountry: "DE",
		domain.FilterCity:    "Berlin",
	})

	for _, b := range builders {
		t.Run(b.name, func(t *testing.T) {
			pg, err := b.build(postgres.NewDialect(), fs)
			require.NoError(t, err)
			ch, err := b.build(clickhouse.NewDialect(), fs)
			require.NoError(t, err)

			assert.Equal(t, paramNames(pg.Params), placeholderNames(pgPlaceholder, pg.SQL))
			assert.Equal(t, paramNames(ch.Params), placeholderNames(chPlaceholder, ch.SQL))

			// Both dialects bind the same names to the same values.
			assert.Equal(t, pg.Params, ch.Params)

			query, args, err := postgres.Bind(pg.SQL, pg.Params)
			require.NoError(t, err)
			assert.NotContains(t, query, "{{")
			assert.Equal(t, strings.Count(query, "$"), len(args))

			encoded, err := clickhouse.EncodeParams(ch.SQL, ch.Params)
			require.NoError(t, err)
			assert.Len(t, encoded, len(ch.Params))
		})
	}
}

func TestStatements_FilterValuesNeverInSQL(t *testing.T) {
	hostile := "x' or 1=1; drop table website_event; --"
	fs := newFilterSet(t, domain.UnitDay, map[domain.FilterKey]string{
		domain.FilterTitle:   hostile,
		domain.FilterBrowser: hostile,
	})

	for _, d := range []sqlbuild.Dialect{postgres.NewDialect(), clickhouse.NewDialect()} {
		for _, b := range builders {
			stmt, err := b.build(d, fs)
			require.NoError(t, err)
			assert.NotContains(t, stmt.SQL, hostile, "%s/%s", d.Backend(), b.name)
			assert.Equal(t, hostile, stmt.Params["title"])
			assert.Equal(t, hostile, stmt.Params["browser"])
		}
	}
}

// ------------------------------------------------------------
// FILTER COMPILATION
// ------------------------------------------------------------

func TestCompile_BasePredicates(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil)

	cf, err := sqlbuild.Compile(postgres.NewDialect(), fs, sqlbuild.Options{})
	require.NoError(t, err)

	assert.Contains(t, cf.Where, "team_website.team_id = {{teamId::uuid}}")
	assert.Contains(t, cf.Where, "website_event.created_at between {{startDate}} and {{endDate}}")
	assert.Contains(t, cf.Where, "website_event.event_type = {{eventType}}")
	assert.Empty(t, cf.Join)

	assert.Equal(t, teamID, cf.Params[sqlbuild.ParamTeamID])
	assert.Equal(t, fs.StartDate, cf.Params[sqlbuild.ParamStartDate])
	assert.Equal(t, fs.EndDate, cf.Params[sqlbuild.ParamEndDate])
	assert.Equal(t, 1, cf.Params[sqlbuild.ParamEventType])
}

func TestCompile_SessionFilterJoinsOnRelationalOnly(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, map[domain.FilterKey]string{domain.FilterCountry: "DE"})

	pg, err := sqlbuild.Compile(postgres.NewDialect(), fs, sqlbuild.Options{})
	require.NoError(t, err)
	assert.Contains(t, pg.Join, "inner join session on website_event.session_id = session.session_id")
	assert.Contains(t, pg.Where, `session."country" = {{country}}`)

	ch, err := sqlbuild.Compile(clickhouse.NewDialect(), fs, sqlbuild.Options{})
	require.NoError(t, err)
	assert.Empty(t, ch.Join)
	assert.Contains(t, ch.Where, "website_event.`country` = {country:String}")
}

func TestCompile_EmptyFilterValueIsAFilter(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, map[domain.FilterKey]string{domain.FilterReferrer: ""})

	cf, err := sqlbuild.Compile(postgres.NewDialect(), fs, sqlbuild.Options{})
	require.NoError(t, err)
	assert.Contains(t, cf.Where, `website_event."referrer_domain" = {{referrer}}`)
	assert.Equal(t, "", cf.Params["referrer"])
}

func TestCompile_InvalidBreakdown(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil)

	_, err := sqlbuild.Compile(postgres.NewDialect(), fs, sqlbuild.Options{Breakdown: "password"})
	assert.True(t, errors.Is(err, domain.ErrInvalidDimension))
}

// ------------------------------------------------------------
// STATEMENT SHAPES
// ------------------------------------------------------------

func TestTotals_SessionRules(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil)

	pg, err := sqlbuild.Totals(postgres.NewDialect(), fs)
	require.NoError(t, err)
	assert.Contains(t, pg.SQL, "floor(extract(epoch from (t.max_time - t.min_time)))::bigint < 3600")
	assert.Contains(t, pg.SQL, "case when t.c = 1 then 1 else 0 end")
	assert.Contains(t, pg.SQL, "group by website_event.session_id")

	ch, err := sqlbuild.Totals(clickhouse.NewDialect(), fs)
	require.NoError(t, err)
	assert.Contains(t, ch.SQL, "intDiv(toUnixTimestamp64Milli(t.max_time) - toUnixTimestamp64Milli(t.min_time), 1000) < 3600")
}

func TestTotals_AlwaysCountsPageViews(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil).WithEventType(domain.EventCustomEvent)

	stmt, err := sqlbuild.Totals(postgres.NewDialect(), fs)
	require.NoError(t, err)
	assert.Equal(t, 1, stmt.Params[sqlbuild.ParamEventType])
}

func TestSeries_LabelsInTimezone(t *testing.T) {
	fs := newFilterSet(t, domain.UnitHour, nil)

	pg, err := sqlbuild.PageviewSeries(postgres.NewDialect(), fs)
	require.NoError(t, err)
	assert.Contains(t, pg.SQL,
		`to_char(date_trunc('hour', website_event.created_at at time zone {{timezone}}), 'YYYY-MM-DD"T"HH24:00') as x`)
	assert.Contains(t, pg.SQL, "count(*) as y")
	assert.Contains(t, pg.SQL, "group by x")
	assert.Contains(t, pg.SQL, "order by x")
	assert.Equal(t, "Europe/Berlin", pg.Params[sqlbuild.ParamTimezone])

	ch, err := sqlbuild.SessionSeries(clickhouse.NewDialect(), fs)
	require.NoError(t, err)
	assert.Contains(t, ch.SQL,
		"formatDateTime(toStartOfHour(toTimeZone(website_event.created_at, {timezone:String})), '%Y-%m-%dT%H:00') as x")
	assert.Contains(t, ch.SQL, "count(distinct website_event.session_id) as y")
}

func TestSeries_DoesNotLeakTimezoneIntoFilterParams(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil)

	_, err := sqlbuild.PageviewSeries(postgres.NewDialect(), fs)
	require.NoError(t, err)

	totals, err := sqlbuild.Totals(postgres.NewDialect(), fs)
	require.NoError(t, err)
	_, ok := totals.Params[sqlbuild.ParamTimezone]
	assert.False(t, ok)
}

func TestPageviewMetrics_TopN(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil)

	stmt, err := sqlbuild.PageviewMetrics(postgres.NewDialect(), fs, domain.DimURLPath)
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, `website_event."url_path" as x`)
	assert.Contains(t, stmt.SQL, "order by y desc")
	assert.Contains(t, stmt.SQL, "limit 100")
	assert.Equal(t, 1, stmt.Params[sqlbuild.ParamEventType])
}

func TestPageviewMetrics_EventNameCountsCustomEvents(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil)

	for _, d := range []sqlbuild.Dialect{postgres.NewDialect(), clickhouse.NewDialect()} {
		stmt, err := sqlbuild.PageviewMetrics(d, fs, domain.DimEventName)
		require.NoError(t, err)
		assert.Equal(t, 2, stmt.Params[sqlbuild.ParamEventType], d.Backend().String())
	}
}

func TestPageviewMetrics_ReferrerExcludesTeamDomains(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil)

	pg, err := sqlbuild.PageviewMetrics(postgres.NewDialect(), fs, domain.DimReferrerDomain)
	require.NoError(t, err)
	assert.NotContains(t, pg.SQL, "inner join website on")
	assert.Contains(t, pg.SQL, `website_event."referrer_domain" is not null`)
	assert.Contains(t, pg.SQL, `website_event."referrer_domain" <> ''`)
	assert.Contains(t, pg.SQL, `website_event."referrer_domain" not in (`)
	assert.Contains(t, pg.SQL, "where tw.team_id = {{teamId::uuid}}")
	assert.Contains(t, pg.SQL, "and w.domain is not null")

	query, args, err := postgres.Bind(pg.SQL, pg.Params)
	require.NoError(t, err)
	assert.Contains(t, query, "tw.team_id = $5::uuid")
	assert.Equal(t, teamID, args[4])

	ch, err := sqlbuild.PageviewMetrics(clickhouse.NewDialect(), fs, domain.DimReferrerDomain)
	require.NoError(t, err)
	assert.Contains(t, ch.SQL, "website_event.`referrer_domain` not in (")
	assert.Contains(t, ch.SQL, "where tw.team_id = {teamId:UUID}")

	other, err := sqlbuild.PageviewMetrics(postgres.NewDialect(), fs, domain.DimURLPath)
	require.NoError(t, err)
	assert.NotContains(t, other.SQL, "w.domain")
}

func TestSessionMetrics_CityCarriesCountry(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil)

	pg, err := sqlbuild.SessionMetrics(postgres.NewDialect(), fs, domain.DimCity)
	require.NoError(t, err)
	assert.Contains(t, pg.SQL, `session."city" as x`)
	assert.Contains(t, pg.SQL, `session."country" as country`)
	assert.Contains(t, pg.SQL, "group by x, country")
	assert.Contains(t, pg.SQL, "inner join session")
	assert.Contains(t, pg.SQL, "count(distinct website_event.session_id) as y")
	assert.Contains(t, pg.SQL, "limit 100")

	browser, err := sqlbuild.SessionMetrics(postgres.NewDialect(), fs, domain.DimBrowser)
	require.NoError(t, err)
	assert.NotContains(t, browser.SQL, "as country")
	assert.Contains(t, browser.SQL, "group by x\n")
}

func TestMetrics_InvalidDimension(t *testing.T) {
	fs := newFilterSet(t, domain.UnitDay, nil)

	_, err := sqlbuild.PageviewMetrics(postgres.NewDialect(), fs, domain.Dimension("1; select"))
	assert.True(t, errors.Is(err, domain.ErrInvalidDimension))

	_, err = sqlbuild.SessionMetrics(clickhouse.NewDialect(), fs, domain.Dimension("password"))
	assert.True(t, errors.Is(err, domain.ErrInvalidDimension))
}
