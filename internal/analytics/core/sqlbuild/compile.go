package sqlbuild

import (
	"fmt"
	"strings"

	"analytics-query-service/internal/analytics/core/domain"
)

const (
	ParamTeamID    = "teamId"
	ParamStartDate = "startDate"
	ParamEndDate   = "endDate"
	ParamEventType = "eventType"
	ParamTimezone  = "timezone"
)

const (
	eventCreatedAt = "website_event.created_at"
	eventSessionID = "website_event.session_id"
	eventType      = "website_event.event_type"
	teamIDColumn   = "team_website.team_id"
)

type Options struct {
	RequireSessionJoin bool
	// Breakdown is the dimension being grouped by, empty for totals and
	// series.
	Breakdown domain.Dimension
}

// CompiledFilter holds the dialect-specific WHERE predicate, extra joins and
// the values for every placeholder they reference.
type CompiledFilter struct {
	Where  string
	Join   string
	Params map[string]any
}

// Compile turns fs into predicates for d. Values are only ever bound as
// parameters; identifiers come from the dimension allow-list.
func Compile(d Dialect, fs domain.FilterSet, opts Options) (CompiledFilter, error) {
	if opts.Breakdown != "" && !opts.Breakdown.Valid() {
		return CompiledFilter{}, fmt.Errorf("%w: %q", domain.ErrInvalidDimension, opts.Breakdown)
	}

	params := map[string]any{
		ParamTeamID:    fs.TeamID,
		ParamStartDate: fs.StartDate,
		ParamEndDate:   fs.EndDate,
		ParamEventType: int(fs.EventType),
	}

	predicates := []string{
		fmt.Sprintf("%s = %s", teamIDColumn, d.Param(ParamTeamID, ParamUUID)),
		fmt.Sprintf("%s between %s and %s", eventCreatedAt,
			d.Param(ParamStartDate, ParamTimestamp), d.Param(ParamEndDate, ParamTimestamp)),
		fmt.Sprintf("%s = %s", eventType, d.Param(ParamEventType, ParamInt)),
	}

	needSession := opts.RequireSessionJoin || opts.Breakdown.SessionDerived()

	for _, f := range fs.Filters() {
		col := f.Key.Column()
		if col.SessionDerived() {
			needSession = true
		}
		name := string(f.Key)
		params[name] = f.Value
		predicates = append(predicates, fmt.Sprintf("%s = %s", d.Column(col), d.Param(name, ParamString)))
	}

	var joins []string
	if needSession {
		if j := d.SessionJoin(); j != "" {
			joins = append(joins, j)
		}
	}

	if opts.Breakdown == domain.DimReferrerDomain {
		predicates = append(predicates, selfReferralExclusion(d))
	}

	return CompiledFilter{
		Where:  strings.Join(predicates, "\n  and "),
		Join:   strings.Join(joins, "\n  "),
		Params: params,
	}, nil
}

// selfReferralExclusion drops rows without a referrer and rows referred by
// any website of the team. Websites without a domain are left out of the
// set, since a NULL in a not-in list would reject every row.
func selfReferralExclusion(d Dialect) string {
	col := d.Column(domain.DimReferrerDomain)
	return fmt.Sprintf(`%[1]s is not null
  and %[1]s <> ''
  and %[1]s not in (
    select w.domain
    from website w
      inner join team_website tw on w.website_id = tw.website_id
    where tw.team_id = %[2]s
      and w.domain is not null
  )`, col, d.Param(ParamTeamID, ParamUUID))
}
