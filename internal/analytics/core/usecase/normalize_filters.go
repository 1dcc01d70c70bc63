package usecase

import (
	"time"

	"analytics-query-service/internal/analytics/core/domain"
)

// TeamQueryInput is the raw form of an analytics request. Nil filter
// pointers mean the filter was not supplied.
type TeamQueryInput struct {
	TeamID   string
	StartAt  int64 // unix milliseconds
	EndAt    int64 // unix milliseconds
	Unit     string
	Timezone string

	URL       *string
	Referrer  *string
	Title     *string
	OS        *string
	Browser   *string
	Device    *string
	Country   *string
	Region    *string
	City      *string
	EventName *string
}

// NormalizeFilters validates in and builds the canonical FilterSet.
func NormalizeFilters(in TeamQueryInput) (domain.FilterSet, error) {
	unit, err := domain.ParseTimeUnit(in.Unit)
	if err != nil {
		return domain.FilterSet{}, err
	}

	filters := make(map[domain.FilterKey]string)
	for key, v := range map[domain.FilterKey]*string{
		domain.FilterURL:       in.URL,
		domain.FilterReferrer:  in.Referrer,
		domain.FilterTitle:     in.Title,
		domain.FilterOS:        in.OS,
		domain.FilterBrowser:   in.Browser,
		domain.FilterDevice:    in.Device,
		domain.FilterCountry:   in.Country,
		domain.FilterRegion:    in.Region,
		domain.FilterCity:      in.City,
		domain.FilterEventName: in.EventName,
	} {
		if v != nil {
			filters[key] = *v
		}
	}

	return domain.NewFilterSet(
		in.TeamID,
		time.UnixMilli(in.StartAt),
		time.UnixMilli(in.EndAt),
		in.Timezone,
		unit,
		domain.EventPageView,
		filters,
	)
}
