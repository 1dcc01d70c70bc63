package domain

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
)

type TimeUnit string

const (
	UnitMinute TimeUnit = "minute"
	UnitHour   TimeUnit = "hour"
	UnitDay    TimeUnit = "day"
	UnitMonth  TimeUnit = "month"
	UnitYear   TimeUnit = "year"
)

const (
	DefaultUnit     = UnitDay
	DefaultTimezone = "UTC"
)

func ParseTimeUnit(s string) (TimeUnit, error) {
	if s == "" {
		return DefaultUnit, nil
	}
	u := TimeUnit(s)
	if !u.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
	return u, nil
}

func (u TimeUnit) Valid() bool {
	switch u {
	case UnitMinute, UnitHour, UnitDay, UnitMonth, UnitYear:
		return true
	}
	return false
}

// Layout is the Go time layout of a bucket label for this unit. The SQL
// dialects render the same shape.
func (u TimeUnit) Layout() string {
	switch u {
	case UnitMinute:
		return "2006-01-02T15:04"
	case UnitHour:
		return "2006-01-02T15:00"
	case UnitMonth:
		return "2006-01"
	case UnitYear:
		return "2006"
	default:
		return "2006-01-02"
	}
}

// Truncate returns the start of the bucket containing t, on the wall clock
// of loc.
func (u TimeUnit) Truncate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, mo, d := t.Date()
	switch u {
	case UnitMinute:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc)
	case UnitHour:
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, loc)
	case UnitMonth:
		return time.Date(y, mo, 1, 0, 0, 0, 0, loc)
	case UnitYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, mo, d, 0, 0, 0, 0, loc)
	}
}

// Label formats the bucket containing t.
func (u TimeUnit) Label(t time.Time, loc *time.Location) string {
	return u.Truncate(t, loc).Format(u.Layout())
}

type EventType int

const (
	EventPageView    EventType = 1
	EventCustomEvent EventType = 2
)

// FilterKey names a dimensional filter accepted from callers.
type FilterKey string

const (
	FilterURL       FilterKey = "url"
	FilterReferrer  FilterKey = "referrer"
	FilterTitle     FilterKey = "title"
	FilterOS        FilterKey = "os"
	FilterBrowser   FilterKey = "browser"
	FilterDevice    FilterKey = "device"
	FilterCountry   FilterKey = "country"
	FilterRegion    FilterKey = "region"
	FilterCity      FilterKey = "city"
	FilterEventName FilterKey = "eventName"
)

// FilterKeys lists every filter key in the order predicates are emitted.
var FilterKeys = []FilterKey{
	FilterURL,
	FilterReferrer,
	FilterTitle,
	FilterOS,
	FilterBrowser,
	FilterDevice,
	FilterCountry,
	FilterRegion,
	FilterCity,
	FilterEventName,
}

var filterColumns = map[FilterKey]Dimension{
	FilterURL:       DimURLPath,
	FilterReferrer:  DimReferrerDomain,
	FilterTitle:     DimPageTitle,
	FilterOS:        DimOS,
	FilterBrowser:   DimBrowser,
	FilterDevice:    DimDevice,
	FilterCountry:   DimCountry,
	FilterRegion:    DimSubdivision1,
	FilterCity:      DimCity,
	FilterEventName: DimEventName,
}

// Column is the dimension a filter key compares against.
func (k FilterKey) Column() Dimension {
	return filterColumns[k]
}

func (k FilterKey) Valid() bool {
	_, ok := filterColumns[k]
	return ok
}

// FilterValue is one present dimensional filter.
type FilterValue struct {
	Key   FilterKey
	Value string
}

// FilterSet is the validated, request-scoped form of an analytics query.
// It is never mutated after construction.
type FilterSet struct {
	TeamID    string
	StartDate time.Time
	EndDate   time.Time
	Timezone  string
	Unit      TimeUnit
	EventType EventType

	location *time.Location
	filters  map[FilterKey]string
}

// NewFilterSet checks the FilterSet invariants. Absent keys in filters mean
// "no filter"; an empty string value is a filter on the empty string.
func NewFilterSet(
	teamID string,
	start, end time.Time,
	timezone string,
	unit TimeUnit,
	eventType EventType,
	filters map[FilterKey]string,
) (FilterSet, error) {
	id, err := uuid.Parse(teamID)
	if err != nil {
		return FilterSet{}, fmt.Errorf("%w: %q", ErrInvalidTeam, teamID)
	}

	if start.After(end) {
		return FilterSet{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	if unit == "" {
		unit = DefaultUnit
	}
	if !unit.Valid() {
		return FilterSet{}, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}

	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := LoadTimezone(timezone)
	if err != nil {
		return FilterSet{}, err
	}

	if eventType == 0 {
		eventType = EventPageView
	}

	copied := make(map[FilterKey]string, len(filters))
	for k, v := range filters {
		if !k.Valid() {
			return FilterSet{}, fmt.Errorf("%w: unknown filter %q", ErrInvalidDimension, k)
		}
		copied[k] = v
	}

	return FilterSet{
		TeamID:    id.String(),
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		Timezone:  timezone,
		Unit:      unit,
		EventType: eventType,
		location:  loc,
		filters:   copied,
	}, nil
}

// LoadTimezone resolves an IANA zone name. "Local" is rejected because it
// depends on the host.
func LoadTimezone(name string) (*time.Location, error) {
	if name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

func (f FilterSet) Location() *time.Location {
	if f.location == nil {
		return time.UTC
	}
	return f.location
}

func (f FilterSet) Filter(key FilterKey) (string, bool) {
	v, ok := f.filters[key]
	return v, ok
}

// Filters returns the present filters in FilterKeys order.
func (f FilterSet) Filters() []FilterValue {
	out := make([]FilterValue, 0, len(f.filters))
	for _, k := range FilterKeys {
		if v, ok := f.filters[k]; ok {
			out = append(out, FilterValue{Key: k, Value: v})
		}
	}
	return out
}

// WithEventType returns a copy selecting a different event type. The filter
// map is shared, which is safe because it is never written after
// construction.
func (f FilterSet) WithEventType(t EventType) FilterSet {
	f.EventType = t
	return f
}
