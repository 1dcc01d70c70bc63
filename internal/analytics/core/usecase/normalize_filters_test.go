package usecase

import (
	"errors"
	"testing"
	"time"

	"analytics-query-service/internal/analytics/core/domain"
)

func strPtr(s string) *string { return &s }

func TestNormalizeFilters_Success(t *testing.T) {
	in := TeamQueryInput{
		TeamID:   testTeamID,
		StartAt:  1704067200000, // 2024-01-01T00:00:00Z
		EndAt:    1704074400000, // 2024-01-01T02:00:00Z
		Unit:     "hour",
		Timezone: "America/New_York",
		URL:      strPtr("/pricing"),
		Country:  strPtr(""),
	}

	fs, err := NormalizeFilters(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !fs.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %s", fs.StartDate)
	}
	if fs.Unit != domain.UnitHour || fs.Timezone != "America/New_York" {
		t.Fatalf("unexpected unit/timezone: %s %s", fs.Unit, fs.Timezone)
	}
	if fs.EventType != domain.EventPageView {
		t.Fatalf("expected page view event type, got %d", fs.EventType)
	}

	filters := fs.Filters()
	if len(filters) != 2 {
		t.Fatalf("expected 2 filters, got %+v", filters)
	}
	if filters[0].Key != domain.FilterURL || filters[0].Value != "/pricing" {
		t.Fatalf("unexpected first filter: %+v", filters[0])
	}
	if filters[1].Key != domain.FilterCountry || filters[1].Value != "" {
		t.Fatalf("unexpected second filter: %+v", filters[1])
	}
}

func TestNormalizeFilters_Defaults(t *testing.T) {
	fs, err := NormalizeFilters(TeamQueryInput{TeamID: testTeamID, StartAt: 0, EndAt: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.Unit != domain.UnitDay {
		t.Fatalf("expected day unit, got %s", fs.Unit)
	}
	if fs.Timezone != "UTC" {
		t.Fatalf("expected UTC, got %s", fs.Timezone)
	}
	if len(fs.Filters()) != 0 {
		t.Fatalf("expected no filters, got %+v", fs.Filters())
	}
}

func TestNormalizeFilters_Idempotent(t *testing.T) {
	in := TeamQueryInput{
		TeamID:   testTeamID,
		StartAt:  1704067200000,
		EndAt:    1704153600000,
		Unit:     "day",
		Timezone: "Asia/Tokyo",
		City:     strPtr("Tokyo"),
	}

	first, err := NormalizeFilters(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again := TeamQueryInput{
		TeamID:   first.TeamID,
		StartAt:  first.StartDate.UnixMilli(),
		EndAt:    first.EndDate.UnixMilli(),
		Unit:     string(first.Unit),
		Timezone: first.Timezone,
	}
	if v, ok := first.Filter(domain.FilterCity); ok {
		again.City = &v
	}

	second, err := NormalizeFilters(again)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.TeamID != second.TeamID ||
		!first.StartDate.Equal(second.StartDate) ||
		!first.EndDate.Equal(second.EndDate) ||
		first.Unit != second.Unit ||
		first.Timezone != second.Timezone {
		t.Fatalf("normalization not idempotent: %+v vs %+v", first, second)
	}
	if len(second.Filters()) != 1 || second.Filters()[0] != first.Filters()[0] {
		t.Fatalf("filters differ: %+v vs %+v", first.Filters(), second.Filters())
	}
}

func TestNormalizeFilters_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   TeamQueryInput
		want error
	}{
		{
			name: "bad team",
			in:   TeamQueryInput{TeamID: "abc", StartAt: 0, EndAt: 1},
			want: domain.ErrInvalidTeam,
		},
		{
			name: "reversed range",
			in:   TeamQueryInput{TeamID: testTeamID, StartAt: 2000, EndAt: 1000},
			want: domain.ErrInvalidRange,
		},
		{
			name: "bad unit",
			in:   TeamQueryInput{TeamID: testTeamID, StartAt: 0, EndAt: 1, Unit: "week"},
			want: domain.ErrInvalidUnit,
		},
		{
			name: "bad timezone",
			in:   TeamQueryInput{TeamID: testTeamID, StartAt: 0, EndAt: 1, Timezone: "Nowhere/City"},
			want: domain.ErrInvalidTimezone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeFilters(tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
