package fiber

import "analytics-query-service/internal/analytics/core/domain"

type MetricPointResponse struct {
	X       string  `json:"x" example:"2024-01-01T00:00"`
	Y       int64   `json:"y" example:"3"`
	Country *string `json:"country,omitempty" example:"DE"`
}

type PageviewsResponse struct {
	Pageviews []MetricPointResponse `json:"pageviews"`
	Sessions  []MetricPointResponse `json:"sessions"`
}

type StatsResponse struct {
	Pageviews int64 `json:"pageviews"`
	Uniques   int64 `json:"uniques"`
	Bounces   int64 `json:"bounces"`
	TotalTime int64 `json:"totaltime"`
}

type SummaryResponse struct {
	Totals StatsResponse         `json:"totals"`
	Series []MetricPointResponse `json:"series"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message,omitempty" example:"invalid time range"`
}

func toPoints(points []domain.MetricPoint) []MetricPointResponse {
	out := make([]MetricPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, MetricPointResponse{X: p.X, Y: p.Y, Country: p.Country})
	}
	return out
}

func toStats(t domain.TotalsResult) StatsResponse {
	return StatsResponse{
		Pageviews: t.Pageviews,
		Uniques:   t.Uniques,
		Bounces:   t.Bounces,
		TotalTime: t.TotalTime,
	}
}
