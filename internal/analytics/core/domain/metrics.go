package domain

// MetricPoint is one bucket of a time series or one row of a breakdown.
// Country is only set for city and subdivision breakdowns.
type MetricPoint struct {
	X       string
	Y       int64
	Country *string
}

type TotalsResult struct {
	Pageviews int64
	Uniques   int64
	Bounces   int64
	TotalTime int64 // seconds
}

// PageviewStats pairs the pageview and session series of one request.
type PageviewStats struct {
	Pageviews []MetricPoint
	Sessions  []MetricPoint
}

// TeamSummary pairs totals with the pageview series of one request.
type TeamSummary struct {
	Totals TotalsResult
	Series []MetricPoint
}
