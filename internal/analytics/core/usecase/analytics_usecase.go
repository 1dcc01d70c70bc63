package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"analytics-query-service/internal/analytics/core/domain"
	"analytics-query-service/internal/analytics/core/ports"
	"analytics-query-service/internal/analytics/core/result"
	"analytics-query-service/internal/analytics/core/sqlbuild"
)

// Engine is one backend: its SQL dialect and the executor that speaks it.
type Engine struct {
	Dialect  sqlbuild.Dialect
	Executor ports.QueryExecutor
}

// AnalyticsUseCase answers team analytics questions against whichever
// backend the dispatcher selects. Only the active engine has to be set.
type AnalyticsUseCase struct {
	dispatcher *Dispatcher
	relational *Engine
	columnar   *Engine
	log        *zap.Logger
}

func NewAnalyticsUseCase(dispatcher *Dispatcher, relational, columnar *Engine, log *zap.Logger) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		dispatcher: dispatcher,
		relational: relational,
		columnar:   columnar,
		log:        log,
	}
}

// GetTeamWebsiteStats returns page views, unique sessions, bounces and total
// time for the team's websites.
func (uc *AnalyticsUseCase) GetTeamWebsiteStats(ctx context.Context, fs domain.FilterSet) (domain.TotalsResult, error) {
	return query(ctx, uc, "totals",
		func(d sqlbuild.Dialect) (sqlbuild.Statement, error) {
			return sqlbuild.Totals(d, fs)
		},
		result.Totals,
	)
}

// GetTeamPageviewStats returns page views per time bucket.
func (uc *AnalyticsUseCase) GetTeamPageviewStats(ctx context.Context, fs domain.FilterSet) ([]domain.MetricPoint, error) {
	return query(ctx, uc, "pageview_series",
		func(d sqlbuild.Dialect) (sqlbuild.Statement, error) {
			return sqlbuild.PageviewSeries(d, fs)
		},
		seriesPoints(fs),
	)
}

// GetTeamSessionStats returns distinct sessions per time bucket.
func (uc *AnalyticsUseCase) GetTeamSessionStats(ctx context.Context, fs domain.FilterSet) ([]domain.MetricPoint, error) {
	return query(ctx, uc, "session_series",
		func(d sqlbuild.Dialect) (sqlbuild.Statement, error) {
			return sqlbuild.SessionSeries(d, fs)
		},
		seriesPoints(fs),
	)
}

// GetTeamPageviewMetrics returns the top event counts grouped by column.
func (uc *AnalyticsUseCase) GetTeamPageviewMetrics(ctx context.Context, fs domain.FilterSet, column string) ([]domain.MetricPoint, error) {
	dim, err := domain.ParseDimension(column)
	if err != nil {
		uc.log.Warn("Rejected breakdown column", zap.String("column", column))
		return nil, err
	}

	return query(ctx, uc, "pageview_metrics",
		func(d sqlbuild.Dialect) (sqlbuild.Statement, error) {
			return sqlbuild.PageviewMetrics(d, fs, dim)
		},
		breakdownPoints(false),
	)
}

// GetTeamSessionMetrics returns the top distinct-session counts grouped by
// column.
func (uc *AnalyticsUseCase) GetTeamSessionMetrics(ctx context.Context, fs domain.FilterSet, column string) ([]domain.MetricPoint, error) {
	dim, err := domain.ParseDimension(column)
	if err != nil {
		uc.log.Warn("Rejected breakdown column", zap.String("column", column))
		return nil, err
	}

	return query(ctx, uc, "session_metrics",
		func(d sqlbuild.Dialect) (sqlbuild.Statement, error) {
			return sqlbuild.SessionMetrics(d, fs, dim)
		},
		breakdownPoints(dim.CarriesCountry()),
	)
}

// GetTeamMetrics routes session-derived columns to session metrics and
// everything else to page view metrics.
func (uc *AnalyticsUseCase) GetTeamMetrics(ctx context.Context, fs domain.FilterSet, column string) ([]domain.MetricPoint, error) {
	dim, err := domain.ParseDimension(column)
	if err != nil {
		uc.log.Warn("Rejected breakdown column", zap.String("column", column))
		return nil, err
	}

	if dim.SessionDerived() {
		return uc.GetTeamSessionMetrics(ctx, fs, column)
	}
	return uc.GetTeamPageviewMetrics(ctx, fs, column)
}

// GetTeamPageviews fetches the page view and session series concurrently.
// Either failure fails the call.
func (uc *AnalyticsUseCase) GetTeamPageviews(ctx context.Context, fs domain.FilterSet) (*domain.PageviewStats, error) {
	var res domain.PageviewStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		points, err := uc.GetTeamPageviewStats(gctx, fs)
		res.Pageviews = points
		return err
	})
	g.Go(func() error {
		points, err := uc.GetTeamSessionStats(gctx, fs)
		res.Sessions = points
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetTeamSummary fetches totals and the page view series concurrently.
// Either failure fails the call.
func (uc *AnalyticsUseCase) GetTeamSummary(ctx context.Context, fs domain.FilterSet) (*domain.TeamSummary, error) {
	var res domain.TeamSummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := uc.GetTeamWebsiteStats(gctx, fs)
		res.Totals = totals
		return err
	})
	g.Go(func() error {
		points, err := uc.GetTeamPageviewStats(gctx, fs)
		res.Series = points
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

func seriesPoints(fs domain.FilterSet) func([]ports.Row) ([]domain.MetricPoint, error) {
	return func(rows []ports.Row) ([]domain.MetricPoint, error) {
		return result.Points(rows, result.PointOptions{Unit: fs.Unit, Location: fs.Location()})
	}
}

func breakdownPoints(withCountry bool) func([]ports.Row) ([]domain.MetricPoint, error) {
	return func(rows []ports.Row) ([]domain.MetricPoint, error) {
		return result.Points(rows, result.PointOptions{WithCountry: withCountry})
	}
}

func query[T any](
	ctx context.Context,
	uc *AnalyticsUseCase,
	kind string,
	build func(sqlbuild.Dialect) (sqlbuild.Statement, error),
	normalize func([]ports.Row) (T, error),
) (T, error) {
	return Dispatch(ctx, uc.dispatcher,
		func(ctx context.Context) (T, error) {
			return execute(ctx, uc.log, domain.Relational, uc.relational, kind, build, normalize)
		},
		func(ctx context.Context) (T, error) {
			return execute(ctx, uc.log, domain.Columnar, uc.columnar, kind, build, normalize)
		},
	)
}

func execute[T any](
	ctx context.Context,
	log *zap.Logger,
	backend domain.Backend,
	e *Engine,
	kind string,
	build func(sqlbuild.Dialect) (sqlbuild.Statement, error),
	normalize func([]ports.Row) (T, error),
) (T, error) {
	var zero T

	if e == nil || e.Dialect == nil || e.Executor == nil {
		return zero, fmt.Errorf("%w: %s", domain.ErrBackendUnavailable, backend)
	}

	stmt, err := build(e.Dialect)
	if err != nil {
		return zero, err
	}

	log.Debug("Running analytics query",
		zap.String("metric", kind),
		zap.Stringer("backend", backend))

	rows, err := e.Executor.Query(ctx, stmt.SQL, stmt.Params)
	if err != nil {
		log.Error("Analytics query failed",
			zap.String("metric", kind),
			zap.Stringer("backend", backend),
			zap.Error(err))
		return zero, &domain.BackendError{Backend: backend, Err: err}
	}

	out, err := normalize(rows)
	if err != nil {
		log.Error("Failed to normalize analytics rows",
			zap.String("metric", kind),
			zap.Stringer("backend", backend),
			zap.Error(err))
		return zero, err
	}
	return out, nil
}
