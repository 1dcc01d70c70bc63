package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"analytics-query-service/internal/analytics/core/domain"
	"analytics-query-service/internal/analytics/core/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserIDHeader carries the caller identity established by the gateway.
const UserIDHeader = "X-User-Id"

type AnalyticsUseCase interface {
	GetTeamPageviews(ctx context.Context, fs domain.FilterSet) (*domain.PageviewStats, error)
	GetTeamWebsiteStats(ctx context.Context, fs domain.FilterSet) (domain.TotalsResult, error)
	GetTeamSummary(ctx context.Context, fs domain.FilterSet) (*domain.TeamSummary, error)
	GetTeamMetrics(ctx context.Context, fs domain.FilterSet, column string) ([]domain.MetricPoint, error)
}

type TeamAuthorizer interface {
	CanViewTeam(ctx context.Context, userID, teamID string) (bool, error)
}

type AnalyticsHandler struct {
	uc   AnalyticsUseCase
	auth TeamAuthorizer
	log  *zap.Logger
}

func NewAnalyticsHandler(uc AnalyticsUseCase, auth TeamAuthorizer, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, auth: auth, log: log}
}

// GetPageviews godoc
// @Summary Team page views and sessions over time
// @Tags Analytics
// @Produce json
// @Param id path string true "Team ID"
// @Param startAt query int true "Start, unix milliseconds"
// @Param endAt query int true "End, unix milliseconds"
// @Param unit query string false "minute | hour | day | month | year"
// @Param timezone query string false "IANA timezone"
// @Success 200 {object} PageviewsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /teams/{id}/pageviews [get]
func (h *AnalyticsHandler) GetPageviews(c *fiber.Ctx) error {
	fs, done, err := h.filterSet(c)
	if done {
		return err
	}

	res, err := h.uc.GetTeamPageviews(c.UserContext(), fs)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(PageviewsResponse{
		Pageviews: toPoints(res.Pageviews),
		Sessions:  toPoints(res.Sessions),
	})
}

// GetStats godoc
// @Summary Team totals
// @Tags Analytics
// @Produce json
// @Param id path string true "Team ID"
// @Param startAt query int true "Start, unix milliseconds"
// @Param endAt query int true "End, unix milliseconds"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /teams/{id}/stats [get]
func (h *AnalyticsHandler) GetStats(c *fiber.Ctx) error {
	fs, done, err := h.filterSet(c)
	if done {
		return err
	}

	res, err := h.uc.GetTeamWebsiteStats(c.UserContext(), fs)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(toStats(res))
}

// GetSummary godoc
// @Summary Team totals with the page view series
// @Tags Analytics
// @Produce json
// @Param id path string true "Team ID"
// @Param startAt query int true "Start, unix milliseconds"
// @Param endAt query int true "End, unix milliseconds"
// @Param unit query string false "minute | hour | day | month | year"
// @Param timezone query string false "IANA timezone"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /teams/{id}/summary [get]
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	fs, done, err := h.filterSet(c)
	if done {
		return err
	}

	res, err := h.uc.GetTeamSummary(c.UserContext(), fs)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(SummaryResponse{
		Totals: toStats(res.Totals),
		Series: toPoints(res.Series),
	})
}

// GetMetrics godoc
// @Summary Team top-100 breakdown by a dimension
// @Tags Analytics
// @Produce json
// @Param id path string true "Team ID"
// @Param type query string true "Dimension column, e.g. url_path, referrer_domain, country, city"
// @Param startAt query int true "Start, unix milliseconds"
// @Param endAt query int true "End, unix milliseconds"
// @Success 200 {array} MetricPointResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /teams/{id}/metrics [get]
func (h *AnalyticsHandler) GetMetrics(c *fiber.Ctx) error {
	fs, done, err := h.filterSet(c, "type")
	if done {
		return err
	}

	res, err := h.uc.GetTeamMetrics(c.UserContext(), fs, c.Query("type"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(toPoints(res))
}

// filterSet checks the caller identity, validates the query and then asks
// whether the caller may view the team. Malformed input is rejected with 400
// before membership is looked up. When done is true the response has already
// been written and err is what the handler returns.
func (h *AnalyticsHandler) filterSet(c *fiber.Ctx, required ...string) (fs domain.FilterSet, done bool, err error) {
	userID := c.Get(UserIDHeader)
	if userID == "" {
		return fs, true, c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Error: "unauthorized"})
	}

	for _, key := range append([]string{"startAt", "endAt"}, required...) {
		if c.Query(key, "") == "" {
			return fs, true, c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_query",
				Message: key + " is required",
			})
		}
	}

	startAt, err := strconv.ParseInt(c.Query("startAt"), 10, 64)
	if err != nil {
		return fs, true, c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "invalid 'startAt' parameter",
		})
	}
	endAt, err := strconv.ParseInt(c.Query("endAt"), 10, 64)
	if err != nil {
		return fs, true, c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "invalid 'endAt' parameter",
		})
	}

	in := usecase.TeamQueryInput{
		TeamID:    c.Params("id"),
		StartAt:   startAt,
		EndAt:     endAt,
		Unit:      c.Query("unit", ""),
		Timezone:  c.Query("timezone", ""),
		URL:       optionalQuery(c, "url"),
		Referrer:  optionalQuery(c, "referrer"),
		Title:     optionalQuery(c, "title"),
		OS:        optionalQuery(c, "os"),
		Browser:   optionalQuery(c, "browser"),
		Device:    optionalQuery(c, "device"),
		Country:   optionalQuery(c, "country"),
		Region:    optionalQuery(c, "region"),
		City:      optionalQuery(c, "city"),
		EventName: optionalQuery(c, "eventName"),
	}

	fs, err = usecase.NormalizeFilters(in)
	if err != nil {
		return fs, true, h.fail(c, err)
	}

	ok, err := h.auth.CanViewTeam(c.UserContext(), userID, fs.TeamID)
	if err != nil {
		h.log.Error("Team authorization check failed", zap.String("team_id", fs.TeamID), zap.Error(err))
		return fs, true, c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: "internal_server_error"})
	}
	if !ok {
		return fs, true, c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Error: "unauthorized"})
	}

	return fs, false, nil
}

// optionalQuery distinguishes an absent parameter from an empty one.
func optionalQuery(c *fiber.Ctx, key string) *string {
	if !c.Context().QueryArgs().Has(key) {
		return nil
	}
	v := c.Query(key)
	return &v
}

func (h *AnalyticsHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTeam),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidUnit),
		errors.Is(err, domain.ErrInvalidTimezone),
		errors.Is(err, domain.ErrInvalidDimension):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	default:
		h.log.Error("Analytics request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
