package dashboard

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/bienestar/bienestar/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.Dashboard)
	api.GET("/dashboard/sve", h.SVEDashboard)
}

type statsResponse struct {
	Success bool        `json:"success"`
	Stats   interface{} `json:"stats"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func parseDateParam(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be YYYY-MM-DD")
	}
	return &t, nil
}

func (h *Handler) scope(c echo.Context) (Scope, error) {
	ctx := c.Request().Context()
	uid, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return Scope{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	scope, err := ResolveScope(auth.RoleFromContext(ctx), uid, c.QueryParam("profesionalId"))
	if err != nil {
		return Scope{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return scope, nil
}

func (h *Handler) Dashboard(c echo.Context) error {
	scope, err := h.scope(c)
	if err != nil {
		return err
	}

	start, err := parseDateParam(c, "startDate")
	if err != nil {
		return err
	}
	end, err := parseDateParam(c, "endDate")
	if err != nil {
		return err
	}
	rng, err := ResolvePeriod(c.QueryParam("period"), start, end, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stats, err := h.svc.Dashboard(c.Request().Context(), Filter{Range: rng, Scope: scope})
	if err != nil {
		log.Error().Err(err).Msg("dashboard aggregation failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Message: "could not compute dashboard statistics",
			Error:   "internal error",
		})
	}
	return c.JSON(http.StatusOK, statsResponse{Success: true, Stats: stats})
}

func (h *Handler) SVEDashboard(c echo.Context) error {
	scope, err := h.scope(c)
	if err != nil {
		return err
	}

	stats, err := h.svc.SVEDashboard(c.Request().Context(), scope)
	if err != nil {
		log.Error().Err(err).Msg("sve dashboard aggregation failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Message: "could not compute sve dashboard statistics",
			Error:   "internal error",
		})
	}
	return c.JSON(http.StatusOK, statsResponse{Success: true, Stats: stats})
}
