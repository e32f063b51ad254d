package consultation

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/bienestar/bienestar/internal/platform/auth"
	"github.com/bienestar/bienestar/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/consultas", h.ListSessions)
	api.POST("/consultas", h.CreateSession)
	api.GET("/consultas/:id", h.GetSession)
	api.PUT("/consultas/:id", h.UpdateSession)
	api.DELETE("/consultas/:id", h.DeleteSession)

	api.GET("/trabajadores/:workerId/consultas", h.ListWorkerSessions)
	api.GET("/trabajadores/:workerId/casos", h.ListWorkerCases)
}

func caller(c echo.Context) (uuid.UUID, bool, error) {
	ctx := c.Request().Context()
	uid, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, false, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return uid, auth.IsAdmin(ctx), nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, "not allowed")
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	default:
		log.Error().Err(err).Msg("consultation request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "request could not be processed")
	}
}

func (h *Handler) CreateSession(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}

	var cs Consultation
	if err := c.Bind(&cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateSession(c.Request().Context(), &cs, uid, isAdmin); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cs)
}

func (h *Handler) GetSession(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cs, err := h.svc.GetSession(c.Request().Context(), id, uid, isAdmin)
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		}
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, cs)
}

func (h *Handler) UpdateSession(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var cs Consultation
	if err := c.Bind(&cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cs.ID = id
	if err := h.svc.UpdateSession(c.Request().Context(), &cs, uid, isAdmin); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cs)
}

func (h *Handler) DeleteSession(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteSession(c.Request().Context(), id, uid, isAdmin); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListWorkerSessions(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	workerID, err := uuid.Parse(c.Param("workerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	sessions, err := h.svc.ListWorkerSessions(c.Request().Context(), workerID, uid, isAdmin)
	if err != nil {
		return httpError(err)
	}
	if sessions == nil {
		sessions = []*Consultation{}
	}
	return c.JSON(http.StatusOK, sessions)
}

func (h *Handler) ListWorkerCases(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	workerID, err := uuid.Parse(c.Param("workerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	cases, err := h.svc.ListWorkerCases(c.Request().Context(), workerID, uid, isAdmin)
	if err != nil {
		return httpError(err)
	}
	if cases == nil {
		cases = []Case{}
	}
	return c.JSON(http.StatusOK, cases)
}

// ListSessions lists sessions in scope; non-admins are pinned to their own
// workers regardless of query parameters.
func (h *Handler) ListSessions(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)

	f := Filter{Status: c.QueryParam("estado")}
	if f.Status != "" && !ValidStatus(f.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid estado")
	}
	if !isAdmin {
		f.ProfessionalID = &uid
	} else if p := c.QueryParam("profesionalId"); p != "" && p != "all" {
		pid, err := uuid.Parse(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid profesionalId")
		}
		f.ProfessionalID = &pid
	}

	if from := c.QueryParam("desde"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "desde must be YYYY-MM-DD")
		}
		f.From = &t
	}
	if to := c.QueryParam("hasta"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "hasta must be YYYY-MM-DD")
		}
		f.To = &t
	}

	sessions, total, err := h.svc.ListSessions(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list sessions")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(sessions, total, pg.Limit, pg.Offset))
}
