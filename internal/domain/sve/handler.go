package sve

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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
	api.POST("/sve/mesa", h.CreateWorkTable)
	api.GET("/sve/trabajadores/:workerId/mesa", h.GetWorkTable)
	api.PUT("/sve/trabajadores/:workerId/mesa", h.UpdateWorkTable)

	api.POST("/sve/consultas", h.CreateSession)
	api.GET("/sve/consultas/:id", h.GetSession)
	api.PUT("/sve/consultas/:id", h.UpdateSession)
	api.DELETE("/sve/consultas/:id", h.DeleteSession)
	api.GET("/sve/trabajadores/:workerId/consultas", h.ListWorkerSessions)
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
	case errors.Is(err, ErrWorkTable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNoWorkTable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	default:
		log.Error().Err(err).Msg("sve request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "request could not be processed")
	}
}

func (h *Handler) CreateWorkTable(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	var wt WorkTable
	if err := c.Bind(&wt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateWorkTable(c.Request().Context(), &wt, uid, isAdmin); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, wt)
}

func (h *Handler) GetWorkTable(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	workerID, err := uuid.Parse(c.Param("workerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	wt, err := h.svc.GetWorkTable(c.Request().Context(), workerID, uid, isAdmin)
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		}
		return echo.NewHTTPError(http.StatusNotFound, "work table not found")
	}
	return c.JSON(http.StatusOK, wt)
}

func (h *Handler) UpdateWorkTable(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	workerID, err := uuid.Parse(c.Param("workerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	var wt WorkTable
	if err := c.Bind(&wt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	wt.WorkerID = workerID
	if err := h.svc.UpdateWorkTable(c.Request().Context(), &wt, uid, isAdmin); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, wt)
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
