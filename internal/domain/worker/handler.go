package worker

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	api.GET("/trabajadores", h.ListWorkers)
	api.POST("/trabajadores", h.RegisterWorker)
	api.GET("/trabajadores/:id", h.GetWorker)
	api.PUT("/trabajadores/:id", h.UpdateWorker)
	api.DELETE("/trabajadores/:id", h.DeleteWorker)
	api.PATCH("/trabajadores/:id/cierre", h.CloseCase)
}

// caller resolves the authenticated professional's id and admin flag.
func caller(c echo.Context) (uuid.UUID, bool, error) {
	ctx := c.Request().Context()
	uid, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, false, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return uid, auth.IsAdmin(ctx), nil
}

func (h *Handler) RegisterWorker(c echo.Context) error {
	uid, _, err := caller(c)
	if err != nil {
		return err
	}

	var w Worker
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// The registering professional owns the worker regardless of the payload.
	w.ProfessionalID = uid

	if err := h.svc.RegisterWorker(c.Request().Context(), &w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) GetWorker(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	w, err := h.svc.GetWorker(c.Request().Context(), id, uid, isAdmin)
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		}
		return echo.NewHTTPError(http.StatusNotFound, "worker not found")
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) ListWorkers(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)

	f := Filter{Search: c.QueryParam("q")}
	if !isAdmin {
		// Professionals only ever see their own workers.
		f.ProfessionalID = &uid
	} else if p := c.QueryParam("profesionalId"); p != "" && p != "all" {
		pid, err := uuid.Parse(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid profesionalId")
		}
		f.ProfessionalID = &pid
	}

	workers, total, err := h.svc.ListWorkers(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list workers")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(workers, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateWorker(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var w Worker
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	w.ID = id

	if err := h.svc.UpdateWorker(c.Request().Context(), &w, uid, isAdmin); err != nil {
		if errors.Is(err, ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) DeleteWorker(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteWorker(c.Request().Context(), id, uid, isAdmin); err != nil {
		if errors.Is(err, ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete worker")
	}
	return c.NoContent(http.StatusNoContent)
}

type closeCaseRequest struct {
	Date   *string `json:"fecha_cierre"`
	Reopen bool    `json:"reabrir"`
}

func (h *Handler) CloseCase(c echo.Context) error {
	uid, isAdmin, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req closeCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var date *time.Time
	if !req.Reopen {
		d := time.Now().UTC()
		if req.Date != nil {
			parsed, err := time.Parse("2006-01-02", *req.Date)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "fecha_cierre must be YYYY-MM-DD")
			}
			d = parsed
		}
		date = &d
	}

	if err := h.svc.CloseCase(c.Request().Context(), id, uid, isAdmin, date); err != nil {
		if errors.Is(err, ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update closure date")
	}
	return c.NoContent(http.StatusNoContent)
}
