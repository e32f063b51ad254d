package company

import (
	"net/http"

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
	api.GET("/empresas", h.ListCompanies)
	api.GET("/empresas/:id", h.GetCompany)

	writeGroup := api.Group("/empresas", auth.RequireAdmin())
	writeGroup.POST("", h.CreateCompany)
	writeGroup.PUT("/:id", h.UpdateCompany)
	writeGroup.DELETE("/:id", h.DeleteCompany)
}

func (h *Handler) CreateCompany(c echo.Context) error {
	var co Company
	if err := c.Bind(&co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCompany(c.Request().Context(), &co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, co)
}

func (h *Handler) GetCompany(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	co, err := h.svc.GetCompany(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "company not found")
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) UpdateCompany(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var co Company
	if err := c.Bind(&co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	co.ID = id
	if err := h.svc.UpdateCompany(c.Request().Context(), &co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) DeleteCompany(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteCompany(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete company")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListCompanies(c echo.Context) error {
	pg := pagination.FromContext(c)
	cos, total, err := h.svc.ListCompanies(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list companies")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(cos, total, pg.Limit, pg.Offset))
}
