package report

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bienestar/bienestar/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/trabajadores/:workerId/informe", h.CaseReport)
}

// CaseReport returns the case document as JSON, or as printable HTML when
// formato=html.
func (h *Handler) CaseReport(c echo.Context) error {
	ctx := c.Request().Context()
	uid, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	workerID, err := uuid.Parse(c.Param("workerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid worker id")
	}
	reason := c.QueryParam("motivo")
	if reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "motivo is required")
	}

	r, err := h.svc.CaseReport(ctx, workerID, reason, uid, auth.IsAdmin(ctx))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotOwner):
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		case errors.Is(err, ErrNoSessions):
			return echo.NewHTTPError(http.StatusNotFound, "case not found")
		default:
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
	}

	if c.QueryParam("formato") == "html" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(http.StatusOK)
		return RenderHTML(c.Response(), r)
	}
	return c.JSON(http.StatusOK, r)
}
