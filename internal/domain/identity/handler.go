package identity

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bienestar/bienestar/internal/platform/auth"
	"github.com/bienestar/bienestar/pkg/pagination"
)

type Handler struct {
	svc    *Service
	issuer *auth.Issuer
	tenant string
}

func NewHandler(svc *Service, issuer *auth.Issuer, tenant string) *Handler {
	return &Handler{svc: svc, issuer: issuer, tenant: tenant}
}

// RegisterRoutes registers login on the public group and account management
// on the authenticated one.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/auth/login", h.Login)

	api.GET("/profesionales", h.ListProfessionals)
	api.POST("/auth/change-password", h.ChangePassword)

	adminGroup := api.Group("/users", auth.RequireAdmin())
	adminGroup.GET("", h.ListUsers)
	adminGroup.POST("", h.CreateUser)
	adminGroup.PATCH("/:id/deactivate", h.DeactivateUser)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	u, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.issuer.Sign(u.ID, u.Role, u.Name, h.tenant)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}

	return c.JSON(http.StatusOK, loginResponse{Success: true, Token: token, User: u})
}

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u := &User{Email: req.Email, Name: req.Name, Role: req.Role}
	if err := h.svc.CreateUser(c.Request().Context(), u, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)
	users, total, err := h.svc.ListUsers(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list users")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg.Limit, pg.Offset))
}

// ListProfessionals feeds the dashboard's professional filter dropdown; any
// authenticated caller may read it.
func (h *Handler) ListProfessionals(c echo.Context) error {
	pros, err := h.svc.ListActiveProfessionals(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list professionals")
	}
	if pros == nil {
		pros = []*User{}
	}
	return c.JSON(http.StatusOK, pros)
}

func (h *Handler) DeactivateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not deactivate user")
	}
	return c.NoContent(http.StatusNoContent)
}

type changePasswordRequest struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

func (h *Handler) ChangePassword(c echo.Context) error {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ChangePassword(c.Request().Context(), uid, req.Current, req.Next); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
