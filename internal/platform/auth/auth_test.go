package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

func doRequest(t *testing.T, mw echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, RoleFromContext(c.Request().Context()))
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestJWTMiddlewareRoundTrip(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	uid := uuid.New()
	token, err := issuer.Sign(uid, RoleProfessional, "Laura Gómez", "default")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	rec := doRequest(t, JWTMiddleware(testSecret), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != RoleProfessional {
		t.Errorf("role in context = %q, want %q", rec.Body.String(), RoleProfessional)
	}
}

func TestJWTMiddlewareRejects(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	expired := NewIssuer(testSecret, -time.Hour)
	wrongKey := NewIssuer([]byte("other-secret"), time.Hour)
	uid := uuid.New()

	good, _ := issuer.Sign(uid, RoleAdmin, "a", "default")
	old, _ := expired.Sign(uid, RoleAdmin, "a", "default")
	forged, _ := wrongKey.Sign(uid, RoleAdmin, "a", "default")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic xyz"},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + old},
		{"wrong signing key", "Bearer " + forged},
		{"bearer without token", "Bearer"},
	}
	_ = good

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, JWTMiddleware(testSecret), tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		required []string
		want     int
	}{
		{"exact match", RoleProfessional, []string{RoleProfessional}, http.StatusOK},
		{"admin passes any check", RoleAdmin, []string{RoleProfessional}, http.StatusOK},
		{"wrong role", RoleProfessional, []string{RoleAdmin}, http.StatusForbidden},
		{"no role in context", "", []string{RoleProfessional}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := NewIssuer(testSecret, time.Hour)
			header := ""
			if tt.role != "" {
				token, _ := issuer.Sign(uuid.New(), tt.role, "x", "default")
				header = "Bearer " + token
			}

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			chain := func(next echo.HandlerFunc) echo.HandlerFunc {
				if header == "" {
					return RequireRole(tt.required...)(next)
				}
				return JWTMiddleware(testSecret)(RequireRole(tt.required...)(next))
			}
			handler := chain(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "correct horse battery") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
	if _, err := HashPassword("short"); err == nil {
		t.Error("expected error for short password")
	}
}
