// Package auth gates routes on the session's identity and role.
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/session"
	"github.com/Skotchmaster/shop_backoffice/internal/view"
)

const LoginPath = "/auth/login"

type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	Forbid
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case Forbid:
		return "forbid"
	}
	return "unknown"
}

// CheckLogin lets authenticated sessions through. Anyone else is sent to the
// login page and target is remembered so the login can bring them back.
func CheckLogin(s *session.Session, target string) Decision {
	if s.Authenticated() {
		return Allow
	}
	if s != nil && target != LoginPath {
		s.ReturnTo = target
	}
	return RedirectToLogin
}

// CheckRole only redirects anonymous sessions; unlike CheckLogin it leaves
// ReturnTo alone.
func CheckRole(s *session.Session, role string) Decision {
	if !s.Authenticated() {
		return RedirectToLogin
	}
	if !s.HasRole(role) {
		return Forbid
	}
	return Allow
}

func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return enforce(c, next, CheckLogin(session.FromContext(c), c.Request().RequestURI))
	}
}

func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return enforce(c, next, CheckRole(session.FromContext(c), role))
		}
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRole(models.RoleAdmin)(next)
}

func enforce(c echo.Context, next echo.HandlerFunc, d Decision) error {
	switch d {
	case Allow:
		return next(c)
	case RedirectToLogin:
		return c.Redirect(http.StatusFound, LoginPath)
	}

	s := session.FromContext(c)
	logging.FromContext(c.Request().Context()).Warn("access_denied",
		"status", http.StatusForbidden,
		"username", s.Username,
		"role", s.Role,
	)
	return c.Render(http.StatusForbidden, view.PageError, view.ErrorPage{
		Page:    view.NewPage("Access Denied", s, ""),
		Status:  http.StatusForbidden,
		Message: "Access Denied",
		Detail:  "You need admin privileges to access this page",
	})
}
