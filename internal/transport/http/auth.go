package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	authmw "github.com/Skotchmaster/shop_backoffice/internal/middleware/auth"
	"github.com/Skotchmaster/shop_backoffice/internal/service"
	"github.com/Skotchmaster/shop_backoffice/internal/session"
	"github.com/Skotchmaster/shop_backoffice/internal/transport"
	"github.com/Skotchmaster/shop_backoffice/internal/view"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) renderAuth(c echo.Context, name, title string, status int, form transport.CredentialsForm, msg string) error {
	form.Password = ""
	return c.Render(status, name, view.AuthPage{
		Page:  page(c, title),
		Error: msg,
		Form:  form,
	})
}

func (h *AuthHTTP) RegisterForm(c echo.Context) error {
	return h.renderAuth(c, view.PageRegister, "Register", http.StatusOK, transport.CredentialsForm{Role: "customer"}, "")
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var form transport.CredentialsForm
	if err := c.Bind(&form); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid form", "error", err)
		return h.renderAuth(c, view.PageRegister, "Register", http.StatusBadRequest, form, "Invalid form submission")
	}

	_, err := h.Svc.Register(ctx, form.Username, form.Password, form.Role)
	switch {
	case err == nil:
		l.Info("register_success", "username", form.Username)
		return c.Redirect(http.StatusFound, authmw.LoginPath)
	case errors.Is(err, service.ErrMissingCredentials):
		return h.renderAuth(c, view.PageRegister, "Register", http.StatusBadRequest, form, "Username and password are required")
	case errors.Is(err, service.ErrInvalidRole):
		return h.renderAuth(c, view.PageRegister, "Register", http.StatusBadRequest, form, "Invalid role")
	case errors.Is(err, service.ErrPasswordTooLong):
		return h.renderAuth(c, view.PageRegister, "Register", http.StatusBadRequest, form, "Password must be at most 72 bytes")
	case errors.Is(err, service.ErrUserAlreadyExist):
		return h.renderAuth(c, view.PageRegister, "Register", http.StatusConflict, form, "Username already exists")
	}
	l.Error("register_error", "status", 500, "reason", "cannot register user", "error", err)
	return h.renderAuth(c, view.PageRegister, "Register", http.StatusInternalServerError, form, "An error occurred during registration")
}

func (h *AuthHTTP) LoginForm(c echo.Context) error {
	return h.renderAuth(c, view.PageLogin, "Login", http.StatusOK, transport.CredentialsForm{}, "")
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var form transport.CredentialsForm
	if err := c.Bind(&form); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid form", "error", err)
		return h.renderAuth(c, view.PageLogin, "Login", http.StatusBadRequest, form, "Invalid form submission")
	}

	user, err := h.Svc.Login(ctx, form.Username, form.Password)
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		return h.renderAuth(c, view.PageLogin, "Login", http.StatusBadRequest, form, "Username and password are required")
	case errors.Is(err, service.ErrInvalidCredentials):
		return h.renderAuth(c, view.PageLogin, "Login", http.StatusUnauthorized, form, "Invalid username or password")
	case err != nil:
		l.Error("login_error", "status", 500, "reason", "cannot log in", "error", err)
		return h.renderAuth(c, view.PageLogin, "Login", http.StatusInternalServerError, form, "An error occurred during login")
	}

	sess := session.FromContext(c)
	if err := sess.Regenerate(); err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot regenerate session", "error", err)
		return h.renderAuth(c, view.PageLogin, "Login", http.StatusInternalServerError, form, "An error occurred during login")
	}
	target := sess.SignIn(user.Username, user.Role)
	if !localPath(target) {
		target = "/"
	}

	l.Info("login_success", "username", user.Username, "redirect", target)
	return c.Redirect(http.StatusFound, target)
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	sess := session.FromContext(c)
	logging.FromContext(c.Request().Context()).Info("logout_success", "username", sess.Username)
	sess.Destroy()
	return c.Redirect(http.StatusFound, authmw.LoginPath)
}

// localPath accepts only same-site absolute paths as redirect targets.
func localPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
