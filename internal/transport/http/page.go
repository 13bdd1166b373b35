package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backoffice/internal/middleware/csrf"
	"github.com/Skotchmaster/shop_backoffice/internal/session"
	"github.com/Skotchmaster/shop_backoffice/internal/view"
)

func page(c echo.Context, title string) view.Page {
	return view.NewPage(title, session.FromContext(c), csrf.Token(c))
}
