package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/transport"
	"github.com/Skotchmaster/shop_backoffice/internal/view"
)

// ErrorHandler renders errors as the HTML error page, or as a JSON message
// under /api. Internal details are only shown when showDetail is set.
func ErrorHandler(showDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		detail := ""

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
			if he.Internal != nil {
				detail = he.Internal.Error()
			}
		} else {
			detail = err.Error()
		}
		if !showDetail {
			detail = ""
		}

		var werr error
		switch {
		case c.Request().Method == http.MethodHead:
			werr = c.NoContent(code)
		case strings.HasPrefix(c.Request().URL.Path, "/api/"):
			if code >= http.StatusInternalServerError {
				msg = "Internal server error"
			}
			werr = c.JSON(code, transport.MessageResponse{Message: msg})
		default:
			werr = c.Render(code, view.PageError, view.ErrorPage{
				Page:    page(c, msg),
				Status:  code,
				Message: msg,
				Detail:  detail,
			})
		}
		if werr != nil {
			logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
		}
	}
}
