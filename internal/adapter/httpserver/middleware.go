package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/watchlist/internal/platform/correlation"
)

// correlationMiddleware reuses a sane incoming X-Request-ID or generates one,
// and echoes it on the response.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.FromHeader(c.Request().Header.Get(correlation.Header))
		c.Response().Header().Set(correlation.Header, id)

		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
