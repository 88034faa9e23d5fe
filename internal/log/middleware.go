package log

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger returns echo middleware that logs one line per request with
// the shared field names.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			attrs := []any{
				FieldMethod, req.Method,
				FieldPath, req.URL.Path,
				FieldStatusCode, c.Response().Status,
				FieldDuration, time.Since(start).Milliseconds(),
			}
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				attrs = append(attrs, FieldRequestID, id)
			}
			if err != nil {
				attrs = append(attrs, FieldError, err.Error())
				logger.ErrorContext(req.Context(), "request failed", attrs...)
				return nil
			}

			logger.InfoContext(req.Context(), "request handled", attrs...)
			return nil
		}
	}
}
