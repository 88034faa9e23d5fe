package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	userIDHeader = "X-User-ID"
	userIDKey    = "user_id"
)

// RequireUserID extracts the caller's user id from the X-User-ID header.
// Requests without a valid UUID are rejected before reaching a handler.
func RequireUserID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Request().Header.Get(userIDHeader))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or invalid X-User-ID header"})
		}
		c.Set(userIDKey, id.String())
		return next(c)
	}
}

func userID(c echo.Context) string {
	s, _ := c.Get(userIDKey).(string)
	return s
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// yearMonthParams reads ?year= and ?month= query parameters. Both default to
// the current UTC month when absent.
func yearMonthParams(c echo.Context) (int, time.Month, error) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	var err error
	if raw := c.QueryParam("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil || year < 1970 || year > 9999 {
			return 0, 0, errors.New("invalid year")
		}
	}
	if raw := c.QueryParam("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return 0, 0, errors.New("invalid month")
		}
	}
	return year, time.Month(month), nil
}
