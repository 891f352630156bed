package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ClientIDHeader = "X-Client-ID"

	clientIDKey = "client_id"
	maxClientID = 64
)

// ClientID identifies the calling browser or kiosk. Callers without a usable
// id get a fresh one, echoed back so they can keep sending it.
func ClientID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(ClientIDHeader)
			if id == "" || len(id) > maxClientID {
				id = uuid.NewString()
			}
			c.Set(clientIDKey, id)
			c.Response().Header().Set(ClientIDHeader, id)
			return next(c)
		}
	}
}

// ClientIDFrom returns the id set by ClientID.
func ClientIDFrom(c echo.Context) string {
	id, _ := c.Get(clientIDKey).(string)
	return id
}
