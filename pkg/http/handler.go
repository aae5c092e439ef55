package http

import "github.com/labstack/echo/v4"

// Handler is anything that can attach routes to the server.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
