package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleHealth non tocca nessun servizio esterno.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, s.health.Live())
}

func (s *Server) handleReady(c echo.Context) error {
	readiness := s.health.Ready(c.Request().Context())
	if !readiness.Ready() {
		return c.JSON(http.StatusServiceUnavailable, readiness)
	}
	return c.JSON(http.StatusOK, readiness)
}
