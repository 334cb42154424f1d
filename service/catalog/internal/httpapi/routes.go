package httpapi

import (
	"context"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/pkg/grpcx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) registerRoutes() {
	s.echo.HTTPErrorHandler = s.handleHTTPError

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := context.WithValue(c.Request().Context(), grpcx.ContextRequestIDKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	s.echo.Use(s.requestLogger())
	s.echo.Use(s.metrics.Middleware())
	s.echo.Use(s.errorHandling())
	s.echo.Use(middleware.Recover())

	api := s.echo.Group("/api")
	s.registerHealthRoutes(api)
	s.registerSessionRoutes(api)
	s.registerCardRoutes(api)
	s.registerDemoRoutes(api)

	s.echo.GET("/metrics", echo.WrapHandler(MetricsHandler(s.registry)))
}

func (s *Server) registerHealthRoutes(g *echo.Group) {
	g.GET("/health", s.handleHealth)
	g.GET("/health/ready", s.handleReady)
}

func (s *Server) registerSessionRoutes(g *echo.Group) {
	g.GET("/auth/session", s.handleGetSession)
	g.POST("/auth/session", s.handleSignIn)
	g.DELETE("/auth/session", s.handleSignOut)
}

func (s *Server) registerCardRoutes(g *echo.Group) {
	g.GET("/cards", s.handleListCards)
	g.GET("/cards/:id", s.handleGetCard)
	g.POST("/cards", s.handleCreateCard)
	g.DELETE("/cards/:id", s.handleDeleteCard)
}

func (s *Server) registerDemoRoutes(g *echo.Group) {
	limiter := newRateLimiter(s.opts.DemoRatePerSecond, s.opts.DemoBurst)
	g.POST("/demo/headless", s.handleRunDemo, limiter)
	g.GET("/demo/headless/stream", s.handleStreamDemo, limiter)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			s.logger.Info("request", attrs...)
			return nil
		},
	})
}
