package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/apperr"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/card"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/demo"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/session"
	"github.com/labstack/echo/v4"
)

// errorHandling trasforma ogni errore dei handler in una risposta JSON strutturata.
func (s *Server) errorHandling() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			if c.Response().Committed {
				s.logger.Warn("errore dopo risposta inviata", "path", c.Request().URL.Path, "error", err)
				return nil
			}
			return s.writeError(c, err)
		}
	}
}

// handleHTTPError copre gli errori che non passano dal middleware.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if werr := s.writeError(c, err); werr != nil {
		s.logger.Error("impossibile scrivere la risposta di errore", "error", werr)
	}
}

func (s *Server) writeError(c echo.Context, err error) error {
	status, structured := toAppError(err)
	s.logError(c, status, structured)

	if c.Request().Method == http.MethodHead {
		return c.NoContent(status)
	}
	if err := c.JSON(status, structured.ToResponse()); err != nil {
		return fmt.Errorf("failed to write error response: %w", err)
	}
	return nil
}

// toAppError mappa sentinel di dominio ed errori echo nel tipo strutturato.
func toAppError(err error) (int, *apperr.Error) {
	var structured *apperr.Error
	if errors.As(err, &structured) {
		return structured.HTTPStatus(), structured
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fromHTTPError(httpErr)
	}

	var e *apperr.Error
	switch {
	case errors.Is(err, card.ErrInvalidCard), errors.Is(err, demo.ErrInvalidSeed):
		e = apperr.Validation(err.Error())
	case errors.Is(err, session.ErrInvalidUser):
		e = apperr.Validation("id and name are required")
	case errors.Is(err, card.ErrCardNotFound):
		e = apperr.NotFound("card not found")
	case errors.Is(err, card.ErrCardExists):
		e = apperr.Conflict("card already exists")
	case errors.Is(err, card.ErrCardBusy):
		e = apperr.Conflict("card is being modified, retry later")
	case errors.Is(err, card.ErrStoreUnavailable):
		e = apperr.UpstreamUnavailable("card store unavailable", err)
	case errors.Is(err, session.ErrUnauthenticated):
		e = apperr.Unauthenticated("authentication required")
	case errors.Is(err, session.ErrSignInDisabled):
		e = apperr.Forbidden("sign in is disabled")
	default:
		e = apperr.From(err)
	}
	return e.HTTPStatus(), e
}

func fromHTTPError(httpErr *echo.HTTPError) *apperr.Error {
	message := http.StatusText(httpErr.Code)
	if msg, ok := httpErr.Message.(string); ok && msg != "" {
		message = msg
	}

	var errType apperr.Type
	switch {
	case httpErr.Code == http.StatusNotFound:
		errType = apperr.TypeNotFound
	case httpErr.Code == http.StatusUnauthorized:
		errType = apperr.TypeUnauthenticated
	case httpErr.Code == http.StatusForbidden:
		errType = apperr.TypeForbidden
	case httpErr.Code == http.StatusConflict:
		errType = apperr.TypeConflict
	case httpErr.Code == http.StatusTooManyRequests:
		errType = apperr.TypeRateLimited
	case httpErr.Code == http.StatusServiceUnavailable:
		errType = apperr.TypeUpstreamUnavailable
	case httpErr.Code >= 400 && httpErr.Code < 500:
		errType = apperr.TypeValidation
	default:
		errType = apperr.TypeInternal
		message = "internal server error"
	}

	return &apperr.Error{Type: errType, Message: message, Cause: httpErr.Internal}
}

func (s *Server) logError(c echo.Context, status int, err *apperr.Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", status,
	}
	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	switch err.Type {
	case apperr.TypeInternal, apperr.TypeUpstreamUnavailable:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		s.logger.Error("errore richiesta", attrs...)
	case apperr.TypeConflict, apperr.TypeRateLimited:
		s.logger.Warn("richiesta rifiutata", attrs...)
	default:
		s.logger.Info("richiesta non valida", attrs...)
	}
}
