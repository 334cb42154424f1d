package httpapi

import (
	"net/http"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/session"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleGetSession(c echo.Context) error {
	sess, err := s.sessions.GetSession(c.Request())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) handleSignIn(c echo.Context) error {
	var user session.User
	if err := bindBody(c, &user); err != nil {
		return err
	}
	sess, err := s.sessions.SignIn(c.Response(), c.Request(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) handleSignOut(c echo.Context) error {
	sess, err := s.sessions.SignOut(c.Response(), c.Request())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}
