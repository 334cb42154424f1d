package httpapi

import (
	"net/http"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/apperr"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/card"
	"github.com/labstack/echo/v4"
)

type cardsResponse struct {
	Cards []card.Card `json:"cards"`
}

type cardResponse struct {
	Card card.Card `json:"card"`
}

func (s *Server) handleListCards(c echo.Context) error {
	cards, err := s.cards.ListCards(c.Request().Context())
	if err != nil {
		return err
	}
	if cards == nil {
		cards = []card.Card{}
	}
	return c.JSON(http.StatusOK, cardsResponse{Cards: cards})
}

func (s *Server) handleGetCard(c echo.Context) error {
	found, err := s.cards.GetCard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cardResponse{Card: found})
}

func (s *Server) handleCreateCard(c echo.Context) error {
	user, err := s.sessions.RequireUser(c.Request())
	if err != nil {
		return err
	}

	var in card.Input
	if err := bindBody(c, &in); err != nil {
		return err
	}

	created, err := s.cards.CreateCard(c.Request().Context(), in)
	if err != nil {
		return err
	}
	s.logger.Info("carta creata via API", "card_id", created.ID, "user_id", user.ID)
	return c.JSON(http.StatusCreated, cardResponse{Card: created})
}

func (s *Server) handleDeleteCard(c echo.Context) error {
	user, err := s.sessions.RequireUser(c.Request())
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := s.cards.DeleteCard(c.Request().Context(), id); err != nil {
		return err
	}
	s.logger.Info("carta eliminata via API", "card_id", id, "user_id", user.ID)
	return c.NoContent(http.StatusNoContent)
}

// bindBody decodifica solo il corpo JSON; errori di formato diventano validation.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return apperr.Validation("malformed request body").WithField("detail", bindDetail(err))
	}
	return nil
}

func bindDetail(err error) string {
	if httpErr, ok := err.(*echo.HTTPError); ok {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}
