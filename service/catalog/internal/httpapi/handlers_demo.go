package httpapi

import (
	"net/http"
	"time"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/demo"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const streamWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type demoRequest struct {
	Seed string `json:"seed"`
}

type demoResponse struct {
	Steps []demo.Step `json:"steps"`
}

func (s *Server) handleRunDemo(c echo.Context) error {
	var req demoRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	run, err := s.demo.Run(c.Request().Context(), req.Seed)
	if err != nil {
		return err
	}
	s.metrics.DemoSteps.Observe(float64(len(run.Steps)))
	return c.JSON(http.StatusOK, demoResponse{Steps: run.Steps})
}

// handleStreamDemo invia gli stessi passi su WebSocket, un messaggio JSON per passo.
// Il seed viene validato prima dell'upgrade cosi' gli errori restano JSON HTTP.
func (s *Server) handleStreamDemo(c echo.Context) error {
	run, err := s.demo.Run(c.Request().Context(), c.QueryParam("seed"))
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade ha gia' risposto al client.
		s.logger.Warn("upgrade websocket fallito", "error", err)
		return nil
	}
	defer func() { _ = conn.Close() }()

	for _, step := range run.Steps {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(step); err != nil {
			s.logger.Warn("invio passo demo fallito", "error", err, "index", step.Index)
			return nil
		}
	}
	s.metrics.DemoSteps.Observe(float64(len(run.Steps)))

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "finished")
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(streamWriteTimeout)); err != nil {
		s.logger.Debug("close websocket fallito", "error", err)
	}
	return nil
}
