package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/demo"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleStreamDemo(t *testing.T) {
	srv := newTestServer(t, withSeed(seedCards(t)))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	rec := do(t, srv, request{method: http.MethodPost, path: "/api/demo/headless", body: `{"seed":"stream"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	var expected demoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &expected))

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/demo/headless/stream?seed=stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	var got []demo.Step
	for {
		var step demo.Step
		err := conn.ReadJSON(&step)
		if err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error %v", err)
			break
		}
		got = append(got, step)
	}
	assert.Equal(t, expected.Steps, got)
}

func TestHandleStreamDemo_InvalidSeed(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, request{method: http.MethodGet, path: "/api/demo/headless/stream"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"validation"`)
}
