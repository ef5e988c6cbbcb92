package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialStream(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/battles/stream?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStream_RelaysLogThenSummary(t *testing.T) {
	r := newRouter(t)
	a := createCharacter(t, r, "Conan", "Warrior")
	b := createCharacter(t, r, "Merlin", "Mage")
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialStream(t, srv, "character1Id="+a["_id"].(string)+"&character2Id="+b["_id"].(string))

	var lines []string
	var summary map[string]any
	for {
		kind, data, err := conn.ReadMessage()
		require.NoError(t, err)
		require.Equal(t, websocket.TextMessage, kind)
		if strings.HasPrefix(string(data), "{") {
			require.NoError(t, json.Unmarshal(data, &summary))
			break
		}
		lines = append(lines, string(data))
	}

	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "Battle between Conan (Warrior)"))
	assert.Equal(t, lines, toStrings(summary["battleLog"].([]any)))
	assert.Equal(t, 1.0, summary["battleId"])

	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)

	code, body := do(t, r, http.MethodGet, "/api/battles", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, body["results"])
}

func TestStream_UnknownCharacter(t *testing.T) {
	r := newRouter(t)
	a := createCharacter(t, r, "Conan", "Warrior")
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialStream(t, srv, "character1Id="+a["_id"].(string)+"&character2Id=ghost")

	var frame map[string]any
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "fail", frame["status"])
	assert.Equal(t, 404.0, frame["code"])
	assert.Equal(t, "Character with ID ghost not found", frame["message"])
}

func TestStream_MissingQuery(t *testing.T) {
	srv := httptest.NewServer(newRouter(t))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/battles/stream?character1Id=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = v.(string)
	}
	return out
}
