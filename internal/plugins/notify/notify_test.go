package notifyplugin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/atriumapp/atrium/internal/config"
)

var upgrader = websocket.Upgrader{}

// newGateway starts a websocket echo server that pushes one greeting to
// every client, returning its ws:// URL.
func newGateway(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"kind":"hello"}`)); err != nil {
			return
		}

		// Drain until the client closes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	meta := New(nil, nil).Metadata()
	require.Equal(t, "notify", meta.ID)
	require.Equal(t, []string{"auth"}, meta.Dependencies)
	require.NoError(t, meta.Validate())
}

func TestInitializeConnectsToGateway(t *testing.T) {
	t.Parallel()

	cfg := &config.NotifyConfig{GatewayURL: newGateway(t)}
	p := New(cfg, nil)

	require.NoError(t, p.Initialize(context.Background()))
	t.Cleanup(func() { _ = p.Dispose() })

	require.True(t, p.Connected())

	payload, err := p.ReadNotification()
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"hello"}`, string(payload))
}

func TestInitializeWithoutGatewayFails(t *testing.T) {
	t.Parallel()

	require.Error(t, New(nil, nil).Initialize(context.Background()))
	require.Error(t, New(&config.NotifyConfig{}, nil).Initialize(context.Background()))
}

func TestInitializeDialFailure(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cfg := &config.NotifyConfig{GatewayURL: "ws://127.0.0.1:1/stream"}
	require.Error(t, New(cfg, nil).Initialize(ctx))
}

func TestDisposeClosesConnection(t *testing.T) {
	t.Parallel()

	cfg := &config.NotifyConfig{GatewayURL: newGateway(t)}
	p := New(cfg, nil)
	require.NoError(t, p.Initialize(context.Background()))

	require.NoError(t, p.Dispose())
	require.False(t, p.Connected())

	_, err := p.ReadNotification()
	require.Error(t, err)
}

func TestDisposeBeforeInitializeIsSafe(t *testing.T) {
	t.Parallel()

	require.NoError(t, New(nil, nil).Dispose())
}
