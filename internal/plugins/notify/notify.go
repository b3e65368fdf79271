// Package notifyplugin holds the websocket connection to the push
// gateway that feeds live notifications into the client.
package notifyplugin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/atriumapp/atrium/internal/config"
	"github.com/atriumapp/atrium/internal/logger"
	"github.com/atriumapp/atrium/internal/plugin"
)

const closeGracePeriod = time.Second

// NotifyPlugin owns the push gateway connection for the process.
type NotifyPlugin struct {
	cfg *config.NotifyConfig
	log *logger.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

var _ plugin.Plugin = (*NotifyPlugin)(nil)

// New creates the notify plugin.
func New(cfg *config.NotifyConfig, log *logger.Logger) *NotifyPlugin {
	return &NotifyPlugin{cfg: cfg, log: log.WithComponent("notify")}
}

func (p *NotifyPlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		ID:           "notify",
		Name:         "Notifications",
		Dependencies: []string{"auth"},
	}
}

func (p *NotifyPlugin) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.cfg == nil || p.cfg.GatewayURL == "" {
		return fmt.Errorf("notify plugin requires a gateway url")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, p.cfg.GatewayURL, nil)
	if err != nil {
		return fmt.Errorf("dialing notification gateway %s: %w", p.cfg.GatewayURL, err)
	}

	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()

	p.log.WithFields(map[string]any{"gateway": p.cfg.GatewayURL}).Debug("notification stream connected")
	return nil
}

func (p *NotifyPlugin) Dispose() error {
	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	p.mu.Unlock()

	if conn == nil {
		return nil
	}

	deadline := time.Now().Add(closeGracePeriod)
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client shutting down")
	if err := conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		conn.Close()
		return fmt.Errorf("closing notification stream: %w", err)
	}
	return conn.Close()
}

// Connected reports whether the gateway connection is currently held.
func (p *NotifyPlugin) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// ReadNotification blocks until the gateway delivers the next message.
func (p *NotifyPlugin) ReadNotification() ([]byte, error) {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()

	if conn == nil {
		return nil, fmt.Errorf("notify plugin is not initialized")
	}

	_, payload, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("reading notification: %w", err)
	}
	return payload, nil
}
