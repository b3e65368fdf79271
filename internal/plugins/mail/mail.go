// Package mailplugin opens and tears down the IMAP session backing the
// mail feature module.
package mailplugin

import (
	"context"
	"fmt"
	"sync"

	"github.com/emersion/go-imap/client"

	"github.com/atriumapp/atrium/internal/config"
	"github.com/atriumapp/atrium/internal/logger"
	"github.com/atriumapp/atrium/internal/plugin"
)

// session is the slice of the IMAP client the plugin drives. Tests swap
// the dialer to avoid a live server.
type session interface {
	Login(username, password string) error
	Logout() error
}

type dialFunc func(addr string, useTLS bool) (session, error)

func dialIMAP(addr string, useTLS bool) (session, error) {
	if useTLS {
		return client.DialTLS(addr, nil)
	}
	return client.Dial(addr)
}

// MailPlugin owns a single IMAP session for the process.
type MailPlugin struct {
	cfg  *config.MailConfig
	log  *logger.Logger
	dial dialFunc

	mu   sync.Mutex
	conn session
}

var _ plugin.Plugin = (*MailPlugin)(nil)

// New creates the mail plugin.
func New(cfg *config.MailConfig, log *logger.Logger) *MailPlugin {
	return &MailPlugin{
		cfg:  cfg,
		log:  log.WithComponent("mail"),
		dial: dialIMAP,
	}
}

func (p *MailPlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		ID:           "mail",
		Name:         "Mail",
		Dependencies: []string{"auth"},
	}
}

func (p *MailPlugin) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.cfg == nil {
		return fmt.Errorf("mail plugin requires a mail config section")
	}

	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)
	conn, err := p.dial(addr, p.cfg.UseTLS)
	if err != nil {
		return fmt.Errorf("dialing imap server %s: %w", addr, err)
	}

	if p.cfg.Password != "" {
		if err := conn.Login(p.cfg.Username, p.cfg.Password); err != nil {
			_ = conn.Logout()
			return fmt.Errorf("imap login for %s: %w", p.cfg.Username, err)
		}
	}

	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()

	p.log.WithFields(map[string]any{"server": addr}).Debug("imap session established")
	return nil
}

func (p *MailPlugin) Dispose() error {
	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	p.mu.Unlock()

	if conn == nil {
		return nil
	}

	if err := conn.Logout(); err != nil {
		return fmt.Errorf("imap logout: %w", err)
	}
	return nil
}

// Connected reports whether an IMAP session is currently held.
func (p *MailPlugin) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}
