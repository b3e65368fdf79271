// Package authplugin manages the OAuth2 client configuration the other
// feature plugins authenticate through.
package authplugin

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/atriumapp/atrium/internal/config"
	"github.com/atriumapp/atrium/internal/logger"
	"github.com/atriumapp/atrium/internal/plugin"
)

// AuthPlugin wires the application's OAuth2 flow. Other plugins reach it
// for token sources; the registry drives its lifecycle.
type AuthPlugin struct {
	cfg *config.AuthConfig
	log *logger.Logger

	mu     sync.Mutex
	oauth  *oauth2.Config
	cached *oauth2.Token
}

var _ plugin.Plugin = (*AuthPlugin)(nil)

// New creates the auth plugin.
func New(cfg *config.AuthConfig, log *logger.Logger) *AuthPlugin {
	return &AuthPlugin{cfg: cfg, log: log.WithComponent("auth")}
}

func (p *AuthPlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		ID:   "auth",
		Name: "Authentication",
	}
}

func (p *AuthPlugin) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.cfg == nil {
		return fmt.Errorf("auth plugin requires an auth config section")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.oauth = &oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		RedirectURL:  p.cfg.RedirectURL,
		Scopes:       append([]string(nil), p.cfg.Scopes...),
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.cfg.AuthURL,
			TokenURL: p.cfg.TokenURL,
		},
	}

	p.log.Debug("oauth2 client configured")
	return nil
}

func (p *AuthPlugin) Dispose() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.oauth = nil
	p.cached = nil
	return nil
}

// AuthCodeURL builds the browser URL that starts the authorization flow.
func (p *AuthPlugin) AuthCodeURL(state string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.oauth == nil {
		return "", fmt.Errorf("auth plugin is not initialized")
	}
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorization code for a token and caches it.
func (p *AuthPlugin) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	p.mu.Lock()
	conf := p.oauth
	p.mu.Unlock()

	if conf == nil {
		return nil, fmt.Errorf("auth plugin is not initialized")
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	p.mu.Lock()
	p.cached = token
	p.mu.Unlock()

	return token, nil
}

// TokenSource returns a refreshing token source for the cached token.
func (p *AuthPlugin) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.oauth == nil {
		return nil, fmt.Errorf("auth plugin is not initialized")
	}
	if p.cached == nil {
		return nil, fmt.Errorf("no token has been obtained yet")
	}
	return p.oauth.TokenSource(ctx, p.cached), nil
}
