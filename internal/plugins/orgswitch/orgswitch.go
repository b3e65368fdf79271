// Package orgswitchplugin lets the user move between organizations. Each
// switch mints a fresh session token so downstream requests can be scoped
// to the newly selected organization.
package orgswitchplugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/atriumapp/atrium/internal/config"
	"github.com/atriumapp/atrium/internal/logger"
	"github.com/atriumapp/atrium/internal/plugin"
)

// OrgSwitchPlugin tracks the active organization for the process.
type OrgSwitchPlugin struct {
	cfg *config.OrgConfig
	log *logger.Logger

	mu      sync.Mutex
	orgs    map[string]config.Organization
	active  string
	session string
}

var _ plugin.Plugin = (*OrgSwitchPlugin)(nil)

// New creates the orgswitch plugin.
func New(cfg *config.OrgConfig, log *logger.Logger) *OrgSwitchPlugin {
	return &OrgSwitchPlugin{cfg: cfg, log: log.WithComponent("orgswitch")}
}

func (p *OrgSwitchPlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		ID:           "orgswitch",
		Name:         "Organization Switcher",
		Dependencies: []string{"auth"},
	}
}

func (p *OrgSwitchPlugin) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.cfg == nil || len(p.cfg.Organizations) == 0 {
		return fmt.Errorf("orgswitch plugin requires at least one configured organization")
	}

	orgs := make(map[string]config.Organization, len(p.cfg.Organizations))
	for _, org := range p.cfg.Organizations {
		orgs[org.ID] = org
	}

	initial := p.cfg.Default
	if initial == "" {
		initial = p.cfg.Organizations[0].ID
	}

	p.mu.Lock()
	p.orgs = orgs
	p.active = initial
	p.session = uuid.NewString()
	p.mu.Unlock()

	p.log.WithFields(map[string]any{"organization": initial}).Debug("organization selected")
	return nil
}

func (p *OrgSwitchPlugin) Dispose() error {
	p.mu.Lock()
	p.orgs = nil
	p.active = ""
	p.session = ""
	p.mu.Unlock()
	return nil
}

// Organizations returns every selectable organization sorted by id.
func (p *OrgSwitchPlugin) Organizations() []config.Organization {
	p.mu.Lock()
	defer p.mu.Unlock()

	orgs := make([]config.Organization, 0, len(p.orgs))
	for _, org := range p.orgs {
		orgs = append(orgs, org)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].ID < orgs[j].ID })
	return orgs
}

// Active returns the active organization id and the current session token.
func (p *OrgSwitchPlugin) Active() (string, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active, p.session
}

// Switch makes the given organization active and returns the session
// token minted for it.
func (p *OrgSwitchPlugin) Switch(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.orgs == nil {
		return "", fmt.Errorf("orgswitch plugin is not initialized")
	}
	if _, ok := p.orgs[id]; !ok {
		return "", fmt.Errorf("unknown organization '%s'", id)
	}

	p.active = id
	p.session = uuid.NewString()
	return p.session, nil
}
