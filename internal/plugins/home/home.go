// Package homeplugin provides the core plugin. It is seeded into the
// active set at registry construction and can never be deactivated; its
// lifecycle hooks have nothing to acquire or release.
package homeplugin

import (
	"context"

	"github.com/atriumapp/atrium/internal/plugin"
)

type homePlugin struct{}

// New creates the home plugin.
func New() plugin.Plugin {
	return &homePlugin{}
}

func (p *homePlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		ID:   "home",
		Name: "Home",
	}
}

func (p *homePlugin) Initialize(ctx context.Context) error {
	return nil
}

func (p *homePlugin) Dispose() error {
	return nil
}
