package plugin

import (
	"context"
	"fmt"
	"strings"
)

// Plugin defines the contract every Atrium feature module must satisfy.
//
// A plugin is a statically known feature module (mail, crm, ...) identified
// by a stable id. The registry owns when Initialize and Dispose run; what
// they do internally (network, storage, caches) is entirely up to the
// plugin.
//
// Implementations should:
//   - Return stable identity and declared dependencies via Metadata()
//   - Acquire resources in Initialize(), honoring the supplied context
//   - Release resources in Dispose(); Dispose must be safe to call even
//     when Initialize never ran or failed
type Plugin interface {
	// Metadata returns the plugin's identity and declared dependencies.
	// The returned value must be constant for the plugin's lifetime.
	Metadata() Metadata

	// Initialize prepares the plugin for use. It may perform long-running
	// work (network calls, resource acquisition) and must respect ctx
	// cancellation. An error leaves the plugin in the error state and
	// aborts the activation batch it belongs to.
	Initialize(ctx context.Context) error

	// Dispose releases the plugin's resources. Errors are logged by the
	// registry but never propagated; deactivation always proceeds.
	Dispose() error
}

// Metadata describes plugin identity and dependency requirements.
type Metadata struct {
	// ID is the unique, immutable identifier used as the registry key.
	ID string
	// Name is a human-readable label used only for diagnostics.
	Name string
	// Dependencies lists plugin ids that must be active before/along with
	// this plugin. Ids that are never registered are tolerated and
	// reported through the warning channel at activation time.
	Dependencies []string
}

// Validate ensures metadata is well-formed.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("plugin metadata requires a non-empty ID")
	}

	seen := map[string]struct{}{}
	for _, dep := range m.Dependencies {
		if strings.TrimSpace(dep) == "" {
			return fmt.Errorf("plugin '%s' declares dependency with empty id", m.ID)
		}
		if dep == m.ID {
			return fmt.Errorf("plugin '%s' cannot depend on itself", m.ID)
		}
		if _, dup := seen[dep]; dup {
			return fmt.Errorf("plugin '%s' lists dependency '%s' more than once", m.ID, dep)
		}
		seen[dep] = struct{}{}
	}

	return nil
}
