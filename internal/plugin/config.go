package plugin

import "time"

// DefaultCorePluginID is the designated plugin that is seeded into the
// active set at construction and can never be deactivated.
const DefaultCorePluginID = "home"

// RegistryConfig tunes registry behavior. The zero value (or nil) matches
// the reference system: "home" as core plugin and no initialization
// timeout.
type RegistryConfig struct {
	// CorePluginID overrides the always-active core plugin id. Empty
	// means DefaultCorePluginID.
	CorePluginID string

	// InitTimeout bounds each Initialize hook invocation. Zero disables
	// the bound; the reference system runs hooks to completion.
	InitTimeout time.Duration
}

// DefaultConfig returns the reference-compatible registry configuration.
func DefaultConfig() *RegistryConfig {
	return &RegistryConfig{
		CorePluginID: DefaultCorePluginID,
	}
}

func (c *RegistryConfig) corePluginID() string {
	if c == nil || c.CorePluginID == "" {
		return DefaultCorePluginID
	}
	return c.CorePluginID
}

func (c *RegistryConfig) initTimeout() time.Duration {
	if c == nil {
		return 0
	}
	return c.InitTimeout
}
