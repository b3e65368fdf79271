package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/atriumapp/atrium/internal/events"
	"github.com/atriumapp/atrium/internal/logger"
)

// Registry is the process-wide plugin lifecycle registry. It holds every
// known plugin, the set of currently active plugin ids, and a lifecycle
// state per registered id.
//
// The registry is constructed once by the composition root and injected
// into every consumer; there is no package-level instance.
//
// Concurrency: mutating operations (Register, ActivatePlugins,
// DeactivatePlugin, Toggle) serialize on an operation mutex so that a
// resolve-then-commit sequence never interleaves with another mutation.
// The maps themselves are guarded by a separate read-write mutex that is
// never held while a plugin hook runs, so queries stay responsive during
// a slow Initialize.
type Registry struct {
	cfg    *RegistryConfig
	logger *logger.Logger
	events *events.Publisher

	opMu sync.Mutex

	mu        sync.RWMutex
	available map[string]Plugin
	metadata  map[string]Metadata
	active    map[string]struct{}
	states    map[string]State
}

// NewRegistry returns a registry whose active set is seeded with the core
// plugin id. The logger and publisher may be nil.
func NewRegistry(cfg *RegistryConfig, log *logger.Logger, pub *events.Publisher) *Registry {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	r := &Registry{
		cfg:       cfg,
		logger:    log.WithComponent("registry"),
		events:    pub,
		available: make(map[string]Plugin),
		metadata:  make(map[string]Metadata),
		active:    make(map[string]struct{}),
		states:    make(map[string]State),
	}
	r.active[cfg.corePluginID()] = struct{}{}
	return r
}

// CorePluginID returns the id of the always-active core plugin.
func (r *Registry) CorePluginID() string {
	return r.cfg.corePluginID()
}

// Register adds a plugin to the registry and seeds its lifecycle state to
// registered. Registering an id twice fails with a
// DuplicateRegistrationError and leaves the registry unmodified.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return ErrNilPlugin
	}

	meta := p.Metadata()
	if err := meta.Validate(); err != nil {
		return err
	}

	r.opMu.Lock()
	defer r.opMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.available[meta.ID]; exists {
		return &DuplicateRegistrationError{ID: meta.ID}
	}

	r.available[meta.ID] = p
	r.metadata[meta.ID] = meta
	r.states[meta.ID] = StateRegistered

	r.logger.WithFields(map[string]any{"plugin": meta.ID}).Debug("plugin registered")
	return nil
}

// RegisterAll registers each plugin in order. The batch is not atomic: on
// failure, plugins registered earlier in the batch stay registered and the
// offending registration's error is returned.
func (r *Registry) RegisterAll(plugins []Plugin) error {
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// ResolveDependencies computes the transitive closure of plugin ids needed
// to satisfy activation of the requested ids. Ids absent from the registry
// appear in the result but contribute no further dependencies. The closure
// is cycle-safe and deterministic for a fixed graph; the returned slice is
// sorted.
func (r *Registry) ResolveDependencies(ids []string) []string {
	r.mu.RLock()
	required := r.resolveLocked(ids)
	r.mu.RUnlock()

	return sortedIDs(required)
}

// resolveLocked walks the dependency graph breadth-first with a visited
// set, so diamonds and cycles terminate. Callers must hold mu.
func (r *Registry) resolveLocked(ids []string) map[string]struct{} {
	required := make(map[string]struct{})
	queue := append([]string(nil), ids...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if _, seen := required[id]; seen {
			continue
		}
		required[id] = struct{}{}

		if meta, ok := r.metadata[id]; ok {
			queue = append(queue, meta.Dependencies...)
		}
	}

	return required
}

// ActivatePlugins ensures every id in the dependency closure of ids is
// active, initializing plugins not yet active in sorted id order.
//
// The batch is fail-fast with partial application: an Initialize failure
// propagates immediately as an InitializationError, plugins initialized
// earlier in the batch stay active, and later ones are never attempted.
// Ids without a registered plugin are skipped with a missing-plugin
// warning. Matching the reference system, the full closure joins the
// active set even when an id was never registered or its initialization
// failed.
func (r *Registry) ActivatePlugins(ctx context.Context, ids []string) error {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	r.mu.RLock()
	required := r.resolveLocked(ids)
	pending := make([]string, 0, len(required))
	for id := range required {
		if _, isActive := r.active[id]; !isActive {
			pending = append(pending, id)
		}
	}
	sort.Strings(pending)
	targets := make(map[string]Plugin, len(pending))
	for _, id := range pending {
		targets[id] = r.available[id]
	}
	r.mu.RUnlock()

	var initErr error
	for _, id := range pending {
		p := targets[id]
		if p == nil {
			r.logger.WithFields(map[string]any{"plugin": id}).Warn("activation references unregistered plugin")
			r.events.Publish(events.Event{
				Type:    events.TypePluginMissing,
				Payload: map[string]any{"plugin": id},
			})
			continue
		}

		if err := r.initializeOne(ctx, id, p); err != nil {
			initErr = err
			break
		}
	}

	r.mu.Lock()
	for id := range required {
		r.active[id] = struct{}{}
	}
	r.mu.Unlock()

	r.events.Publish(events.Event{
		Type:    events.TypeActiveSetChanged,
		Payload: map[string]any{"active": r.ActivePluginIDs()},
	})

	return initErr
}

// ActivatePlugin activates a single plugin id and its dependency closure.
func (r *Registry) ActivatePlugin(ctx context.Context, id string) error {
	return r.ActivatePlugins(ctx, []string{id})
}

// DeactivatePlugin disposes a plugin and removes it from the active set.
// Deactivating the core plugin or an id that is not active is a logged
// no-op. Disposal failures are swallowed: the plugin leaves the active
// set regardless, with only its lifecycle state recording the error.
func (r *Registry) DeactivatePlugin(id string) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if id == r.cfg.corePluginID() {
		r.logger.WithFields(map[string]any{"plugin": id}).Warn("core plugin cannot be deactivated")
		r.events.Publish(events.Event{
			Type:    events.TypeDeactivationSkipped,
			Payload: map[string]any{"plugin": id, "reason": "core"},
		})
		return
	}

	r.mu.RLock()
	_, isActive := r.active[id]
	p := r.available[id]
	r.mu.RUnlock()

	if !isActive {
		r.logger.WithFields(map[string]any{"plugin": id}).Warn("plugin is not active")
		r.events.Publish(events.Event{
			Type:    events.TypeDeactivationSkipped,
			Payload: map[string]any{"plugin": id, "reason": "inactive"},
		})
		return
	}

	if p != nil {
		r.disposeOne(id, p)
	}

	r.mu.Lock()
	delete(r.active, id)
	r.mu.Unlock()

	r.events.Publish(events.Event{
		Type:    events.TypePluginDeactivated,
		Payload: map[string]any{"plugin": id},
	})
}

// Toggle deactivates id when it is active and activates it otherwise.
// Toggling off intentionally does not cascade to dependents or
// dependencies; only the single id is deactivated.
func (r *Registry) Toggle(ctx context.Context, id string) error {
	if r.IsActive(id) {
		r.DeactivatePlugin(id)
		return nil
	}
	return r.ActivatePlugin(ctx, id)
}

// initializeOne drives registered -> initializing -> active, or
// initializing -> error when the hook fails. The state lock is not held
// while the hook runs.
func (r *Registry) initializeOne(ctx context.Context, id string, p Plugin) error {
	r.setState(id, StateInitializing)

	hookCtx := ctx
	if timeout := r.cfg.initTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		hookCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := p.Initialize(hookCtx); err != nil {
		r.setState(id, StateError)
		initErr := &InitializationError{ID: id, Err: err}
		r.logger.Error(err, fmt.Sprintf("plugin '%s' failed to initialize", id))
		r.events.Publish(events.Event{
			Type:    events.TypeActivationFailed,
			Payload: map[string]any{"plugin": id, "error": err.Error()},
		})
		return initErr
	}

	r.setState(id, StateActive)
	r.events.Publish(events.Event{
		Type:    events.TypePluginActivated,
		Payload: map[string]any{"plugin": id},
	})
	return nil
}

// disposeOne drives active -> disposing -> disposed, or disposing -> error
// when the hook fails. Failures are logged and swallowed.
func (r *Registry) disposeOne(id string, p Plugin) {
	r.setState(id, StateDisposing)

	if err := p.Dispose(); err != nil {
		r.setState(id, StateError)
		dispErr := &DisposalError{ID: id, Err: err}
		r.logger.Error(dispErr, "disposal failed, removing plugin from service anyway")
		r.events.Publish(events.Event{
			Type:    events.TypeDisposalFailed,
			Payload: map[string]any{"plugin": id, "error": err.Error()},
		})
		return
	}

	r.setState(id, StateDisposed)
}

func (r *Registry) setState(id string, state State) {
	r.mu.Lock()
	r.states[id] = state
	r.mu.Unlock()
}

// ActivePlugins returns the plugin objects backing the active set, sorted
// by id. Active ids without a registered plugin are silently dropped.
func (r *Registry) ActivePlugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.active))
	for id := range r.active {
		if _, ok := r.available[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	plugins := make([]Plugin, 0, len(ids))
	for _, id := range ids {
		plugins = append(plugins, r.available[id])
	}
	return plugins
}

// Plugins returns every registered plugin, sorted by id.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.available))
	for id := range r.available {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	plugins := make([]Plugin, 0, len(ids))
	for _, id := range ids {
		plugins = append(plugins, r.available[id])
	}
	return plugins
}

// PluginMetadata returns the stored metadata for a registered id.
func (r *Registry) PluginMetadata(id string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.metadata[id]
	return meta, ok
}

// IsActive reports whether the id is currently in the active set.
func (r *Registry) IsActive(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.active[id]
	return ok
}

// PluginState returns the lifecycle state for a registered id. The second
// return value is false for ids that were never registered.
func (r *Registry) PluginState(id string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[id]
	return state, ok
}

// ActivePluginIDs returns a sorted snapshot copy of the active id set.
func (r *Registry) ActivePluginIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedIDs(r.active)
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
