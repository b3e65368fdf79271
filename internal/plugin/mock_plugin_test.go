package plugin

import (
	"context"
	"sync"
)

type mockPluginOption func(*mockPlugin)

// mockPlugin is a configurable Plugin used across the registry tests. It
// counts hook invocations and lets tests inject hook behavior.
type mockPlugin struct {
	meta Metadata

	mu           sync.Mutex
	initCalls    int
	disposeCalls int

	initFn    func(ctx context.Context) error
	disposeFn func() error
}

func newMockPlugin(id string, opts ...mockPluginOption) *mockPlugin {
	mp := &mockPlugin{
		meta: Metadata{
			ID:   id,
			Name: id,
		},
	}

	for _, opt := range opts {
		opt(mp)
	}

	if mp.meta.Dependencies == nil {
		mp.meta.Dependencies = []string{}
	}
	return mp
}

func withDependencies(deps ...string) mockPluginOption {
	copied := make([]string, len(deps))
	copy(copied, deps)
	return func(mp *mockPlugin) {
		mp.meta.Dependencies = copied
	}
}

func withName(name string) mockPluginOption {
	return func(mp *mockPlugin) {
		mp.meta.Name = name
	}
}

func withInitializeFunc(fn func(ctx context.Context) error) mockPluginOption {
	return func(mp *mockPlugin) {
		mp.initFn = fn
	}
}

func withDisposeFunc(fn func() error) mockPluginOption {
	return func(mp *mockPlugin) {
		mp.disposeFn = fn
	}
}

func (m *mockPlugin) Metadata() Metadata {
	return m.meta
}

func (m *mockPlugin) Initialize(ctx context.Context) error {
	m.mu.Lock()
	m.initCalls++
	m.mu.Unlock()

	if m.initFn != nil {
		return m.initFn(ctx)
	}
	return nil
}

func (m *mockPlugin) Dispose() error {
	m.mu.Lock()
	m.disposeCalls++
	m.mu.Unlock()

	if m.disposeFn != nil {
		return m.disposeFn()
	}
	return nil
}

func (m *mockPlugin) initializeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initCalls
}

func (m *mockPlugin) disposeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposeCalls
}
