package authplugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atriumapp/atrium/internal/config"
)

func testConfig() *config.AuthConfig {
	return &config.AuthConfig{
		ClientID:    "atrium-desktop",
		AuthURL:     "https://id.example.com/authorize",
		TokenURL:    "https://id.example.com/token",
		RedirectURL: "http://127.0.0.1:8123/callback",
		Scopes:      []string{"openid", "mail.read"},
	}
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	p := New(testConfig(), nil)
	meta := p.Metadata()

	require.Equal(t, "auth", meta.ID)
	require.NoError(t, meta.Validate())
	require.Empty(t, meta.Dependencies)
}

func TestInitializeWithoutConfigFails(t *testing.T) {
	t.Parallel()

	p := New(nil, nil)
	require.Error(t, p.Initialize(context.Background()))
}

func TestInitializeHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(testConfig(), nil)
	require.ErrorIs(t, p.Initialize(ctx), context.Canceled)
}

func TestAuthCodeURLRequiresInitialize(t *testing.T) {
	t.Parallel()

	p := New(testConfig(), nil)

	_, err := p.AuthCodeURL("state-1")
	require.Error(t, err)

	require.NoError(t, p.Initialize(context.Background()))

	url, err := p.AuthCodeURL("state-1")
	require.NoError(t, err)
	require.Contains(t, url, "https://id.example.com/authorize")
	require.Contains(t, url, "client_id=atrium-desktop")
	require.Contains(t, url, "state=state-1")
}

func TestDisposeBeforeInitializeIsSafe(t *testing.T) {
	t.Parallel()

	p := New(testConfig(), nil)
	require.NoError(t, p.Dispose())
}

func TestDisposeClearsClient(t *testing.T) {
	t.Parallel()

	p := New(testConfig(), nil)
	require.NoError(t, p.Initialize(context.Background()))
	require.NoError(t, p.Dispose())

	_, err := p.AuthCodeURL("state-2")
	require.Error(t, err)

	_, err = p.TokenSource(context.Background())
	require.Error(t, err)
}
