package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	atriumerrors "github.com/atriumapp/atrium/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atrium.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConfigFullDocument(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
log:
  level: debug
  human_readable: true
plugins:
  initial: [mail, crm]
auth:
  client_id: atrium-desktop
  auth_url: https://id.example.com/authorize
  token_url: https://id.example.com/token
  scopes: [openid, mail.read]
mail:
  host: imap.example.com
  username: pat@example.com
  use_tls: true
org:
  default: acme
  organizations:
    - id: acme
      name: Acme Corp
    - id: initech
      name: Initech
notify:
  gateway_url: wss://push.example.com/stream
`)

	cfg, err := ParseConfig(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, []string{"mail", "crm"}, cfg.Plugins.Initial)
	require.Equal(t, "atrium-desktop", cfg.Auth.ClientID)
	// TLS default port applied when omitted.
	require.Equal(t, 993, cfg.Mail.Port)
	require.Equal(t, "acme", cfg.Org.Default)
	require.Len(t, cfg.Org.Organizations, 2)
}

func TestParseConfigAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
mail:
  host: imap.example.com
  username: pat@example.com
`)

	cfg, err := ParseConfig(path)
	require.NoError(t, err)

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 143, cfg.Mail.Port)
	require.Nil(t, cfg.Auth)
	require.Nil(t, cfg.Notify)
}

func TestParseConfigRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "log:\n  level: [broken\n")

	_, err := ParseConfig(path)
	require.Error(t, err)

	var parseErr *atriumerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, path, parseErr.Path)
}

func TestParseConfigRejectsMissingRequiredField(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
auth:
  client_id: atrium-desktop
  auth_url: https://id.example.com/authorize
`)

	_, err := ParseConfig(path)
	require.Error(t, err)

	var validationErr *atriumerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Field, "auth.tokenurl")
}

func TestParseConfigRejectsUnknownDefaultOrganization(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
org:
  default: ghost
  organizations:
    - id: acme
      name: Acme Corp
`)

	_, err := ParseConfig(path)
	require.Error(t, err)

	var validationErr *atriumerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "org.default", validationErr.Field)
}

func TestParseConfigRejectsBadPluginID(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
plugins:
  initial: ["Not A Plugin"]
`)

	_, err := ParseConfig(path)
	require.Error(t, err)
}

func TestParseConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var parseErr *atriumerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}
