package config

// Config is the root application configuration loaded at startup. It
// declares the initial plugin set and per-plugin settings; nothing in it
// is persisted back, and plugin selection changes at runtime are not
// written through.
// Sections for optional plugins are pointers: a section left out of the
// YAML stays nil and is not validated, and the owning plugin reports the
// gap when it is activated.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Plugins PluginsConfig `yaml:"plugins"`
	Auth    *AuthConfig   `yaml:"auth"`
	Mail    *MailConfig   `yaml:"mail"`
	CRM     *CRMConfig    `yaml:"crm"`
	Org     *OrgConfig    `yaml:"org"`
	Notify  *NotifyConfig `yaml:"notify"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level         string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	HumanReadable bool   `yaml:"human_readable"`
}

// PluginsConfig declares which plugins activate at startup. The core
// plugin is always included regardless of this list.
type PluginsConfig struct {
	Initial []string `yaml:"initial" validate:"dive,plugin_id"`
}

// AuthConfig configures the OAuth2 client used by the auth plugin.
type AuthConfig struct {
	ClientID     string   `yaml:"client_id" validate:"required"`
	ClientSecret string   `yaml:"client_secret"`
	AuthURL      string   `yaml:"auth_url" validate:"required,url"`
	TokenURL     string   `yaml:"token_url" validate:"required,url"`
	RedirectURL  string   `yaml:"redirect_url" validate:"omitempty,url"`
	Scopes       []string `yaml:"scopes"`
}

// MailConfig configures the IMAP session opened by the mail plugin.
type MailConfig struct {
	Host     string `yaml:"host" validate:"required,hostname|ip"`
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password"`
	UseTLS   bool   `yaml:"use_tls"`
}

// CRMConfig configures the contact cache kept by the crm plugin.
// An empty CachePath selects an in-memory cache.
type CRMConfig struct {
	CachePath string `yaml:"cache_path"`
}

// OrgConfig lists the organizations the orgswitch plugin can switch
// between.
type OrgConfig struct {
	Default       string         `yaml:"default" validate:"omitempty,plugin_id"`
	Organizations []Organization `yaml:"organizations" validate:"dive"`
}

// Organization is a single selectable organization.
type Organization struct {
	ID   string `yaml:"id" validate:"required,plugin_id"`
	Name string `yaml:"name" validate:"required"`
}

// NotifyConfig configures the websocket gateway dialed by the notify
// plugin.
type NotifyConfig struct {
	GatewayURL string `yaml:"gateway_url" validate:"omitempty,url"`
}
