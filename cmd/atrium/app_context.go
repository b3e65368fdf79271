package main

import (
	"os"

	"github.com/atriumapp/atrium/internal/config"
	"github.com/atriumapp/atrium/internal/events"
	"github.com/atriumapp/atrium/internal/logger"
	"github.com/atriumapp/atrium/internal/plugin"
	authplugin "github.com/atriumapp/atrium/internal/plugins/auth"
	crmplugin "github.com/atriumapp/atrium/internal/plugins/crm"
	homeplugin "github.com/atriumapp/atrium/internal/plugins/home"
	mailplugin "github.com/atriumapp/atrium/internal/plugins/mail"
	notifyplugin "github.com/atriumapp/atrium/internal/plugins/notify"
	orgswitchplugin "github.com/atriumapp/atrium/internal/plugins/orgswitch"
)

// AppContext bundles the long-lived services created at startup. All
// commands share one registry instance built from the loaded config.
type AppContext struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *plugin.Registry
}

// buildAppContext is the composition root: config, logger, event
// publisher, registry, plugin registration.
func buildAppContext(flags *rootFlags) (*AppContext, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: cfg.Log.HumanReadable,
		Writer:        os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	publisher := events.NewPublisher(log)
	registry := plugin.NewRegistry(plugin.DefaultConfig(), log, publisher)

	if err := registerPlugins(registry, cfg, log); err != nil {
		return nil, err
	}

	return &AppContext{Config: cfg, Logger: log, Registry: registry}, nil
}

// loadConfig parses the config file when present. A missing file at the
// default location is not an error; the client starts with every
// optional plugin unconfigured.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &config.Config{Log: config.LogConfig{Level: "info"}}, nil
	}
	return config.ParseConfig(path)
}

// registerPlugins registers the fixed plugin set. The batch is ordered so
// an unexpected duplicate fails before any dependent plugin registers.
func registerPlugins(registry *plugin.Registry, cfg *config.Config, log *logger.Logger) error {
	return registry.RegisterAll([]plugin.Plugin{
		homeplugin.New(),
		authplugin.New(cfg.Auth, log),
		mailplugin.New(cfg.Mail, log),
		crmplugin.New(cfg.CRM, log),
		orgswitchplugin.New(cfg.Org, log),
		notifyplugin.New(cfg.Notify, log),
	})
}
