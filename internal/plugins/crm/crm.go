// Package crmplugin maintains the local contact cache behind the CRM
// navigation surface. The cache lives in SQLite so a cold start can show
// contacts before the backend is reachable.
package crmplugin

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/atriumapp/atrium/internal/config"
	"github.com/atriumapp/atrium/internal/logger"
	"github.com/atriumapp/atrium/internal/plugin"
)

// Contact is a cached CRM contact.
type Contact struct {
	ID    string
	Name  string
	Email string
	Org   string
}

// CRMPlugin owns the contact cache for the process.
type CRMPlugin struct {
	cfg *config.CRMConfig
	log *logger.Logger

	mu sync.Mutex
	db *sql.DB
}

var _ plugin.Plugin = (*CRMPlugin)(nil)

// New creates the crm plugin.
func New(cfg *config.CRMConfig, log *logger.Logger) *CRMPlugin {
	return &CRMPlugin{cfg: cfg, log: log.WithComponent("crm")}
}

func (p *CRMPlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		ID:           "crm",
		Name:         "CRM",
		Dependencies: []string{"auth"},
	}
}

func (p *CRMPlugin) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := ":memory:"
	if p.cfg != nil && p.cfg.CachePath != "" {
		path = p.cfg.CachePath
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening contact cache: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("running cache migrations: %w", err)
	}

	p.mu.Lock()
	p.db = db
	p.mu.Unlock()

	p.log.WithFields(map[string]any{"path": path}).Debug("contact cache opened")
	return nil
}

func (p *CRMPlugin) Dispose() error {
	p.mu.Lock()
	db := p.db
	p.db = nil
	p.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS contacts (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			org   TEXT NOT NULL DEFAULT ''
		)`)
	return err
}

func (p *CRMPlugin) cache() (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil, fmt.Errorf("crm plugin is not initialized")
	}
	return p.db, nil
}

// UpsertContact inserts or replaces a contact in the cache.
func (p *CRMPlugin) UpsertContact(ctx context.Context, c Contact) error {
	db, err := p.cache()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO contacts (id, name, email, org) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, org=excluded.org`,
		c.ID, c.Name, c.Email, c.Org)
	if err != nil {
		return fmt.Errorf("upserting contact '%s': %w", c.ID, err)
	}
	return nil
}

// Contacts returns every cached contact ordered by name.
func (p *CRMPlugin) Contacts(ctx context.Context) ([]Contact, error) {
	db, err := p.cache()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT id, name, email, org FROM contacts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Org); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
