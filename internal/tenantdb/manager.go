// Package tenantdb routes database access in a database-per-tenant layout.
//
// A single master database holds organization and user identity rows. Every
// organization additionally gets its own physical database holding all of its
// business data. The Manager lazily provisions tenant databases, caches one
// handle per tenant for the lifetime of the process, and mirrors identity
// rows into tenant databases so foreign keys resolve there.
package tenantdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/zphere-app/zphere/internal/domain"
)

// Backend selects the physical database engine.
type Backend string

const (
	// BackendSQLite stores each tenant in its own database file next to the
	// master file. Files come into existence on first connection.
	BackendSQLite Backend = "sqlite"
	// BackendPostgres stores each tenant in its own server database, created
	// with CREATE DATABASE on first use.
	BackendPostgres Backend = "postgres"
)

func init() {
	// modernc's driver registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Tenant ids become part of a database name (postgres) or file name (sqlite),
// so anything beyond UUID-shaped input is rejected outright.
var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config configures a Manager.
type Config struct {
	// MasterURL is the master database location. postgres:// or
	// postgresql:// selects the server backend; any other value is treated
	// as a SQLite file path.
	MasterURL string
	// Prefix is prepended to the organization id to form tenant database
	// names, e.g. "zphere_tenant_".
	Prefix string
}

// Manager owns the master handle and an unbounded cache of tenant handles
// keyed by organization id. Handles are never evicted; they live until
// DeleteTenant or Close.
type Manager struct {
	backend   Backend
	masterURL string
	prefix    string
	master    *sqlx.DB

	mu      sync.Mutex
	tenants map[string]*sqlx.DB
}

// New connects to the master database, creates the identity schema, and
// returns a Manager ready to provision tenants.
func New(ctx context.Context, cfg Config) (*Manager, error) {
	if cfg.Prefix == "" {
		return nil, fmt.Errorf("tenantdb: prefix must not be empty")
	}

	m := &Manager{
		backend:   detectBackend(cfg.MasterURL),
		masterURL: cfg.MasterURL,
		prefix:    cfg.Prefix,
		tenants:   make(map[string]*sqlx.DB),
	}

	master, err := m.openMaster(ctx)
	if err != nil {
		return nil, err
	}

	if err := createMasterSchema(ctx, master); err != nil {
		master.Close()
		return nil, fmt.Errorf("master schema: %w", err)
	}

	m.master = master
	return m, nil
}

func detectBackend(masterURL string) Backend {
	if strings.HasPrefix(masterURL, "postgres://") || strings.HasPrefix(masterURL, "postgresql://") {
		return BackendPostgres
	}
	return BackendSQLite
}

// Backend reports which physical engine the manager runs on.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Master returns the shared master database handle.
func (m *Manager) Master() *sqlx.DB {
	return m.master
}

// Tenant returns the cached handle for the organization, provisioning the
// tenant database on first use. Two calls for the same organization return
// the same handle.
func (m *Manager) Tenant(ctx context.Context, orgID string) (*sqlx.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tenantLocked(ctx, orgID)
}

// EnsureTenant provisions the tenant database if it does not exist yet.
// Repeated calls are no-ops.
func (m *Manager) EnsureTenant(ctx context.Context, orgID string) error {
	_, err := m.Tenant(ctx, orgID)
	return err
}

// tenantLocked provisions and caches the handle. The mutex serializes first
// provisioning for a tenant, so concurrent first-requests cannot race to
// create the same database twice within this process. The DDL stays
// IF NOT EXISTS regardless, which keeps multiple processes safe too.
func (m *Manager) tenantLocked(ctx context.Context, orgID string) (*sqlx.DB, error) {
	if db, ok := m.tenants[orgID]; ok {
		return db, nil
	}

	if !tenantIDPattern.MatchString(orgID) {
		return nil, fmt.Errorf("%w: invalid tenant id %q", domain.ErrTenantRequired, orgID)
	}

	if m.backend == BackendPostgres {
		if err := m.createServerDatabase(ctx, orgID); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTenantUnavailable, err)
		}
	}

	db, err := m.openTenant(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTenantUnavailable, err)
	}

	if err := createTenantSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrTenantUnavailable, err)
	}

	// Seed the organization row right away when the master already knows it,
	// so most requests never hit the lazy reconciliation path.
	if err := m.mirrorOrganization(ctx, db, orgID); err != nil {
		slog.Warn("seed organization into tenant database failed", "org_id", orgID, "error", err)
	}

	m.tenants[orgID] = db
	return db, nil
}

// DeleteTenant disposes the cached handle and drops the underlying database.
// Destructive; intended for teardown and tests only. A later request for the
// same organization re-provisions from scratch.
func (m *Manager) DeleteTenant(ctx context.Context, orgID string) error {
	if !tenantIDPattern.MatchString(orgID) {
		return fmt.Errorf("tenantdb: invalid tenant id %q", orgID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.tenants[orgID]; ok {
		db.Close()
		delete(m.tenants, orgID)
	}

	if m.backend == BackendSQLite {
		path := m.sqliteTenantPath(orgID)
		for _, f := range []string{path, path + "-wal", path + "-shm"} {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove tenant database: %w", err)
			}
		}
		return nil
	}

	return m.dropServerDatabase(ctx, orgID)
}

// Close disposes every cached tenant handle and the master handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for orgID, db := range m.tenants {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close tenant %s: %w", orgID, err)
		}
		delete(m.tenants, orgID)
	}
	if err := m.master.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close master: %w", err)
	}
	return firstErr
}

func (m *Manager) openMaster(ctx context.Context) (*sqlx.DB, error) {
	if m.backend == BackendSQLite {
		path := sqlitePath(m.masterURL)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		db, err := openSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("connect master: %w", err)
		}
		return db, nil
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", m.masterURL)
	if err != nil {
		return nil, fmt.Errorf("connect master: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func (m *Manager) openTenant(ctx context.Context, orgID string) (*sqlx.DB, error) {
	if m.backend == BackendSQLite {
		return openSQLite(ctx, m.sqliteTenantPath(orgID))
	}

	dsn, err := m.postgresTenantURL(orgID)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// createServerDatabase issues CREATE DATABASE through the admin database when
// the tenant database does not exist yet.
func (m *Manager) createServerDatabase(ctx context.Context, orgID string) error {
	admin, err := m.openAdmin(ctx)
	if err != nil {
		return err
	}
	defer admin.Close()

	name := m.prefix + orgID

	var exists int
	err = admin.GetContext(ctx, &exists, `SELECT 1 FROM pg_database WHERE datname = $1`, name)
	if err == nil {
		return nil
	}
	if !isNoRows(err) {
		return fmt.Errorf("check database: %w", err)
	}

	// Identifier quoting: name is prefix + validated tenant id, neither of
	// which can contain a double quote.
	if _, err := admin.ExecContext(ctx, `CREATE DATABASE "`+name+`"`); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	return nil
}

// dropServerDatabase terminates open backends, then drops the database.
func (m *Manager) dropServerDatabase(ctx context.Context, orgID string) error {
	admin, err := m.openAdmin(ctx)
	if err != nil {
		return err
	}
	defer admin.Close()

	name := m.prefix + orgID

	_, err = admin.ExecContext(ctx,
		`SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()`, name)
	if err != nil {
		return fmt.Errorf("terminate backends: %w", err)
	}

	if _, err := admin.ExecContext(ctx, `DROP DATABASE IF EXISTS "`+name+`"`); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// openAdmin connects to the maintenance database on the same server as the
// master, which is where CREATE/DROP DATABASE must run.
func (m *Manager) openAdmin(ctx context.Context) (*sqlx.DB, error) {
	u, err := url.Parse(m.masterURL)
	if err != nil {
		return nil, fmt.Errorf("parse master url: %w", err)
	}
	u.Path = "/postgres"

	db, err := sqlx.ConnectContext(ctx, "pgx", u.String())
	if err != nil {
		return nil, fmt.Errorf("connect admin database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (m *Manager) sqliteTenantPath(orgID string) string {
	dir := filepath.Dir(sqlitePath(m.masterURL))
	return filepath.Join(dir, m.prefix+orgID+".db")
}

func (m *Manager) postgresTenantURL(orgID string) (string, error) {
	u, err := url.Parse(m.masterURL)
	if err != nil {
		return "", fmt.Errorf("parse master url: %w", err)
	}
	u.Path = "/" + m.prefix + orgID
	return u.String(), nil
}

func sqlitePath(masterURL string) string {
	return strings.TrimPrefix(masterURL, "sqlite://")
}

func openSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Serialize writers; SQLite allows one at a time anyway.
	db.SetMaxOpenConns(1)
	return db, nil
}
