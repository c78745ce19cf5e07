package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"
)

const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// Warehouse wraps the sales database. It is read-only for the lifetime of
// the process: callers issue SELECT queries and introspect the schema, never
// mutate it.
type Warehouse struct {
	db     *sql.DB
	driver string
}

func Open(ctx context.Context, cfg Config) (*Warehouse, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	var driverName string
	switch driver {
	case DriverDuckDB:
		driverName = "duckdb"
	case DriverPostgres:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported warehouse driver: %q", cfg.Driver)
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping warehouse: %w", err)
	}

	return &Warehouse{db: db, driver: driver}, nil
}

// NewWithDB wraps an existing handle. Used by tests with sqlmock.
func NewWithDB(db *sql.DB, driver string) *Warehouse {
	return &Warehouse{db: db, driver: driver}
}

func (w *Warehouse) Close() error {
	return w.db.Close()
}

func (w *Warehouse) HealthCheck(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

// placeholder returns the bind-parameter marker for the configured driver.
func (w *Warehouse) placeholder(position int) string {
	if w.driver == DriverPostgres {
		return fmt.Sprintf("$%d", position)
	}
	return "?"
}

// introspectionSchema is the information_schema namespace that user tables
// live in for the configured driver.
func (w *Warehouse) introspectionSchema() string {
	if w.driver == DriverPostgres {
		return "public"
	}
	return "main"
}

// QuoteIdent quotes a table or column identifier. Sales schemas routinely
// contain table names with spaces ("Order Details"), so every generated
// statement goes through here.
func QuoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
