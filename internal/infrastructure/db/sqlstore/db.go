// Package sqlstore implements the credential and catalog stores on a
// relational database. MySQL, PostgreSQL and SQLite are supported; queries
// are written with '?' placeholders and rebound per driver.
package sqlstore

import (
	"context"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations
var migrations embed.FS

// Supported driver names, as registered with database/sql.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// unicodeLower is registered on every SQLite connection. The built-in
// LOWER() folds ASCII only.
const unicodeLower = "unicode_lower"

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
	sqlite.MustRegisterDeterministicScalarFunction(unicodeLower, 1, lowerScalar)
}

func lowerScalar(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// lowerFunc names the case-folding SQL function for the driver; it must
// agree with strings.ToLower on the search term.
func (db *DB) lowerFunc() string {
	if db.driver == DriverSQLite {
		return unicodeLower
	}
	return "LOWER"
}

// Config captures the settings for opening the database.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB wraps the connection pool together with its driver name.
type DB struct {
	*sqlx.DB
	driver string
}

// Open creates the pool without contacting the server; call Ping to check
// connectivity.
func Open(cfg Config) (*DB, error) {
	switch cfg.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &DB{DB: db, driver: cfg.Driver}, nil
}

// Connect opens the pool and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

func (db *DB) Driver() string { return db.driver }

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Migrate applies all pending migrations for the pool's dialect.
func (db *DB) Migrate(ctx context.Context) error {
	dir, dialect := "migrations/"+db.driver, db.driver
	if db.driver == DriverSQLite {
		dialect = "sqlite3"
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB.DB, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// insert runs an INSERT written with '?' placeholders and returns the new id.
// PostgreSQL has no LastInsertId, so it gets a RETURNING clause instead.
func (db *DB) insert(ctx context.Context, ext sqlx.ExtContext, query string, args ...any) (int64, error) {
	if db.driver == DriverPostgres {
		var id int64
		err := sqlx.GetContext(ctx, ext, &id, db.Rebind(query+" RETURNING id"), args...)
		return id, err
	}

	res, err := ext.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// isUniqueViolation reports whether err is a unique-constraint failure on
// any supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// now is the timestamp written to created_at/updated_at. Microsecond
// precision survives every supported column type.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
