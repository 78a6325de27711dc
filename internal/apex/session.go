// Package apex reads the Apex physical-properties database: chemical identities,
// constant properties, binary interaction coefficient sets and databank metadata.
//
// The schema belongs to Apex. This package only issues the canned queries the
// export and mixture commands need, through database/sql.
package apex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"apexvle/internal/logging"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // "sqlite" (pure Go)
)

var (
	ErrNotFound     = errors.New("apex: not found")
	ErrAmbiguous    = errors.New("apex: more than one match")
	ErrBadTableName = errors.New("apex: invalid table name")
)

// Options configures Open.
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	BusyTimeout  int // milliseconds
	QueryTimeout time.Duration
}

// Session is an open connection pool to an Apex database.
type Session struct {
	db      *sql.DB
	driver  string
	timeout time.Duration
}

// Open connects to the Apex database and verifies the connection.
func Open(ctx context.Context, opts Options) (*Session, error) {
	timer := logging.StartTimer(logging.CategoryApex, "apex.Open")
	defer timer.Stop()

	driver := opts.Driver
	if driver == "" {
		driver = "sqlite"
	}
	if opts.DSN == "" {
		return nil, fmt.Errorf("apex: empty DSN")
	}

	dsn := withBusyTimeout(driver, opts.DSN, opts.BusyTimeout)
	logging.Apex("Opening Apex session driver=%s dsn=%s", driver, dsn)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		logging.ApexError("Failed to open %s: %v", opts.DSN, err)
		return nil, fmt.Errorf("failed to open apex database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach apex database: %w", err)
	}

	return &Session{db: db, driver: driver, timeout: opts.QueryTimeout}, nil
}

// withBusyTimeout adds the busy timeout to dsn as a connection parameter so
// every pooled connection gets it. A DSN that already sets one is kept.
func withBusyTimeout(driver, dsn string, ms int) string {
	if ms <= 0 {
		return dsn
	}
	var param string
	switch driver {
	case "sqlite":
		if strings.Contains(dsn, "busy_timeout") {
			return dsn
		}
		param = fmt.Sprintf("_pragma=busy_timeout(%d)", ms)
	case "sqlite3":
		if strings.Contains(dsn, "_timeout=") {
			return dsn
		}
		param = fmt.Sprintf("_busy_timeout=%d", ms)
	default:
		logging.ApexWarn("busy_timeout ignored for driver %s", driver)
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + param
}

// NewSession wraps an already opened *sql.DB.
func NewSession(db *sql.DB) *Session {
	return &Session{db: db, driver: "external"}
}

// DB exposes the underlying pool.
func (s *Session) DB() *sql.DB { return s.db }

// Driver returns the driver name the session was opened with.
func (s *Session) Driver() string { return s.driver }

// Close releases the connection pool.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Session) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
