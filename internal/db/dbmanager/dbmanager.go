package dbmanager

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

type ScopedDb interface {
	// Conn returns a dedicated connection from the pool. The caller must Close it.
	Conn(ctx context.Context) (ScopedConn, error)
	// Stats returns the number of connection requests and returns.
	Stats() (requests, returns uint64)
	Dialect() Dialect
	Ping(ctx context.Context) error
	Close() error
}

type ScopedConn interface {
	Conn() *sql.Conn
	Dialect() Dialect
	Close(ctx context.Context)
}

type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type sqlDb struct {
	db       *sql.DB
	dialect  Dialect
	requests atomic.Uint64
	returns  atomic.Uint64
}

type sqlConn struct {
	conn    *sql.Conn
	dialect Dialect
	pool    *sqlDb
	closed  atomic.Bool
}

func NewScopedDb(ctx context.Context, opts Options) (ScopedDb, error) {
	dialect, err := ParseDialect(opts.Driver)
	if err != nil {
		return nil, err
	}
	if opts.DSN == "" {
		return nil, fmt.Errorf("missing dsn for %s", dialect)
	}

	db, err := sql.Open(dialect.driverName(), opts.DSN)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("driver", string(dialect)).Msg("failed to open database")
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	log.Ctx(ctx).Debug().Str("driver", string(dialect)).Msg("database pool created")
	return &sqlDb{db: db, dialect: dialect}, nil
}

func (s *sqlDb) Conn(ctx context.Context) (ScopedConn, error) {
	s.requests.Add(1)
	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.returns.Add(1)
		return nil, err
	}
	return &sqlConn{conn: conn, dialect: s.dialect, pool: s}, nil
}

func (s *sqlDb) Stats() (requests, returns uint64) {
	return s.requests.Load(), s.returns.Load()
}

func (s *sqlDb) Dialect() Dialect {
	return s.dialect
}

func (s *sqlDb) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlDb) Close() error {
	return s.db.Close()
}

func (c *sqlConn) Conn() *sql.Conn {
	return c.conn
}

func (c *sqlConn) Dialect() Dialect {
	return c.dialect
}

// Close returns the connection to the pool. Calling it more than once is a no-op.
func (c *sqlConn) Close(ctx context.Context) {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.pool.returns.Add(1)
	if err := c.conn.Close(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to return connection to pool")
	}
}
