// Package catalogdb implements the catalog store on database/sql. The same queries run
// on PostgreSQL and SQLite; dialect differences are limited to placeholders, parameter
// casts, the schema and error classification.
package catalogdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	_ "embed"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/db/dberror"
	"github.com/mugiliam/notecatalogsrv/internal/db/dbmanager"
	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed schema_postgresql.sql
var schemaPostgres string

//go:embed schema_sqlite.sql
var schemaSQLite string

type catalogDb struct {
	sc dbmanager.ScopedConn
}

func NewCatalogDb(conn dbmanager.ScopedConn) *catalogDb {
	return &catalogDb{sc: conn}
}

func (h *catalogDb) conn() *sql.Conn {
	return h.sc.Conn()
}

func (h *catalogDb) dialect() dbmanager.Dialect {
	return h.sc.Dialect()
}

// q rebinds a query written with ? placeholders for the connection's dialect.
func (h *catalogDb) q(query string) string {
	return h.dialect().Rebind(query)
}

// param returns a placeholder that carries an explicit type on PostgreSQL, where
// parameters in a SELECT list have no type to infer from.
func (h *catalogDb) param(pgType string) string {
	if h.dialect() == dbmanager.DialectPostgres {
		return "?::" + pgType
	}
	return "?"
}

func (h *catalogDb) Close(ctx context.Context) {
	h.sc.Close(ctx)
}

func (h *catalogDb) Migrate(ctx context.Context) apperrors.Error {
	schema := schemaSQLite
	if h.dialect() == dbmanager.DialectPostgres {
		schema = schemaPostgres
	}
	if _, err := h.conn().ExecContext(ctx, schema); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("dialect", string(h.dialect())).Msg("failed to apply schema")
		return dbErr(err)
	}
	return nil
}

func (h *catalogDb) Ping(ctx context.Context) apperrors.Error {
	if err := h.conn().PingContext(ctx); err != nil {
		return dberror.ErrUnavailable.Err(err)
	}
	return nil
}

// dbErr maps a driver error onto the dberror taxonomy.
func dbErr(err error) apperrors.Error {
	switch {
	case isUniqueViolation(err):
		return dberror.ErrAlreadyExists.Err(err)
	case isCheckViolation(err):
		return dberror.ErrInvalidInput.Err(err)
	case isUnavailable(err):
		return dberror.ErrUnavailable.Err(err)
	}
	return dberror.ErrDatabase.Err(err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(sqErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_CHECK
	}
	return false
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		primary := sqErr.Code() & 0xff
		return primary == sqlite3.SQLITE_BUSY || primary == sqlite3.SQLITE_LOCKED
	}
	return false
}

// rowsAffected reports dberror.ErrNotFound when the statement touched no rows.
func rowsAffected(result sql.Result, notFound string) apperrors.Error {
	n, err := result.RowsAffected()
	if err != nil {
		return dbErr(err)
	}
	if n == 0 {
		return dberror.ErrNotFound.Msg(notFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
