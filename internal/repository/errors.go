// Package repository holds the MySQL-backed stores.  Every store returns the
// sentinel errors below instead of sql.ErrNoRows or raw driver errors so
// that handlers can map them to HTTP statuses with errors.Is.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrDuplicate is returned when an insert violates a unique key, for
	// example a second room with the same number in a property.
	ErrDuplicate = errors.New("duplicate record")
	// ErrEmailExists is the ErrDuplicate case for user emails.
	ErrEmailExists = errors.New("email already exists")
)

const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a MySQL unique key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// notFound maps sql.ErrNoRows to sentinel and passes other errors through.
func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
