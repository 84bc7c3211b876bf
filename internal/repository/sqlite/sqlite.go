// Package sqlite implements the repository interfaces on an embedded SQLite
// database. It backs single-node deployments and the test suites.
package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// NewStore returns the SQLite implementations of every repository.
func NewStore(db *sql.DB) repository.Store {
	return repository.Store{
		Users:   NewUserRepository(db),
		Clients: NewClientRepository(db),
		Tickets: NewTicketRepository(db),
	}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
