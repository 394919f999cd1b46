// Package repomanager owns the storage handle and vends repositories bound
// either to it or to a transaction scoped to one function call.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/hrportal/internal/server/repositories/users"
)

type RepositoryManager interface {
	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context) error
	// Users returns a repository outside of any transaction.
	Users() users.Repository
	// WithTx runs fn with a repository bound to a fresh transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, users users.Repository) error) error
	// Ping reports whether storage is reachable.
	Ping(ctx context.Context) error
	Close() error
}
