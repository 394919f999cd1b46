package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/hrportal/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps users in process memory. It backs the
// server when no DSN is configured and the service tests. Transactions are
// serialized; there is no rollback, so fn must not leave partial writes on
// error.
type InMemoryRepositoryManager struct {
	store *users.MemoryStore
	txMu  sync.Mutex
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{store: users.NewMemoryStore()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return users.NewMemoryRepository(m.store)
}

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, users users.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m.Users())
}

func (m *InMemoryRepositoryManager) Ping(context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

// Len returns the number of stored users.
func (m *InMemoryRepositoryManager) Len() int {
	return m.store.Len()
}
