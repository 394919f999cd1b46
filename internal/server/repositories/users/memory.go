package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/dmitrijs2005/hrportal/internal/server/models"
)

// MemoryStore is the in-process backing data for MemoryRepository. It is
// shared by every repository vended for it and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*models.User
	byEmail map[string]int64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[int64]*models.User),
		byEmail: make(map[string]int64),
		now:     time.Now,
	}
}

// Len returns the number of stored users.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// MemoryRepository implements Repository over a MemoryStore. Returned users
// are copies, so callers cannot mutate stored state.
type MemoryRepository struct {
	store *MemoryStore
}

func NewMemoryRepository(store *MemoryStore) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) Insert(_ context.Context, user *models.User) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	email := NormalizeEmail(user.Email)
	if _, ok := s.byEmail[email]; ok {
		return nil, common.ErrAlreadyExists
	}

	s.nextID++
	user.ID = s.nextID
	user.Email = email
	user.CreatedAt = s.now().UTC()
	user.UpdatedAt = nil

	stored := *user
	s.byID[stored.ID] = &stored
	s.byEmail[email] = stored.ID

	return user, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *s.byID[id]
	return &u, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *stored
	return &u, nil
}

func (r *MemoryRepository) SetActive(_ context.Context, id int64, active bool) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	now := s.now().UTC()
	stored.IsActive = active
	stored.UpdatedAt = &now

	u := *stored
	return &u, nil
}

func (r *MemoryRepository) SetPasswordHash(_ context.Context, id int64, digest string) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	now := s.now().UTC()
	stored.PasswordHash = digest
	stored.UpdatedAt = &now

	u := *stored
	return &u, nil
}
