package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"user-service/internal/data/entity"
)

// memoryUserRepository keeps users in process memory. It enforces the same
// uniqueness rules as the users table and is meant for local runs and tests.
type memoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]entity.User
	nextID int64
	now    func() time.Time
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: make(map[int64]entity.User),
		now:   time.Now,
	}
}

func (m *memoryUserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findBy(func(u entity.User) bool { return u.Username == username }) != nil, nil
}

func (m *memoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findBy(func(u entity.User) bool { return u.Email == email }) != nil, nil
}

func (m *memoryUserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memoryUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findBy(func(u entity.User) bool { return u.Username == username }), nil
}

func (m *memoryUserRepository) FindAllActive(_ context.Context) ([]*entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*entity.User, 0, len(m.users))
	for _, u := range m.users {
		if u.IsActive {
			u := u
			users = append(users, &u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *memoryUserRepository) CountActive(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, u := range m.users {
		if u.IsActive {
			count++
		}
	}
	return count, nil
}

func (m *memoryUserRepository) Save(_ context.Context, user *entity.User) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *user
	if !saved.IsNew() {
		existing, ok := m.users[saved.ID]
		if !ok {
			return nil, ErrUserNotFound
		}
		saved.CreatedAt = existing.CreatedAt
	}

	if other := m.findBy(func(u entity.User) bool { return u.Username == saved.Username && u.ID != saved.ID }); other != nil {
		return nil, ErrUsernameTaken
	}
	if other := m.findBy(func(u entity.User) bool { return u.Email == saved.Email && u.ID != saved.ID }); other != nil {
		return nil, ErrEmailTaken
	}

	now := m.now()
	if saved.IsNew() {
		m.nextID++
		saved.ID = m.nextID
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	m.users[saved.ID] = saved
	return &saved, nil
}

// findBy must be called with mu held.
func (m *memoryUserRepository) findBy(match func(entity.User) bool) *entity.User {
	for _, u := range m.users {
		if match(u) {
			u := u
			return &u
		}
	}
	return nil
}
