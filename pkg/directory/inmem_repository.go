package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserRepository implements UserRepository using in-memory storage.
// Useful for tests and for running the service without a database.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewInMemoryUserRepository creates a new in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[uuid.UUID]User),
	}
}

func (r *InMemoryUserRepository) findByLogin(login string) (User, bool) {
	for _, u := range r.users {
		if u.Login == login {
			return u, true
		}
	}
	return User{}, false
}

// GetUserByLogin returns the user with the given login, revoked or not.
func (r *InMemoryUserRepository) GetUserByLogin(ctx context.Context, login string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.findByLogin(login)
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// ExistsByLogin reports whether any user has the given login.
func (r *InMemoryUserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.findByLogin(login)
	return ok, nil
}

// CreateUser inserts a new user record.
func (r *InMemoryUserRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findByLogin(params.Login); ok {
		return User{}, ErrLoginTaken
	}

	user := User{
		ID:           uuid.New(),
		Login:        params.Login,
		PasswordHash: params.PasswordHash,
		Name:         params.Name,
		Gender:       params.Gender,
		Birthday:     params.Birthday,
		Admin:        params.Admin,
		CreatedOn:    time.Now().UTC(),
		CreatedBy:    params.CreatedBy,
	}

	r.users[user.ID] = user
	return user, nil
}

// UpdateUser persists all mutable fields of the user identified by user.ID.
func (r *InMemoryUserRepository) UpdateUser(ctx context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		return User{}, ErrUserNotFound
	}

	if existing, taken := r.findByLogin(user.Login); taken && existing.ID != user.ID {
		return User{}, ErrLoginTaken
	}

	// CreatedOn/CreatedBy are immutable.
	user.CreatedOn = current.CreatedOn
	user.CreatedBy = current.CreatedBy

	r.users[user.ID] = user
	return user, nil
}

// DeleteUser removes the record permanently.
func (r *InMemoryUserRepository) DeleteUser(ctx context.Context, login string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.findByLogin(login)
	if !ok {
		return ErrUserNotFound
	}
	delete(r.users, u.ID)
	return nil
}

// ListActiveUsers returns all non-revoked users ordered by CreatedOn ascending.
func (r *InMemoryUserRepository) ListActiveUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		if u.IsActive() {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedOn.Before(users[j].CreatedOn)
	})
	return users, nil
}

// ListUsersBornOnOrBefore returns users born on or before the cutoff,
// ordered by birthday ascending.
func (r *InMemoryUserRepository) ListUsersBornOnOrBefore(ctx context.Context, cutoff time.Time) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0)
	for _, u := range r.users {
		if u.Birthday != nil && !u.Birthday.After(cutoff) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Birthday.Before(*users[j].Birthday)
	})
	return users, nil
}
