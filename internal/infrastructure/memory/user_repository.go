package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/arquivolivre/user-directory/internal/domain/entity"
	"github.com/arquivolivre/user-directory/internal/domain/repository"
)

// UserRepository is an in-memory implementation of repository.UserRepository.
// It backs the test suite and lets the service run without a database.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*entity.User
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID: 1,
		store:  make(map[int64]*entity.User),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.User, 0, len(r.store))
	for _, u := range r.store {
		result = append(result, *u)
	}
	return result, nil
}

func (r *UserRepository) SearchByName(ctx context.Context, name string) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(name)
	result := make([]entity.User, 0)
	for _, u := range r.store {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *UserRepository) FindRecent(ctx context.Context, days int) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	result := make([]entity.User, 0)
	for _, u := range r.store {
		if !u.CreatedAt.Before(cutoff) {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.store)), nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return false, nil
	}
	delete(r.store, id)
	return true, nil
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !u.Saved() {
		for _, existing := range r.store {
			if existing.Email == u.Email {
				return repository.ErrDuplicateEmail
			}
		}
		now := time.Now()
		u.ID = r.nextID
		r.nextID++
		u.CreatedAt = now
		u.UpdatedAt = now
	} else {
		for _, existing := range r.store {
			if existing.Email == u.Email && existing.ID != u.ID {
				return repository.ErrDuplicateEmail
			}
		}
		u.UpdatedAt = time.Now()
	}
	cp := *u
	r.store[cp.ID] = &cp
	return nil
}

// InTx runs fn against the same repository. Individual operations take the
// lock themselves; cross-operation atomicity matches the accepted race model
// of the service layer.
func (r *UserRepository) InTx(ctx context.Context, fn func(repository.UserRepository) error) error {
	return fn(r)
}
