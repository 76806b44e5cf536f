// Package repository holds the customer account store.  The service
// keeps no state across restarts, so accounts live in process memory
// behind the same API a database-backed store would expose.
package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/venue-seat-reservation/internal/utils"
)

// User is a registered customer account.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepo is an in-memory, concurrency-safe account store keyed by
// normalized email.
type UserRepo struct {
	mu      sync.RWMutex
	byEmail map[string]User
	nextID  uint64
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byEmail: make(map[string]User)}
}

// Create registers a user and returns its ID.  The email is lowercased
// and trimmed before use; the password is stored as a bcrypt hash.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[email]; exists {
		return 0, ErrEmailExists
	}
	r.nextID++
	r.byEmail[email] = User{
		ID:           r.nextID,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	return r.nextID, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}
