package users

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	GetUserByLogin(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	CreateRefreshToken(ctx context.Context, userID string, token string, validity time.Duration) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// MemoryRepository keeps users and refresh tokens in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
	tokens  map[string]RefreshToken
	now     func() time.Time
}

func NewMemoryRepository(seed ...User) *MemoryRepository {
	r := &MemoryRepository{
		byID:    make(map[string]User, len(seed)),
		byEmail: make(map[string]string, len(seed)),
		tokens:  make(map[string]RefreshToken),
		now:     time.Now,
	}
	for _, u := range seed {
		r.byID[u.ID] = u
		r.byEmail[strings.ToLower(u.Email)] = u.ID
	}
	return r
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) CreateRefreshToken(ctx context.Context, userID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token] = RefreshToken{UserID: userID, Token: token, Expires: r.now().Add(validity)}
	return nil
}

// FindRefreshToken returns ErrNotFound for unknown and expired tokens alike.
// Expired tokens are dropped on lookup.
func (r *MemoryRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	if !r.now().Before(rt.Expires) {
		delete(r.tokens, token)
		return nil, ErrNotFound
	}
	return &rt, nil
}

func (r *MemoryRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token]; !ok {
		return ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}
