package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	DeleteFn        func(ctx context.Context, id uuid.UUID) error

	// Data for the default implementation, keyed by username
	Users       map[string]*domain.User
	LastUserID  uuid.UUID
	CreateError error
	GetError    error
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if _, exists := m.Users[user.Username]; exists {
		return store.ErrUsernameExists
	}
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	m.Users[user.Username] = user
	m.LastUserID = user.ID
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, store.ErrUserNotFound
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	user, exists := m.Users[username]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	return user, nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	for username, user := range m.Users {
		if user.ID == id {
			delete(m.Users, username)
			return nil
		}
	}

	return store.ErrUserNotFound
}

// WithTx implements the UserStore interface for transaction support
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	// For mock purposes, just return the same mock
	return m
}
