// Package store persists users and password reset tokens
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store groups the repositories that share one database handle. Inside
// Transaction every repository uses the same transaction.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() *Users {
	return &Users{db: s.db}
}

func (s *Store) ResetTokens() *ResetTokens {
	return &ResetTokens{db: s.db}
}

// Transaction runs fn in a database transaction. The transaction is rolled
// back if fn returns an error.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
