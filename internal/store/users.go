package store

import (
	"context"
	"errors"
	"fmt"

	"elivtory/inventory-api/internal/model"

	"gorm.io/gorm"
)

// Users is the credential store. Passwords are hashed by the caller before
// a user is created or saved.
type Users struct {
	db *gorm.DB
}

func (u *Users) Create(ctx context.Context, user *model.User) error {
	err := u.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user, %w", err)
	}

	return nil
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := u.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// FindByID loads a user including the password hash
func (u *Users) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	err := u.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// FindIdentity loads a user without the password hash, used to resolve
// the owner of a session
func (u *Users) FindIdentity(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	err := u.db.WithContext(ctx).
		Omit("password_hash").
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// Save writes every field of user back to the database
func (u *Users) Save(ctx context.Context, user *model.User) error {
	r := u.db.WithContext(ctx).
		Model(user).
		Select("name", "password_hash", "photo", "phone", "bio").
		Updates(user)
	if r.Error != nil {
		return fmt.Errorf("failed to save user, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (u *Users) Delete(ctx context.Context, id string) error {
	r := u.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.User{})
	if r.Error != nil {
		return fmt.Errorf("failed to delete user, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
