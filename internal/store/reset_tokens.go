package store

import (
	"context"
	"fmt"
	"time"

	"elivtory/inventory-api/internal/model"

	"gorm.io/gorm"
)

type ResetTokens struct {
	db *gorm.DB
}

// DeleteForUser removes every reset token that belongs to userID
func (r *ResetTokens) DeleteForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.ResetToken{}).
		Error
	if err != nil {
		return fmt.Errorf("failed to delete reset tokens, %w", err)
	}

	return nil
}

func (r *ResetTokens) Create(ctx context.Context, t *model.ResetToken) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create reset token, %w", err)
	}

	return nil
}

// FindValid returns the token with the given hash if it expires strictly after now
func (r *ResetTokens) FindValid(ctx context.Context, hash string, now time.Time) (*model.ResetToken, error) {
	var t model.ResetToken

	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", hash, now).
		First(&t).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &t, nil
}

// Consume deletes a still valid token. ErrNotFound means the token was
// already used or expired in the meantime.
func (r *ResetTokens) Consume(ctx context.Context, id int, now time.Time) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, now).
		Delete(&model.ResetToken{})
	if res.Error != nil {
		return fmt.Errorf("failed to consume reset token, %w", res.Error)
	}

	if res.RowsAffected != 1 {
		return ErrNotFound
	}

	return nil
}

// DeleteExpired removes tokens that expired at or before now and returns how many were removed
func (r *ResetTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.ResetToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens, %w", res.Error)
	}

	return res.RowsAffected, nil
}
