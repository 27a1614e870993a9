package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"triviaclash/internal/database"
	"triviaclash/internal/models"
)

// ProfileRepository handles database operations for player profiles
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateProfile inserts a profile for a user
func (r *ProfileRepository) CreateProfile(ctx context.Context, userID int64, nickname string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, nickname)
		VALUES (?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, userID, nickname)
	if err != nil {
		if r.db.IsUniqueViolation(err) {
			return nil, ErrNicknameTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return &models.Profile{
		UserID:    userID,
		Nickname:  nickname,
		CreatedAt: time.Now(),
	}, nil
}

// GetProfileByUserID retrieves a user's profile; returns (nil, nil) when absent
func (r *ProfileRepository) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT user_id, nickname, created_at
		FROM profiles
		WHERE user_id = ?
	`
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Nickname,
		&profile.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}
