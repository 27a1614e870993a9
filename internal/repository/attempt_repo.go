package repository

import (
	"context"
	"fmt"
	"time"

	"triviaclash/internal/database"
	"triviaclash/internal/models"
)

// AttemptRepository handles database operations for finished quiz attempts
type AttemptRepository struct {
	db *database.DB
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db *database.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// SaveAttempt records one finished quiz run
func (r *AttemptRepository) SaveAttempt(ctx context.Context, attempt models.Attempt) error {
	createdAt := attempt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO quiz_attempts (user_id, category, difficulty, correct, total, created_at_unix)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		attempt.UserID,
		attempt.Category,
		attempt.Difficulty,
		attempt.Correct,
		attempt.Total,
		createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}

// RecentAttempts returns a user's most recent attempts, newest first
func (r *AttemptRepository) RecentAttempts(ctx context.Context, userID int64, limit int) ([]models.Attempt, error) {
	query := `
		SELECT id, user_id, category, difficulty, correct, total, created_at_unix
		FROM quiz_attempts
		WHERE user_id = ?
		ORDER BY created_at_unix DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var a models.Attempt
		var createdAtUnix int64
		if err := rows.Scan(&a.ID, &a.UserID, &a.Category, &a.Difficulty, &a.Correct, &a.Total, &createdAtUnix); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.CreatedAt = time.Unix(createdAtUnix, 0)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}

	return attempts, nil
}

// WeightedStats returns per-bucket statistics for a user. Each
// (category, difficulty) bucket is weighted by questions answered, so
// a 10/10 run moves the percentage more than a 1/1 run.
func (r *AttemptRepository) WeightedStats(ctx context.Context, userID int64) ([]models.BucketStats, error) {
	query := `
		SELECT category, difficulty,
		       SUM(correct) * 1.0 / SUM(total) AS weighted_percent,
		       SUM(correct) AS correct_answers,
		       SUM(total) AS questions_answered,
		       COUNT(*) AS attempts,
		       MAX(created_at_unix) AS last_played_unix
		FROM quiz_attempts
		WHERE user_id = ? AND total > 0
		GROUP BY category, difficulty
		ORDER BY category, difficulty
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var stats []models.BucketStats
	for rows.Next() {
		var s models.BucketStats
		var lastPlayedUnix int64
		if err := rows.Scan(&s.Category, &s.Difficulty, &s.WeightedPercent, &s.CorrectAnswers, &s.QuestionsAnswered, &s.Attempts, &lastPlayedUnix); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		s.WeightedPercent *= 100
		s.LastPlayed = time.Unix(lastPlayedUnix, 0)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stats: %w", err)
	}

	return stats, nil
}

// Leaderboard returns the top players for one (category, difficulty)
// bucket. Players below minQuestions answered questions are excluded so
// a single lucky run cannot top the board.
func (r *AttemptRepository) Leaderboard(ctx context.Context, category int, difficulty string, minQuestions, limit int) ([]models.LeaderboardRow, error) {
	query := `
		SELECT p.nickname,
		       SUM(a.correct) * 1.0 / SUM(a.total) AS weighted_percent,
		       SUM(a.total) AS questions_answered,
		       COUNT(*) AS attempts
		FROM quiz_attempts a
		JOIN profiles p ON p.user_id = a.user_id
		WHERE a.category = ? AND a.difficulty = ? AND a.total > 0
		GROUP BY p.nickname
		HAVING SUM(a.total) >= ?
		ORDER BY weighted_percent DESC, questions_answered DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, category, difficulty, minQuestions, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var board []models.LeaderboardRow
	for rows.Next() {
		var row models.LeaderboardRow
		if err := rows.Scan(&row.Nickname, &row.WeightedPercent, &row.QuestionsAnswered, &row.Attempts); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		row.WeightedPercent *= 100
		board = append(board, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}

	return board, nil
}
