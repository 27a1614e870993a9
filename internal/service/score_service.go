package service

import (
	"context"
	"fmt"

	"triviaclash/internal/quiz"
	"triviaclash/internal/repository"
)

const recentAttemptsLimit = 25

// ScoreOverview is a player's aggregated results plus recent history
type ScoreOverview struct {
	Nickname          string            `json:"nickname"`
	QuestionsAnswered int               `json:"questionsAnswered"`
	TotalCorrect      int               `json:"totalCorrect"`
	Buckets           []BucketOverview  `json:"buckets"`
	RecentAttempts    []AttemptOverview `json:"recentAttempts"`
}

// BucketOverview is one (category, difficulty) aggregate row
type BucketOverview struct {
	Category          int     `json:"category"`
	CategoryName      string  `json:"categoryName"`
	Difficulty        string  `json:"difficulty"`
	WeightedPercent   float64 `json:"weightedPercent"`
	QuestionsAnswered int     `json:"questionsAnswered"`
	Attempts          int     `json:"attempts"`
	LastPlayed        int64   `json:"lastPlayed"`
}

// AttemptOverview is one finished run in the history list
type AttemptOverview struct {
	Category     int    `json:"category"`
	CategoryName string `json:"categoryName"`
	Difficulty   string `json:"difficulty"`
	Correct      int    `json:"correct"`
	Total        int    `json:"total"`
	PlayedAt     int64  `json:"playedAt"`
}

// LeaderboardEntry is one ranked row for a (category, difficulty) bucket
type LeaderboardEntry struct {
	Rank              int     `json:"rank"`
	Nickname          string  `json:"nickname"`
	WeightedPercent   float64 `json:"weightedPercent"`
	QuestionsAnswered int     `json:"questionsAnswered"`
	Attempts          int     `json:"attempts"`
}

// ScoreService aggregates attempt history into player stats and
// leaderboards
type ScoreService struct {
	attemptRepo  *repository.AttemptRepository
	profileRepo  *repository.ProfileRepository
	minQuestions int
}

// NewScoreService creates a new score service. minQuestions is the
// leaderboard eligibility floor per bucket.
func NewScoreService(attemptRepo *repository.AttemptRepository, profileRepo *repository.ProfileRepository, minQuestions int) *ScoreService {
	return &ScoreService{
		attemptRepo:  attemptRepo,
		profileRepo:  profileRepo,
		minQuestions: minQuestions,
	}
}

// Overview returns a player's per-bucket stats and recent attempts
func (s *ScoreService) Overview(ctx context.Context, userID int64) (*ScoreOverview, error) {
	profile, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	stats, err := s.attemptRepo.WeightedStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	recent, err := s.attemptRepo.RecentAttempts(ctx, userID, recentAttemptsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent attempts: %w", err)
	}

	overview := &ScoreOverview{
		Buckets:        make([]BucketOverview, 0, len(stats)),
		RecentAttempts: make([]AttemptOverview, 0, len(recent)),
	}
	if profile != nil {
		overview.Nickname = profile.Nickname
	}

	for _, b := range stats {
		overview.QuestionsAnswered += b.QuestionsAnswered
		overview.TotalCorrect += b.CorrectAnswers
		overview.Buckets = append(overview.Buckets, BucketOverview{
			Category:          b.Category,
			CategoryName:      quiz.CategoryName(b.Category),
			Difficulty:        b.Difficulty,
			WeightedPercent:   b.WeightedPercent,
			QuestionsAnswered: b.QuestionsAnswered,
			Attempts:          b.Attempts,
			LastPlayed:        b.LastPlayed.Unix(),
		})
	}

	for _, a := range recent {
		overview.RecentAttempts = append(overview.RecentAttempts, AttemptOverview{
			Category:     a.Category,
			CategoryName: quiz.CategoryName(a.Category),
			Difficulty:   a.Difficulty,
			Correct:      a.Correct,
			Total:        a.Total,
			PlayedAt:     a.CreatedAt.Unix(),
		})
	}

	return overview, nil
}

// Leaderboard returns the ranked players for one (category, difficulty)
// bucket
func (s *ScoreService) Leaderboard(ctx context.Context, category int, difficulty string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.attemptRepo.Leaderboard(ctx, category, difficulty, s.minQuestions, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:              i + 1,
			Nickname:          row.Nickname,
			WeightedPercent:   row.WeightedPercent,
			QuestionsAnswered: row.QuestionsAnswered,
			Attempts:          row.Attempts,
		})
	}

	return entries, nil
}
