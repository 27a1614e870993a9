package models

import "time"

// Attempt is one finished quiz run's outcome record. Rows are written once
// and never mutated or deleted.
type Attempt struct {
	ID         int64
	UserID     int64
	Category   int
	Difficulty string
	Correct    int
	Total      int
	CreatedAt  time.Time
}

// BucketStats aggregates a user's attempts for one (category, difficulty)
// bucket. WeightedPercent is sum(correct)/sum(total), not an average of
// per-attempt percentages.
type BucketStats struct {
	Category          int
	Difficulty        string
	WeightedPercent   float64
	CorrectAnswers    int
	QuestionsAnswered int
	Attempts          int
	LastPlayed        time.Time
}

// LeaderboardRow is one ranked entry for a (category, difficulty) bucket
type LeaderboardRow struct {
	Nickname          string
	WeightedPercent   float64
	QuestionsAnswered int
	Attempts          int
}
