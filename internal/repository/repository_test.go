package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"triviaclash/internal/database"
	"triviaclash/internal/models"
)

func setupTestDB(t *testing.T, dbPath string) *database.DB {
	t.Helper()

	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestUserRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t, "test_users.db")
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "alice@example.com", "hashedpass")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected non-zero user ID")
	}

	// Duplicate email
	_, err = repo.CreateUser(ctx, "alice@example.com", "otherhash")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}

	// Lookup by email
	found, err := repo.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Failed to get user by email: %v", err)
	}
	if found == nil || found.ID != user.ID {
		t.Errorf("Expected user %d, got %+v", user.ID, found)
	}
	if found.PasswordHash != "hashedpass" {
		t.Errorf("Expected password hash to round-trip, got %q", found.PasswordHash)
	}

	// Lookup by ID
	found, err = repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get user by ID: %v", err)
	}
	if found == nil || found.Email != "alice@example.com" {
		t.Errorf("Expected alice@example.com, got %+v", found)
	}

	// Absent users return nil without error
	found, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("Unexpected error for absent user: %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil for absent user, got %+v", found)
	}
}

func TestProfileRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t, "test_profiles.db")
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	alice, err := users.CreateUser(ctx, "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	bob, err := users.CreateUser(ctx, "bob@example.com", "hash")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	profile, err := profiles.CreateProfile(ctx, alice.ID, "alice_99")
	if err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}
	if profile.Nickname != "alice_99" {
		t.Errorf("Expected nickname alice_99, got %q", profile.Nickname)
	}

	// Nickname must be unique across users
	_, err = profiles.CreateProfile(ctx, bob.ID, "alice_99")
	if !errors.Is(err, ErrNicknameTaken) {
		t.Errorf("Expected ErrNicknameTaken, got %v", err)
	}

	found, err := profiles.GetProfileByUserID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if found == nil || found.Nickname != "alice_99" {
		t.Errorf("Expected alice_99, got %+v", found)
	}

	found, err = profiles.GetProfileByUserID(ctx, bob.ID)
	if err != nil {
		t.Fatalf("Unexpected error for absent profile: %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil for absent profile, got %+v", found)
	}
}

func TestAttemptRepositoryRecentAttempts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t, "test_attempts.db")
	users := NewUserRepository(db)
	attempts := NewAttemptRepository(db)
	ctx := context.Background()

	alice, err := users.CreateUser(ctx, "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		attempt := models.Attempt{
			UserID:     alice.ID,
			Category:   9,
			Difficulty: "easy",
			Correct:    i,
			Total:      10,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := attempts.SaveAttempt(ctx, attempt); err != nil {
			t.Fatalf("Failed to save attempt %d: %v", i, err)
		}
	}

	recent, err := attempts.RecentAttempts(ctx, alice.ID, 3)
	if err != nil {
		t.Fatalf("Failed to list recent attempts: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 attempts, got %d", len(recent))
	}

	// Newest first
	for i, want := range []int{4, 3, 2} {
		if recent[i].Correct != want {
			t.Errorf("Attempt %d: expected correct=%d, got %d", i, want, recent[i].Correct)
		}
	}
}

func TestAttemptRepositoryWeightedStats(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t, "test_stats.db")
	users := NewUserRepository(db)
	attempts := NewAttemptRepository(db)
	ctx := context.Background()

	alice, err := users.CreateUser(ctx, "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	// Same bucket: 10/10 then 0/10 averages to 50% by questions answered
	save := func(category int, difficulty string, correct, total int) {
		t.Helper()
		err := attempts.SaveAttempt(ctx, models.Attempt{
			UserID:     alice.ID,
			Category:   category,
			Difficulty: difficulty,
			Correct:    correct,
			Total:      total,
		})
		if err != nil {
			t.Fatalf("Failed to save attempt: %v", err)
		}
	}

	save(9, "easy", 10, 10)
	save(9, "easy", 0, 10)
	save(18, "hard", 3, 4)

	stats, err := attempts.WeightedStats(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(stats))
	}

	easy := stats[0]
	if easy.Category != 9 || easy.Difficulty != "easy" {
		t.Fatalf("Expected (9, easy) first, got (%d, %s)", easy.Category, easy.Difficulty)
	}
	if easy.WeightedPercent != 50 {
		t.Errorf("Expected 50%%, got %v", easy.WeightedPercent)
	}
	if easy.QuestionsAnswered != 20 || easy.Attempts != 2 {
		t.Errorf("Expected 20 questions over 2 attempts, got %d over %d", easy.QuestionsAnswered, easy.Attempts)
	}

	hard := stats[1]
	if hard.WeightedPercent != 75 {
		t.Errorf("Expected 75%%, got %v", hard.WeightedPercent)
	}
}

func TestAttemptRepositoryLeaderboard(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t, "test_leaderboard.db")
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	attempts := NewAttemptRepository(db)
	ctx := context.Background()

	addPlayer := func(email, nickname string) int64 {
		t.Helper()
		user, err := users.CreateUser(ctx, email, "hash")
		if err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
		if _, err := profiles.CreateProfile(ctx, user.ID, nickname); err != nil {
			t.Fatalf("Failed to create profile: %v", err)
		}
		return user.ID
	}

	alice := addPlayer("alice@example.com", "alice_99")
	bob := addPlayer("bob@example.com", "bob_42")
	carol := addPlayer("carol@example.com", "carol_7")

	save := func(userID int64, correct, total int) {
		t.Helper()
		err := attempts.SaveAttempt(ctx, models.Attempt{
			UserID:     userID,
			Category:   9,
			Difficulty: "easy",
			Correct:    correct,
			Total:      total,
		})
		if err != nil {
			t.Fatalf("Failed to save attempt: %v", err)
		}
	}

	// Alice: 45/60 = 75% over 60 questions
	for i := 0; i < 6; i++ {
		save(alice, 8-i%2, 10)
	}
	// Bob: 45/50 = 90% over 50 questions, exactly at the floor
	for i := 0; i < 5; i++ {
		save(bob, 9, 10)
	}
	// Carol: 10/10 = 100% but only 10 questions, below the floor
	save(carol, 10, 10)

	board, err := attempts.Leaderboard(ctx, 9, "easy", 50, 10)
	if err != nil {
		t.Fatalf("Failed to get leaderboard: %v", err)
	}

	if len(board) != 2 {
		t.Fatalf("Expected 2 rows, got %d: %+v", len(board), board)
	}
	if board[0].Nickname != "bob_42" {
		t.Errorf("Expected bob_42 first, got %s", board[0].Nickname)
	}
	if board[0].WeightedPercent != 90 {
		t.Errorf("Expected 90%%, got %v", board[0].WeightedPercent)
	}
	if board[1].Nickname != "alice_99" {
		t.Errorf("Expected alice_99 second, got %s", board[1].Nickname)
	}

	// Different bucket is empty
	board, err = attempts.Leaderboard(ctx, 18, "hard", 50, 10)
	if err != nil {
		t.Fatalf("Failed to get leaderboard: %v", err)
	}
	if len(board) != 0 {
		t.Errorf("Expected empty board for unplayed bucket, got %d rows", len(board))
	}
}

func TestLeaderboardTieBreaksOnVolume(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t, "test_leaderboard_tie.db")
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	attempts := NewAttemptRepository(db)
	ctx := context.Background()

	for i, nickname := range []string{"few_but_perfect", "many_and_perfect"} {
		user, err := users.CreateUser(ctx, fmt.Sprintf("player%d@example.com", i), "hash")
		if err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
		if _, err := profiles.CreateProfile(ctx, user.ID, nickname); err != nil {
			t.Fatalf("Failed to create profile: %v", err)
		}

		runs := 5
		if nickname == "many_and_perfect" {
			runs = 10
		}
		for j := 0; j < runs; j++ {
			err := attempts.SaveAttempt(ctx, models.Attempt{
				UserID: user.ID, Category: 9, Difficulty: "medium", Correct: 10, Total: 10,
			})
			if err != nil {
				t.Fatalf("Failed to save attempt: %v", err)
			}
		}
	}

	board, err := attempts.Leaderboard(ctx, 9, "medium", 50, 10)
	if err != nil {
		t.Fatalf("Failed to get leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(board))
	}
	if board[0].Nickname != "many_and_perfect" {
		t.Errorf("Expected higher volume to win the tie, got %s first", board[0].Nickname)
	}
}
