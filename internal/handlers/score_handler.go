package handlers

import (
	"net/http"
	"strconv"

	"triviaclash/internal/quiz"
	"triviaclash/internal/service"
)

// ScoreHandler serves player stats and leaderboards
type ScoreHandler struct {
	scoreService *service.ScoreService
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scoreService *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// Overview returns the caller's per-bucket stats and recent attempts
func (h *ScoreHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	overview, err := h.scoreService.Overview(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load scores", err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

// Leaderboard returns the ranked players for one category and difficulty
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	category, err := strconv.Atoi(r.URL.Query().Get("category"))
	if err != nil || category <= 0 {
		respondWithError(w, http.StatusBadRequest, "category must be a positive integer", nil)
		return
	}

	difficulty := r.URL.Query().Get("difficulty")
	switch difficulty {
	case quiz.DifficultyEasy, quiz.DifficultyMedium, quiz.DifficultyHard:
	default:
		respondWithError(w, http.StatusBadRequest, "difficulty must be easy, medium or hard", nil)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
	}

	entries, err := h.scoreService.Leaderboard(r.Context(), category, difficulty, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load leaderboard", err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
