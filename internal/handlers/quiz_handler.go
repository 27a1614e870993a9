package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"triviaclash/internal/quiz"
)

// QuizHandler drives quiz sessions over the JSON API
type QuizHandler struct {
	manager *quiz.Manager
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(manager *quiz.Manager) *QuizHandler {
	return &QuizHandler{manager: manager}
}

// session resolves the caller's quiz session
func (h *QuizHandler) session(r *http.Request) (*quiz.Session, bool) {
	user, ok := userFromContext(r)
	if !ok {
		return nil, false
	}
	return h.manager.Session(user.ID), true
}

// State returns the current session snapshot
func (h *QuizHandler) State(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// Start commits settings and begins loading questions
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var settings quiz.Settings
	if err := decodeJSON(r, &settings); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	// The load outlives this request; a client disconnect must not
	// abort it.
	if err := session.Start(context.WithoutCancel(r.Context()), settings); err != nil {
		if errors.Is(err, quiz.ErrQuizInProgress) {
			respondWithError(w, http.StatusConflict, "quiz already in progress", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// Answer records the caller's pick for the current question
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := session.SelectAnswer(req.Answer); err != nil {
		respondWithError(w, http.StatusConflict, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

// Advance moves to the next question or finishes the quiz
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	if err := session.Advance(context.WithoutCancel(r.Context())); err != nil {
		respondWithError(w, http.StatusConflict, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

// PlayAgain reruns the quiz with the same settings
func (h *QuizHandler) PlayAgain(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	if err := session.PlayAgain(context.WithoutCancel(r.Context())); err != nil {
		respondWithError(w, http.StatusConflict, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

// ChangeSettings abandons the current run and returns to setup
func (h *QuizHandler) ChangeSettings(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	session.ChangeSettings()
	writeJSON(w, http.StatusOK, session.Snapshot())
}

type categoryEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Categories lists the selectable trivia categories
func (h *QuizHandler) Categories(w http.ResponseWriter, r *http.Request) {
	entries := make([]categoryEntry, 0, len(quiz.CategoryNames))
	for id, name := range quiz.CategoryNames {
		entries = append(entries, categoryEntry{ID: id, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	writeJSON(w, http.StatusOK, entries)
}
