package handlers

import (
	"errors"
	"net/http"

	"triviaclash/internal/service"
	"triviaclash/internal/validation"
)

// AuthHandler handles signup and signin requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string   `json:"accessToken"`
	User        authUser `json:"user"`
}

type authUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// Signup creates a new account and returns an access token
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	creds, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.As(err, &validationErr):
			respondWithError(w, http.StatusBadRequest, validationErr.Error(), nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, service.ErrNicknameTaken):
			respondWithError(w, http.StatusConflict, "that nickname is already taken", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "failed to create account", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, credsResponse(creds))
}

// Signin authenticates an existing account
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	creds, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to sign in", err)
		return
	}

	writeJSON(w, http.StatusOK, credsResponse(creds))
}

func credsResponse(creds *service.Credentials) authResponse {
	resp := authResponse{
		AccessToken: creds.AccessToken,
		User: authUser{
			ID:    creds.User.ID,
			Email: creds.User.Email,
		},
	}
	if creds.Profile != nil {
		resp.User.Nickname = creds.Profile.Nickname
	}
	return resp
}
