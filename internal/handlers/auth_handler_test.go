package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"triviaclash/internal/database"
	"triviaclash/internal/repository"
	"triviaclash/internal/security"
	"triviaclash/internal/service"
)

func setupAuthHandler(t *testing.T, dbPath string) (*AuthHandler, *Middleware) {
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

	email := &service.EmailService{}
	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		security.NewTokenManager("test-secret", time.Hour),
		email,
	)
	limiter := security.NewRateLimiter(100, time.Minute)

	return NewAuthHandler(authService), NewMiddleware(authService, limiter)
}

func TestSignupSigninFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	handler, mw := setupAuthHandler(t, "test_handler_auth.db")

	// Signup
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"email":"alice@example.com","password":"password123","nickname":"alice_99"}`)
	handler.Signup(rec, httptest.NewRequest("POST", "/api/auth/signup", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Signup returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode signup response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("Expected access token in signup response")
	}
	if resp.User.Nickname != "alice_99" {
		t.Errorf("Expected nickname alice_99, got %q", resp.User.Nickname)
	}

	// The token works against protected routes
	protected := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r)
		if !ok || user.Email != "alice@example.com" {
			t.Errorf("Expected alice in context, got %+v", user)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/quiz", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	protected(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204 with valid token, got %d", rec.Code)
	}

	// Missing and garbage tokens are rejected
	rec = httptest.NewRecorder()
	protected(rec, httptest.NewRequest("GET", "/api/quiz", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/quiz", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	protected(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with garbage token, got %d", rec.Code)
	}

	// Signin with the same credentials
	rec = httptest.NewRecorder()
	body = strings.NewReader(`{"email":"alice@example.com","password":"password123"}`)
	handler.Signin(rec, httptest.NewRequest("POST", "/api/auth/signin", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("Signin returned %d: %s", rec.Code, rec.Body.String())
	}

	// Wrong password
	rec = httptest.NewRecorder()
	body = strings.NewReader(`{"email":"alice@example.com","password":"wrong-password"}`)
	handler.Signin(rec, httptest.NewRequest("POST", "/api/auth/signin", body))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong password, got %d", rec.Code)
	}
}

func TestSignupConflictsAndValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	handler, _ := setupAuthHandler(t, "test_handler_signup.db")

	signup := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.Signup(rec, httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body)))
		return rec
	}

	if rec := signup(`{"email":"alice@example.com","password":"password123","nickname":"alice_99"}`); rec.Code != http.StatusCreated {
		t.Fatalf("First signup returned %d", rec.Code)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"duplicate email", `{"email":"alice@example.com","password":"password123","nickname":"other"}`, http.StatusConflict},
		{"duplicate nickname", `{"email":"bob@example.com","password":"password123","nickname":"alice_99"}`, http.StatusConflict},
		{"invalid email", `{"email":"nope","password":"password123","nickname":"bob_42"}`, http.StatusBadRequest},
		{"short password", `{"email":"bob@example.com","password":"short","nickname":"bob_42"}`, http.StatusBadRequest},
		{"bad nickname", `{"email":"bob@example.com","password":"password123","nickname":"x"}`, http.StatusBadRequest},
		{"malformed body", `{"email":`, http.StatusBadRequest},
		{"unknown field", `{"email":"bob@example.com","password":"password123","nickname":"bob_42","admin":true}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := signup(tt.body); rec.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := security.NewRateLimiter(2, time.Minute)
	mw := &Middleware{limiter: limiter}

	var hits int
	limited := mw.RateLimit(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/auth/signin", nil)
		req.RemoteAddr = "203.0.113.9:1000"
		limited(rec, req)
		if i < 2 && rec.Code != http.StatusNoContent {
			t.Errorf("Request %d: expected 204, got %d", i, rec.Code)
		}
		if i == 2 && rec.Code != http.StatusTooManyRequests {
			t.Errorf("Request %d: expected 429, got %d", i, rec.Code)
		}
	}
	if hits != 2 {
		t.Errorf("Expected 2 requests through, got %d", hits)
	}

	// A different IP has its own budget
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/signin", nil)
	req.RemoteAddr = "198.51.100.7:1000"
	limited(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected fresh budget for new IP, got %d", rec.Code)
	}
}
