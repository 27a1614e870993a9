package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"triviaclash/internal/models"
	"triviaclash/internal/repository"
	"triviaclash/internal/security"
	"triviaclash/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrNicknameTaken      = errors.New("that nickname is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Credentials is the result of a successful signup or signin
type Credentials struct {
	User        *models.User
	Profile     *models.Profile
	AccessToken string
}

// AuthService handles authentication business logic
type AuthService struct {
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	tokens      *security.TokenManager
	email       *EmailService
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository, tokens *security.TokenManager, email *EmailService) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
		email:       email,
	}
}

// Register creates a new user account with a player profile and signs
// the user in
func (s *AuthService) Register(ctx context.Context, email, password, nickname string) (*Credentials, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateNickname(nickname); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile, err := s.profileRepo.CreateProfile(ctx, user.ID, nickname)
	if err != nil {
		if errors.Is(err, repository.ErrNicknameTaken) {
			return nil, ErrNicknameTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if s.email != nil && s.email.IsEnabled() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.email.SendWelcomeEmail(ctx, user.Email, profile.Nickname); err != nil {
				log.Printf("Warning: failed to send welcome email to %s: %v", user.Email, err)
			}
		}()
	}

	return &Credentials{User: user, Profile: profile, AccessToken: token}, nil
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*Credentials, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.profileRepo.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &Credentials{User: user, Profile: profile, AccessToken: token}, nil
}

// VerifyToken validates an access token and returns the user it was
// issued for
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, security.ErrInvalidToken
	}

	return user, nil
}
