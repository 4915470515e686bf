package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/internal/utils"
	"github.com/planifi/backend/models"
	"golang.org/x/crypto/bcrypt"
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, and JWT token
// lifecycle using a UserRepository for persistence and bcrypt for password
// hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given UserRepository
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// Register creates a new user account.
//
// The email is normalized (trimmed, lower-cased) before storage, so two
// registrations differing only in case collide. The password is hashed with
// bcrypt at the default cost.
//
// Returns an [models.AuthResponse] with a freshly issued token, or:
//   - ErrInvalidDataProvided if email or password is empty.
//   - ErrEmailInUse if the normalized email is already registered.
func (a *authService) Register(ctx context.Context, request models.RegisterRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(request.Email)
	if email == "" || request.Password == "" {
		log.Error().Msg("invalid registration data provided")
		return models.AuthResponse{}, ErrInvalidDataProvided
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("error hashing password")
		return models.AuthResponse{}, fmt.Errorf("error hashing password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(passwordHash),
		FullName:     request.FullName,
	}

	registered, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.AuthResponse{}, ErrEmailInUse
		}
		log.Err(err).Str("email", email).Msg("user creation ended with error")
		return models.AuthResponse{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return a.toAuthResponse(registered)
}

// Login authenticates an existing user by email and password.
//
// Unknown email and wrong password both surface as [ErrInvalidCredentials]
// so the response does not reveal which one failed.
func (a *authService) Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(request.Email)
	if email == "" || request.Password == "" {
		log.Error().Msg("invalid login data provided")
		return models.AuthResponse{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.AuthResponse{}, ErrInvalidCredentials
		}
		log.Err(err).Str("email", email).Msg("user lookup ended with error")
		return models.AuthResponse{}, fmt.Errorf("user lookup ended with error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	return a.toAuthResponse(user)
}

// ParseToken validates a bearer token string and returns the decoded token.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Debug().Err(err).Msg("token validation failed")
		return models.Token{}, err
	}

	return token, nil
}

func (a *authService) toAuthResponse(user models.User) (models.AuthResponse, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.ID, user.Email, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("error issuing token: %w", err)
	}

	return models.AuthResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token.SignedString,
		TokenType: "Bearer",
		ExpiresAt: time.Now().Add(a.tokenDuration),
	}, nil
}

// normalizeEmail canonicalizes an email address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
