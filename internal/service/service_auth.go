package service

import (
	"context"
	"fmt"
	"time"

	"github.com/imagehub/image-hub/internal/config"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/store"
	"github.com/imagehub/image-hub/internal/utils"
	"github.com/imagehub/image-hub/models"
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
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, cfg config.Auth, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// RegisterUser creates a new user account with a bcrypt-hashed password.
// Accounts created through registration are always plain users; admin
// accounts are provisioned out of band.
//
// Returns the persisted user (with a server-assigned ID) or:
//   - A validation error if the credentials are out of bounds.
//   - A wrapped storage error if the repository call fails (e.g. user name
//     already taken — see store.ErrUserNameAlreadyExists).
func (a *authService) RegisterUser(ctx context.Context, credentials models.Credentials) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := credentials.Validate(); err != nil {
		log.Error().Str("user_name", credentials.UserName).Err(err).Msg("invalid credentials provided")
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		UserName:     credentials.UserName,
		PasswordHash: string(hash),
		IsAdmin:      false,
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("user_name", credentials.UserName).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user.
//
// It looks up the account by user name and compares the stored bcrypt hash
// against the supplied password.
//
// Returns the authenticated user record or:
//   - ErrInvalidDataProvided if either credential field is empty.
//   - A wrapped storage error if the repository lookup fails (e.g. user not
//     found — see store.ErrNoUserWasFound).
//   - ErrWrongPassword if the password does not match.
func (a *authService) Login(ctx context.Context, credentials models.Credentials) (models.User, error) {
	log := logger.FromContext(ctx)

	if credentials.UserName == "" || credentials.Password == "" {
		log.Error().Str("user_name", credentials.UserName).Msg("invalid credentials provided")
		return models.User{}, ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByUserName(ctx, credentials.UserName)
	if err != nil {
		log.Err(err).Str("user_name", credentials.UserName).Msg("user search by name failed")
		return models.User{}, fmt.Errorf("user search by name failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(credentials.Password)); err != nil {
		log.Error().
			Int64("id", foundUser.ID).
			Str("user_name", foundUser.UserName).
			Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	return foundUser, nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the
// configured tokenIssuer as the "iss" claim and the user's admin flag as
// "is_admin", and expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.TokenResponse, error) {
	identity := models.Identity{UserID: user.ID, IsAdmin: user.IsAdmin}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, identity, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// ParseToken validates and parses a raw JWT string into the caller's
// identity.
//
// It delegates to utils.ValidateAndParseJWTToken and propagates its errors
// unmodified: utils.ErrInvalidToken, utils.ErrExpiredToken, and
// utils.ErrInvalidDecodedToken stay distinguishable so that the HTTP layer
// can report the precise rejection reason.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Identity, error) {
	return utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey)
}
