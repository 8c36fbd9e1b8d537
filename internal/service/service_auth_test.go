package service

import (
	"context"
	"testing"
	"time"

	"github.com/imagehub/image-hub/internal/config"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/store"
	"github.com/imagehub/image-hub/internal/utils"
	"github.com/imagehub/image-hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createFn func(ctx context.Context, user models.User) (models.User, error)
	findFn   func(ctx context.Context, userName string) (models.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return user, nil
}

func (m *mockUserRepository) FindUserByUserName(ctx context.Context, userName string) (models.User, error) {
	if m.findFn != nil {
		return m.findFn(ctx, userName)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func newTestAuthService(repo store.UserRepository) AuthService {
	cfg := config.Auth{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "image-hub",
		TokenDuration: time.Hour,
	}
	return NewAuthService(repo, cfg, logger.Nop())
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and creates a plain user", func(t *testing.T) {
		var stored models.User
		repo := &mockUserRepository{
			createFn: func(_ context.Context, user models.User) (models.User, error) {
				stored = user
				user.ID = 1
				return user, nil
			},
		}
		svc := newTestAuthService(repo)

		registered, err := svc.RegisterUser(ctx, models.Credentials{UserName: "john", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), registered.ID)
		assert.False(t, stored.IsAdmin)

		// the plain-text password never reaches storage
		assert.NotEqual(t, "secret", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))
	})

	t.Run("rejects out-of-bounds credentials", func(t *testing.T) {
		svc := newTestAuthService(&mockUserRepository{})

		_, err := svc.RegisterUser(ctx, models.Credentials{UserName: "jo", Password: "secret"})
		require.ErrorIs(t, err, models.ErrUserNameOutOfBounds)

		_, err = svc.RegisterUser(ctx, models.Credentials{UserName: "john", Password: "x"})
		require.ErrorIs(t, err, models.ErrPasswordOutOfBounds)
	})

	t.Run("propagates duplicate name", func(t *testing.T) {
		repo := &mockUserRepository{
			createFn: func(context.Context, models.User) (models.User, error) {
				return models.User{}, store.ErrUserNameAlreadyExists
			},
		}
		svc := newTestAuthService(repo)

		_, err := svc.RegisterUser(ctx, models.Credentials{UserName: "john", Password: "secret"})
		require.ErrorIs(t, err, store.ErrUserNameAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockUserRepository{
		findFn: func(_ context.Context, userName string) (models.User, error) {
			if userName != "john" {
				return models.User{}, store.ErrNoUserWasFound
			}
			return models.User{ID: 1, UserName: "john", PasswordHash: string(hash)}, nil
		},
	}
	svc := newTestAuthService(repo)

	t.Run("success", func(t *testing.T) {
		user, err := svc.Login(ctx, models.Credentials{UserName: "john", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, models.Credentials{UserName: "john", Password: "nope"})
		require.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, models.Credentials{UserName: "ghost", Password: "secret"})
		require.ErrorIs(t, err, store.ErrNoUserWasFound)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, models.Credentials{})
		require.ErrorIs(t, err, ErrInvalidDataProvided)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{ID: 7, UserName: "root", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)

	identity, err := svc.ParseToken(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{UserID: 7, IsAdmin: true}, identity)
}

func TestParseToken_KeepsTokenErrorsDistinguishable(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})
	ctx := context.Background()

	_, err := svc.ParseToken(ctx, "not.a.token")
	require.ErrorIs(t, err, utils.ErrInvalidToken)

	expired, err := utils.GenerateJWTToken("image-hub", models.Identity{UserID: 7}, -time.Minute, "test-sign-key")
	require.NoError(t, err)

	_, err = svc.ParseToken(ctx, expired)
	require.ErrorIs(t, err, utils.ErrExpiredToken)
}
