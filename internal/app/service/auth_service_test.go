package service

import (
	"testing"
	"time"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/internal/db"
	"github.com/acehadwer/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	authService := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		input    RegisterInput
		wantKind ErrorKind
		wantErr  error
	}{
		{
			name: "Valid registration",
			input: RegisterInput{
				Email: "Test@Example.com ", Password: "password123", Name: " Test User ",
				Phone: "0300-1234567", Address: "12 Mall Road", City: "Lahore",
			},
		},
		{
			name:     "Duplicate email, different case",
			input:    RegisterInput{Email: "test@example.com", Password: "password456", Name: "Another"},
			wantKind: KindConflict,
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:     "Missing name",
			input:    RegisterInput{Email: "new@example.com", Password: "password123"},
			wantKind: KindValidation,
		},
		{
			name:     "Short password",
			input:    RegisterInput{Email: "new@example.com", Password: "short", Name: "New"},
			wantKind: KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(tt.input)

			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, KindOf(err))
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "test@example.com", user.Email)
			assert.Equal(t, "Test User", user.Name)
			assert.Equal(t, "Lahore", user.City)
			assert.Equal(t, model.RoleUser, user.Role)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
		})
	}
}

// lateUserRepo misses users on lookup, like a registration racing another one
// for the same email.
type lateUserRepo struct {
	repository.UserRepository
}

func (lateUserRepo) FindByEmail(email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestAuthService_Register_UniqueEmailIndex(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	authService := NewAuthService(lateUserRepo{repository.NewUserRepository(testDB)}, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	input := RegisterInput{Email: "race@example.com", Password: "password123", Name: "Racer"}

	_, _, err = authService.Register(input)
	require.NoError(t, err)

	_, _, err = authService.Register(input)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register(RegisterInput{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Valid login", email: "TEST@example.com", password: "password123"},
		{name: "Wrong password", email: "test@example.com", password: "wrongpassword", wantErr: ErrInvalidCredentials},
		{name: "Unknown email", email: "nobody@example.com", password: "password123", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test@example.com", user.Email)

			claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, util.AccessTokenType, claims.TokenType)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, tokens, err := authService.Register(RegisterInput{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	refreshedUser, refreshed, err := authService.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshedUser.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	// an access token cannot be used to refresh
	_, _, err = authService.Refresh(tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	_, _, err = authService.Refresh("garbage")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register(RegisterInput{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	found, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register(RegisterInput{Email: "test@example.com", Password: "password123", Name: "Test", City: "Karachi"})
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(user.ID, ProfileInput{
		Name: " New Name ", Phone: "0321-7654321", Address: "5 Canal Bank", City: "Lahore",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "5 Canal Bank", updated.Address)

	found, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lahore", found.City)
	assert.Equal(t, "0321-7654321", found.Phone)

	_, err = authService.UpdateProfile(user.ID, ProfileInput{Name: "  "})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = authService.UpdateProfile(9999, ProfileInput{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
