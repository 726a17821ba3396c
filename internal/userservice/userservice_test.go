package userservice

import (
	"context"
	"errors"
	"testing"

	"github.com/haguru/obito/internal/interfaces/mocks"
	"github.com/haguru/obito/internal/models"
	"github.com/haguru/obito/internal/userrepo/constants"
	"github.com/haguru/obito/pkg/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(repo *mocks.MockUserRepository) *UserService {
	return NewUserService(repo, zerolog.NewZerologLogger("userservice-test"))
}

func TestUserService_RegisterUser(t *testing.T) {
	repo := mocks.NewMockUserRepository(t)

	var stored models.User
	repo.On("AddUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		stored = u
		return u.Username == "alice"
	})).Return("user-id-1", nil)

	svc := newTestService(repo)

	userID, err := svc.RegisterUser(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "user-id-1", userID)

	// The stored password is a digest, never the plaintext.
	assert.NotEqual(t, "secret1", stored.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("secret1")))
}

func TestUserService_RegisterUser_Duplicate(t *testing.T) {
	repo := mocks.NewMockUserRepository(t)
	repo.On("AddUser", mock.Anything, mock.Anything).Return("", constants.ErrDuplicateUsername)

	svc := newTestService(repo)

	_, err := svc.RegisterUser(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestUserService_RegisterUser_StorageError(t *testing.T) {
	repo := mocks.NewMockUserRepository(t)
	repo.On("AddUser", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	svc := newTestService(repo)

	_, err := svc.RegisterUser(context.Background(), "alice", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateUsername)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_AuthenticateUser(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), HashCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		repoUser *models.User
		repoErr  error
		wantOK   bool
		wantErr  error
	}{
		{
			name:     "valid credentials",
			username: "alice",
			password: "secret1",
			repoUser: &models.User{Username: "alice", HashedPassword: string(hashed)},
			wantOK:   true,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong",
			repoUser: &models.User{Username: "alice", HashedPassword: string(hashed)},
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "x",
			repoUser: nil,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "malformed stored digest",
			username: "alice",
			password: "secret1",
			repoUser: &models.User{Username: "alice", HashedPassword: "not-a-bcrypt-digest"},
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "storage failure",
			username: "alice",
			password: "secret1",
			repoErr:  errors.New("connection refused"),
			wantErr:  errors.New(ErrRetrievingUser),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockUserRepository(t)
			repo.On("GetUserByUsername", mock.Anything, tt.username).Return(tt.repoUser, tt.repoErr)

			svc := newTestService(repo)

			ok, err := svc.AuthenticateUser(context.Background(), tt.username, tt.password)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if errors.Is(tt.wantErr, ErrInvalidCredentials) {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			}
		})
	}
}

// Unknown user and wrong password must be indistinguishable to the caller.
func TestUserService_AuthenticateUser_NoEnumeration(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), HashCost)
	require.NoError(t, err)

	repo := mocks.NewMockUserRepository(t)
	repo.On("GetUserByUsername", mock.Anything, "alice").
		Return(&models.User{Username: "alice", HashedPassword: string(hashed)}, nil)
	repo.On("GetUserByUsername", mock.Anything, "nobody").Return(nil, nil)

	svc := newTestService(repo)

	_, errWrongPassword := svc.AuthenticateUser(context.Background(), "alice", "wrong")
	_, errUnknownUser := svc.AuthenticateUser(context.Background(), "nobody", "x")

	assert.Equal(t, errWrongPassword, errUnknownUser)
}
