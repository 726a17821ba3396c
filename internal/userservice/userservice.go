// userservice.go
package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/obito/internal/interfaces"
	"github.com/haguru/obito/internal/models"
	"github.com/haguru/obito/internal/userrepo/constants"
	"github.com/haguru/obito/pkg/helper"

	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicateUsername re-exports the repository sentinel so handlers only
// import this package.
var ErrDuplicateUsername = constants.ErrDuplicateUsername

// ErrInvalidCredentials covers both "unknown user" and "wrong password".
// Callers must not distinguish the two, so user enumeration stays off the
// error surface.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashCost is the bcrypt work factor used for new passwords.
const HashCost = bcrypt.DefaultCost

type UserService struct {
	UserRepo interfaces.UserRepository
	Logger   interfaces.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(repo interfaces.UserRepository, logger interfaces.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		Logger:   logger,
	}
}

// RegisterUser hashes the password and adds the user via the repository.
// The plaintext password is never logged or stored.
func (s *UserService) RegisterUser(ctx context.Context, username, password string) (string, error) {
	funcName := helper.GetFuncName()
	s.Logger.Info("Registering user", "func", funcName, "user", username)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	user := models.User{
		Username:       username,
		HashedPassword: string(hashedPassword),
	}

	userID, err := s.UserRepo.AddUser(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			s.Logger.Warn("Registration rejected, username taken", "func", funcName, "user", username)
			return "", ErrDuplicateUsername
		}
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToRegisterUser, err)
	}
	s.Logger.Info("User registered successfully", "func", funcName, "user", username, "ID", userID)
	return userID, nil
}

// AuthenticateUser verifies a user's credentials.
// An unknown username and a wrong password both return ErrInvalidCredentials;
// only a storage failure yields a different error. The lookup runs before the
// hash compare, which leaks a timing difference between the two cases.
// TODO: compare against a dummy digest on the not-found path to level timing.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (bool, error) {
	funcName := helper.GetFuncName()
	user, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return false, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if user == nil {
		s.Logger.Debug("Unknown username", "func", funcName, "user", username)
		return false, ErrInvalidCredentials
	}

	// CompareHashAndPassword is constant-time and returns an error for a
	// malformed stored digest as well; both collapse into the same outcome.
	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password))
	if err != nil {
		s.Logger.Debug("Password mismatch", "func", funcName, "user", username)
		return false, ErrInvalidCredentials
	}

	s.Logger.Info("User authenticated successfully", "func", funcName, "user", username)
	return true, nil
}
