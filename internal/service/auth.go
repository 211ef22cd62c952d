// Package service implements the domain operations of the packing list
// application: credential handling, list and item management, and the
// category catalog. Services validate input, delegate persistence to
// repository interfaces, and translate unexpected store failures into
// apperr.ErrStoreUnavailable after logging them.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/models"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// UsernameExists returns true if a user with the given username exists.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// EmailExists returns true if a user with the given email exists.
	EmailExists(ctx context.Context, email string) (bool, error)
	// CreateUser inserts a new user and returns its id.
	CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error)
	// FindByIdentifier fetches a user by username or email.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// FindByID fetches a user by id.
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// usernameRe is the allowed username shape: letters, digits and
// underscores, 3 to 50 characters.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

// AuthService implements registration and login on top of a UserRepository.
type AuthService struct {
	repo UserRepository
	log  *zap.Logger
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo UserRepository, log *zap.Logger) *AuthService {
	return &AuthService{repo: repo, log: log}
}

// Register validates the credentials and stores a new user with a bcrypt
// password hash. It fails with apperr.ErrValidation for malformed fields
// and apperr.ErrDuplicateUsername / apperr.ErrDuplicateEmail for taken
// identities. The plaintext password is never persisted.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return 0, err
	}

	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return 0, s.storeFailure("UsernameExists", err)
	}
	if taken {
		return 0, apperr.ErrDuplicateUsername
	}

	taken, err = s.repo.EmailExists(ctx, email)
	if err != nil {
		return 0, s.storeFailure("EmailExists", err)
	}
	if taken {
		return 0, apperr.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, s.storeFailure("GenerateFromPassword", err)
	}

	id, err := s.repo.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		// The insert re-detects duplicates created between the checks
		// above and here.
		if errors.Is(err, apperr.ErrDuplicateUsername) || errors.Is(err, apperr.ErrDuplicateEmail) {
			return 0, err
		}
		return 0, s.storeFailure("CreateUser", err)
	}
	return id, nil
}

// Authenticate verifies the identifier (username or email) and password.
// Every failure is the single undifferentiated
// apperr.ErrInvalidCredentials, so a caller cannot learn which part was
// wrong.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	if identifier == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.storeFailure("FindByIdentifier", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser fetches a user by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, s.storeFailure("FindByID", err)
	}
	return user, nil
}

func (s *AuthService) storeFailure(op string, err error) error {
	s.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return apperr.ErrStoreUnavailable
}

// validateRegistration applies the registration field rules.
func validateRegistration(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: all fields are required", apperr.ErrValidation)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username must be 3-50 letters, numbers or underscores", apperr.ErrValidation)
	}
	if len(email) > 100 {
		return fmt.Errorf("%w: email address is too long", apperr.ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email format", apperr.ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters long", apperr.ErrValidation)
	}
	return nil
}
