package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/metrics"
	"github.com/notekeep/notekeep/internal/model"
	"github.com/notekeep/notekeep/internal/repository"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// PasswordHasher derives and checks password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encodedHash string) (bool, error)
}

// TokenIssuer signs session tokens for an identity.
type TokenIssuer interface {
	Issue(identity *model.Identity) (string, error)
}

// AccountService handles registration, login and identity lookup.
type AccountService struct {
	users   UserStore
	hasher  PasswordHasher
	issuer  TokenIssuer
	metrics metrics.Recorder
	now     func() time.Time
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, hasher PasswordHasher, issuer TokenIssuer, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:   users,
		hasher:  hasher,
		issuer:  issuer,
		metrics: recorder,
		now:     time.Now,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// LoginInput defines input for authenticating.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User        *model.User
	AccessToken string
}

// Register creates an account and issues a session token for it.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := normalizeEmail(input.Email)
	if fullName == "" || email == "" || input.Password == "" {
		return nil, invalid(msgAllFieldsRequired)
	}
	if !emailRegex.MatchString(email) {
		return nil, invalid(msgInvalidEmail)
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, invalid(msgPasswordTooLong)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		CreatedOn:    s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.metrics.IncUserRegistered()

	return s.issue(user)
}

// Login checks the credentials and issues a session token.
// Unknown emails and wrong passwords fail identically.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, invalid(msgCredentialsRequired)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogin(true)
	return s.issue(user)
}

// CurrentUser re-reads the account behind a verified identity.
func (s *AccountService) CurrentUser(ctx context.Context, identity *model.Identity) (*model.User, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *AccountService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.issuer.Issue(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
