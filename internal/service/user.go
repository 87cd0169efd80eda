package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/hallgrim/vanir/internal/repository"
)

const bcryptCost = 12

// Roles stored on the users table.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account aggregates the user, profile and cart created at signup.
type Account struct {
	User    repository.User
	Profile repository.Profile
	CartID  string
}

// UserService provides account management: signup, login, profiles.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*Account, error)
	Login(ctx context.Context, email, password string) (*Account, error)
	GetAccountByUserID(ctx context.Context, userID string) (*Account, error)
	UpdateProfileAddress(ctx context.Context, profileID string, arg UpdateAddressParams) (*repository.Profile, error)
	ListUsers(ctx context.Context) ([]repository.ListUsersRow, error)
	DeleteUser(ctx context.Context, userID string) error
}

// UpdateAddressParams carries the editable profile fields.
type UpdateAddressParams struct {
	Name     string
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      string
}

type userService struct {
	repo   repository.Querier
	logger *slog.Logger
}

// NewUserService creates a UserService instance.
func NewUserService(repo repository.Querier, logger *slog.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// Register creates the user together with its profile and cart. On a
// partial failure the user row is deleted so the cascade removes any
// half-created account.
func (s *userService) Register(ctx context.Context, email, password, name string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleUser,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile, err := s.repo.CreateProfile(ctx, repository.CreateProfileParams{
		UserID: user.ID,
		Name:   name,
	})
	if err != nil {
		s.rollbackSignup(ctx, user)
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	cart, err := s.repo.CreateCart(ctx, profile.ID)
	if err != nil {
		s.rollbackSignup(ctx, user)
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return &Account{User: user, Profile: profile, CartID: uuidString(cart.ID)}, nil
}

func (s *userService) rollbackSignup(ctx context.Context, user repository.User) {
	if err := s.repo.DeleteUser(ctx, user.ID); err != nil {
		s.logger.Error("failed to clean up partial signup",
			slog.String("user_id", uuidString(user.ID)),
			slog.String("error", err.Error()))
	}
}

func (s *userService) Login(ctx context.Context, email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Burn a hash comparison so missing and wrong-password
			// logins take comparable time.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$000000000000000000000uGZLKPmXAxTSrKnwyZ7H1vLuUCPi8a2"), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.accountFor(ctx, user)
}

func (s *userService) GetAccountByUserID(ctx context.Context, userID string) (*Account, error) {
	userUUID, err := parseUUID(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	user, err := s.repo.GetUserByID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.accountFor(ctx, user)
}

func (s *userService) accountFor(ctx context.Context, user repository.User) (*Account, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	cart, err := s.repo.GetCartByProfileID(ctx, profile.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &Account{User: user, Profile: profile, CartID: uuidString(cart.ID)}, nil
}

func (s *userService) UpdateProfileAddress(ctx context.Context, profileID string, arg UpdateAddressParams) (*repository.Profile, error) {
	profileUUID, err := parseUUID(profileID)
	if err != nil {
		return nil, ErrInvalidID
	}

	profile, err := s.repo.UpdateProfileAddress(ctx, repository.UpdateProfileAddressParams{
		ID:       profileUUID,
		Name:     arg.Name,
		Address1: arg.Address1,
		Address2: arg.Address2,
		City:     arg.City,
		State:    arg.State,
		Zip:      arg.Zip,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &profile, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]repository.ListUsersRow, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	userUUID, err := parseUUID(userID)
	if err != nil {
		return ErrInvalidID
	}
	if err := s.repo.DeleteUser(ctx, userUUID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
