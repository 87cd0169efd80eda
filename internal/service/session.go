package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hallgrim/vanir/internal/repository"
)

// SessionTTL is how long a login session stays valid.
const SessionTTL = 30 * 24 * time.Hour

// GenerateSessionToken generates a cryptographically secure session token.
// Uses 32 bytes of random data encoded as a base64 URL-safe string.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// SessionService manages login sessions backed by the sessions table.
type SessionService interface {
	CreateSession(ctx context.Context, userID string) (token string, err error)
	GetUserBySessionToken(ctx context.Context, token string) (*repository.User, error)
	InvalidateSession(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) error
}

type sessionService struct {
	repo repository.Querier
	now  func() time.Time
}

// NewSessionService creates a SessionService instance.
func NewSessionService(repo repository.Querier) SessionService {
	return &sessionService{repo: repo, now: time.Now}
}

func (s *sessionService) CreateSession(ctx context.Context, userID string) (string, error) {
	userUUID, err := parseUUID(userID)
	if err != nil {
		return "", ErrInvalidID
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	var expiresAt pgtype.Timestamptz
	if err := expiresAt.Scan(s.now().Add(SessionTTL)); err != nil {
		return "", fmt.Errorf("failed to set session expiration: %w", err)
	}

	if _, err := s.repo.CreateSession(ctx, repository.CreateSessionParams{
		Token:     token,
		UserID:    userUUID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

func (s *sessionService) GetUserBySessionToken(ctx context.Context, token string) (*repository.User, error) {
	sess, err := s.repo.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if sess.ExpiresAt.Valid && sess.ExpiresAt.Time.Before(s.now()) {
		// Expired sessions are removed lazily on first use.
		_ = s.repo.DeleteSessionByToken(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.repo.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}
	return &user, nil
}

func (s *sessionService) InvalidateSession(ctx context.Context, token string) error {
	if err := s.repo.DeleteSessionByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *sessionService) PurgeExpired(ctx context.Context) error {
	if err := s.repo.DeleteExpiredSessions(ctx); err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}
	return nil
}

// parseUUID scans a string ID into a pgtype.UUID.
func parseUUID(id string) (pgtype.UUID, error) {
	var u pgtype.UUID
	if err := u.Scan(id); err != nil {
		return u, fmt.Errorf("invalid UUID %q: %w", id, err)
	}
	return u, nil
}

// uuidString renders a pgtype.UUID back to its canonical string form.
func uuidString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	v, err := u.Value()
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
