package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	a, err := GenerateSessionToken()
	require.NoError(t, err)
	b, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), 43, "32 random bytes base64-encoded")
}

func TestSessionLifecycle(t *testing.T) {
	repo := newFakeRepo()
	user, _, _ := repo.seedAccount("a@example.com")
	svc := NewSessionService(repo)

	token, err := svc.CreateSession(context.Background(), uuidString(user.ID))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.GetUserBySessionToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uuidString(user.ID), uuidString(got.ID))

	require.NoError(t, svc.InvalidateSession(context.Background(), token))

	_, err = svc.GetUserBySessionToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	repo := newFakeRepo()
	user, _, _ := repo.seedAccount("a@example.com")

	svc := &sessionService{repo: repo, now: time.Now}
	token, err := svc.CreateSession(context.Background(), uuidString(user.ID))
	require.NoError(t, err)

	// Jump past the TTL.
	svc.now = func() time.Time { return time.Now().Add(SessionTTL + time.Hour) }

	_, err = svc.GetUserBySessionToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The expired row was removed on first use.
	_, ok := repo.sessions[token]
	assert.False(t, ok)
}

func TestUnknownSessionToken(t *testing.T) {
	repo := newFakeRepo()
	svc := NewSessionService(repo)

	_, err := svc.GetUserBySessionToken(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
