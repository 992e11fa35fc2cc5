package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
)

type memorySessions struct {
	sessions map[string]*models.UserSession
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]*models.UserSession)}
}

func (m *memorySessions) SaveSession(ctx context.Context, session *models.UserSession) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *memorySessions) GetSession(ctx context.Context, id string) (*models.UserSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return session, nil
}

func (m *memorySessions) DeleteSession(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *memorySessions) DeleteExpiredSessions(ctx context.Context) (int, error) {
	count := 0
	for id, session := range m.sessions {
		if session.Expired() {
			delete(m.sessions, id)
			count++
		}
	}
	return count, nil
}

func newAuthService(sessions interfaces.SessionStorage) (*Service, *common.Config) {
	config := common.NewDefaultConfig()
	config.Auth.GoogleClientID = "client-id"
	config.Auth.GoogleClientSecret = "client-secret"
	config.Auth.RedirectURL = "http://localhost:8085/auth/callback"
	return NewService(config, sessions, arbor.NewLogger()), config
}

func TestEnabled(t *testing.T) {
	service, config := newAuthService(newMemorySessions())
	assert.True(t, service.Enabled())

	config.Auth.Disabled = true
	assert.False(t, service.Enabled())

	config.Auth.Disabled = false
	config.Auth.GoogleClientID = ""
	assert.False(t, service.Enabled())
}

func TestLoginURL(t *testing.T) {
	service, _ := newAuthService(newMemorySessions())

	loginURL := service.LoginURL("state-token")

	assert.Contains(t, loginURL, "accounts.google.com")
	assert.Contains(t, loginURL, "state=state-token")
	assert.Contains(t, loginURL, "client-id")
	assert.Contains(t, loginURL, "prompt=select_account")
	assert.Contains(t, loginURL, "scope=openid+email+profile")
}

func TestValidateSession(t *testing.T) {
	sessions := newMemorySessions()
	service, _ := newAuthService(sessions)
	ctx := context.Background()

	session := &models.UserSession{
		ID:        "valid-session",
		Email:     "user@example.com",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, sessions.SaveSession(ctx, session))

	got, err := service.ValidateSession(ctx, "valid-session")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)

	_, err = service.ValidateSession(ctx, "missing-session")
	assert.Error(t, err)

	_, err = service.ValidateSession(ctx, "")
	assert.Error(t, err)
}

func TestValidateSessionDeletesExpired(t *testing.T) {
	sessions := newMemorySessions()
	service, _ := newAuthService(sessions)
	ctx := context.Background()

	expired := &models.UserSession{
		ID:        "expired-session",
		Email:     "user@example.com",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, sessions.SaveSession(ctx, expired))

	_, err := service.ValidateSession(ctx, "expired-session")
	assert.Error(t, err)

	// The expired session is removed, not just rejected
	_, err = sessions.GetSession(ctx, "expired-session")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestLogout(t *testing.T) {
	sessions := newMemorySessions()
	service, _ := newAuthService(sessions)
	ctx := context.Background()

	session := &models.UserSession{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, sessions.SaveSession(ctx, session))

	require.NoError(t, service.Logout(ctx, "s1"))
	_, err := sessions.GetSession(ctx, "s1")
	assert.Error(t, err)

	// Logging out an empty session ID is a no-op
	assert.NoError(t, service.Logout(ctx, ""))
}

func TestNewSessionID(t *testing.T) {
	a, err := newSessionID()
	require.NoError(t, err)
	b, err := newSessionID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	// 32 random bytes in unpadded URL-safe base64
	assert.Len(t, a, 43)
	assert.NotContains(t, a, "=")
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}
