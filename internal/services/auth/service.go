package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// userInfoURL is the Google OpenID Connect userinfo endpoint
const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Service implements Google OAuth login backed by server-side sessions
type Service struct {
	config      *common.Config
	oauthConfig *oauth2.Config
	sessions    interfaces.SessionStorage
	httpClient  *http.Client
	logger      arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.AuthService = (*Service)(nil)

// NewService creates an auth service. With auth disabled or
// unconfigured, login endpoints report auth as unavailable and the
// middleware skips session checks.
func NewService(config *common.Config, sessions interfaces.SessionStorage, logger arbor.ILogger) *Service {
	oauthConfig := &oauth2.Config{
		ClientID:     config.Auth.GoogleClientID,
		ClientSecret: config.Auth.GoogleClientSecret,
		RedirectURL:  config.Auth.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	return &Service{
		config:      config,
		oauthConfig: oauthConfig,
		sessions:    sessions,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

// Enabled reports whether OAuth login is configured and enforced
func (s *Service) Enabled() bool {
	if s.config.Auth.Disabled {
		return false
	}
	return s.config.Auth.GoogleClientID != "" && s.config.Auth.GoogleClientSecret != ""
}

// LoginURL builds the Google authorization URL for the given state
func (s *Service) LoginURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// HandleCallback exchanges the authorization code, fetches the user's
// profile, and creates a server-side session.
func (s *Service) HandleCallback(ctx context.Context, code string) (*models.UserSession, error) {
	if code == "" {
		return nil, fmt.Errorf("authorization code is required")
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	userInfo, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	sessionID, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &models.UserSession{
		ID:        sessionID,
		UserID:    userInfo.ID,
		Email:     userInfo.Email,
		Name:      userInfo.Name,
		Picture:   userInfo.Picture,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionTTLDuration()),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info().
		Str("email", session.Email).
		Str("expires_at", session.ExpiresAt.Format(time.RFC3339)).
		Msg("User logged in")

	return session, nil
}

// ValidateSession returns the session for an ID, enforcing expiry.
// Expired sessions are deleted on sight.
func (s *Service) ValidateSession(ctx context.Context, sessionID string) (*models.UserSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Expired() {
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to delete expired session")
		}
		return nil, fmt.Errorf("session expired")
	}

	return session, nil
}

// Logout deletes the session
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, sessionID)
}

func (s *Service) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*models.GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo models.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if userInfo.Email == "" {
		return nil, fmt.Errorf("user info missing email")
	}

	return &userInfo, nil
}

// newSessionID returns a 32-byte URL-safe random token
func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewState returns a random value for the OAuth state parameter
func NewState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
