package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// SessionStorage implements the SessionStorage interface for Badger
type SessionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.SessionStorage = (*SessionStorage)(nil)

// NewSessionStorage creates a new SessionStorage instance
func NewSessionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SessionStorage {
	return &SessionStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SessionStorage) SaveSession(ctx context.Context, session *models.UserSession) error {
	if session.ID == "" {
		return fmt.Errorf("session ID is required")
	}
	if err := s.db.Store().Upsert(session.ID, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStorage) GetSession(ctx context.Context, id string) (*models.UserSession, error) {
	var session models.UserSession
	if err := s.db.Store().Get(id, &session); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (s *SessionStorage) DeleteSession(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.UserSession{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) DeleteExpiredSessions(ctx context.Context) (int, error) {
	var expired []models.UserSession
	if err := s.db.Store().Find(&expired, badgerhold.Where("ExpiresAt").Lt(time.Now())); err != nil {
		return 0, fmt.Errorf("failed to find expired sessions: %w", err)
	}

	deleted := 0
	for i := range expired {
		if err := s.db.Store().Delete(expired[i].ID, &models.UserSession{}); err != nil && err != badgerhold.ErrNotFound {
			s.logger.Warn().Err(err).Str("session_id", expired[i].ID).Msg("Failed to delete expired session")
			continue
		}
		deleted++
	}

	return deleted, nil
}
