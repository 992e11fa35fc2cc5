package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// orphanAge is how old an unreferenced upload must be before cleanup
// removes it; fresh files may belong to an ingestion still in flight
const orphanAge = time.Hour

// SessionSweepJob returns a handler that deletes expired login sessions
func SessionSweepJob(sessions interfaces.SessionStorage, logger arbor.ILogger) func() error {
	return func() error {
		count, err := sessions.DeleteExpiredSessions(context.Background())
		if err != nil {
			return fmt.Errorf("session sweep failed: %w", err)
		}
		if count > 0 {
			logger.Info().Int("deleted", count).Msg("Expired sessions removed")
		}
		return nil
	}
}

// UploadCleanupJob returns a handler that removes upload files no paper
// references anymore
func UploadCleanupJob(papers interfaces.PaperStorage, uploadsDir string, logger arbor.ILogger) func() error {
	return func() error {
		entries, err := os.ReadDir(uploadsDir)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read uploads directory: %w", err)
		}

		all, err := papers.ListPapers(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list papers: %w", err)
		}
		referenced := make(map[string]bool, len(all))
		for _, paper := range all {
			if paper.UploadPath != "" {
				referenced[filepath.Base(paper.UploadPath)] = true
			}
		}

		removed := 0
		for _, entry := range entries {
			if entry.IsDir() || referenced[entry.Name()] {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if time.Since(info.ModTime()) < orphanAge {
				continue
			}
			if err := os.Remove(filepath.Join(uploadsDir, entry.Name())); err != nil {
				logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to remove orphaned upload")
				continue
			}
			removed++
		}

		if removed > 0 {
			logger.Info().Int("removed", removed).Msg("Orphaned uploads removed")
		}
		return nil
	}
}
