package scheduler

import (
	"os"
	"path/filepath"
	"time"

	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/internal/storage"
	"github.com/acessae/acessae-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// orphanGracePeriod protects files of in-flight uploads: a file younger than
// this is never swept even when no row references it yet.
const orphanGracePeriod = time.Hour

// PhotoSweeper reclaims photo files that no review references. Photo writes
// happen inside database transactions whose rollback cannot undo the file,
// so a failed request can strand a file on disk. The sweeper reconciles the
// directory against the database on a schedule.
type PhotoSweeper struct {
	cron       *cron.Cron
	reviewRepo *repository.ReviewRepository
	storage    *storage.LocalStorage
}

func NewPhotoSweeper(reviewRepo *repository.ReviewRepository, store *storage.LocalStorage) *PhotoSweeper {
	return &PhotoSweeper{
		cron:       cron.New(),
		reviewRepo: reviewRepo,
		storage:    store,
	}
}

// Start schedules an hourly sweep.
func (s *PhotoSweeper) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.Sweep(); err != nil {
			logger.Error("Photo sweep failed", err, nil)
		}
	})
	if err != nil {
		logger.Error("Failed to schedule photo sweeper", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Photo sweeper started (hourly)", nil)
	return nil
}

func (s *PhotoSweeper) Stop() {
	s.cron.Stop()
	logger.Info("Photo sweeper stopped", nil)
}

// Sweep removes files in the reviews directory that are past the grace
// period and unreferenced by any review photo row.
func (s *PhotoSweeper) Sweep() error {
	paths, err := s.reviewRepo.ReferencedPhotoPaths()
	if err != nil {
		return err
	}

	referenced := make(map[string]bool, len(paths))
	for _, path := range paths {
		referenced[filepath.Base(path)] = true
	}

	entries, err := os.ReadDir(s.storage.ReviewsDir())
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-orphanGracePeriod)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		fullPath, ok := s.storage.ResolveReviewPhoto(entry.Name())
		if !ok {
			continue
		}
		if err := os.Remove(fullPath); err != nil {
			logger.Warn("Failed to remove orphaned photo", map[string]interface{}{
				"file":  entry.Name(),
				"error": err.Error(),
			})
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("Photo sweep completed", map[string]interface{}{
			"removed": removed,
		})
	}
	return nil
}
