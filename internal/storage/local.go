package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ReviewsSubdir is the subdirectory of the upload root that holds review
// photos. The database stores paths relative to the public prefix.
const ReviewsSubdir = "reviews"

// PublicPrefix is the URL prefix under which stored photos are served.
const PublicPrefix = "/uploads/reviews/"

// LocalStorage persists review photos on the local filesystem, co-located
// with the service (a mounted volume in production).
type LocalStorage struct {
	rootDir string
}

// NewLocalStorage creates the upload directories if they do not exist.
func NewLocalStorage(rootDir string) (*LocalStorage, error) {
	if rootDir == "" {
		rootDir = "uploads"
	}
	if err := os.MkdirAll(filepath.Join(rootDir, ReviewsSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{rootDir: rootDir}, nil
}

// ReviewsDir returns the absolute directory holding review photos.
func (s *LocalStorage) ReviewsDir() string {
	return filepath.Join(s.rootDir, ReviewsSubdir)
}

// SaveReviewPhoto writes the photo bytes under the reviews directory and
// returns the public path stored in the database.
func (s *LocalStorage) SaveReviewPhoto(filename string, data []byte) (string, error) {
	fullPath := filepath.Join(s.ReviewsDir(), filename)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}
	return PublicPrefix + filename, nil
}

// DeleteReviewPhoto removes the physical file behind a stored public path.
// A missing file is not an error: deletes are best-effort and may repeat.
func (s *LocalStorage) DeleteReviewPhoto(publicPath string) error {
	fullPath, ok := s.ResolveReviewPhoto(filepath.Base(publicPath))
	if !ok {
		return fmt.Errorf("invalid photo path: %s", publicPath)
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete photo file: %w", err)
	}
	return nil
}

// ResolveReviewPhoto maps a bare filename onto the reviews directory,
// rejecting anything that would escape it.
func (s *LocalStorage) ResolveReviewPhoto(filename string) (string, bool) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", false
	}
	return filepath.Join(s.ReviewsDir(), filename), true
}

// Exists reports whether a file is present under the reviews directory.
func (s *LocalStorage) Exists(filename string) bool {
	fullPath, ok := s.ResolveReviewPhoto(filename)
	if !ok {
		return false
	}
	_, err := os.Stat(fullPath)
	return err == nil
}

// ReviewPhotoFilename builds a collision-resistant deterministic filename
// from the identifiers of the upload.
func ReviewPhotoFilename(locationID, userID uint, ts time.Time, index int, ext string) string {
	return fmt.Sprintf("%d_%d_%d_%d%s", locationID, userID, ts.UnixMilli(), index, ext)
}
