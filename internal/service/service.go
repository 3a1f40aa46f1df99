package service

import (
	"fmt"

	"file-manager-plugin/internal/errors"
	"file-manager-plugin/internal/filesystem"
	"file-manager-plugin/internal/models"

	"go.uber.org/zap"
)

// DirectoryLister enumerates the immediate children of a directory.
type DirectoryLister interface {
	ListDirectory(req models.ListDirectoryRequest) ([]models.Entry, *models.PluginError)
}

// DefaultDirectoryLister implements the DirectoryLister interface.
// It holds no per-call state and is safe for concurrent use.
type DefaultDirectoryLister struct {
	fsAdapter filesystem.FileSystemAdapter
	logger    *zap.Logger
}

// NewDefaultDirectoryLister creates a new DefaultDirectoryLister.
func NewDefaultDirectoryLister(fs filesystem.FileSystemAdapter, logger *zap.Logger) (*DefaultDirectoryLister, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem adapter is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultDirectoryLister{
		fsAdapter: fs,
		logger:    logger,
	}, nil
}

// ListDirectory implements the DirectoryLister interface.
//
// The directory is read once; each child is then checked for directory-ness
// in enumeration order. Any read failure fails the whole request with no
// partial result. An empty directory yields an empty, non-nil slice.
func (s *DefaultDirectoryLister) ListDirectory(req models.ListDirectoryRequest) ([]models.Entry, *models.PluginError) {
	names, err := s.fsAdapter.ReadDirNames(req.Path)
	if err != nil {
		s.logger.Warn("list directory failed",
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, errors.NewListDirectoryError(err)
	}

	entries := make([]models.Entry, 0, len(names))
	for _, name := range names {
		fullPath := s.fsAdapter.Join(req.Path, name)
		entries = append(entries, models.Entry{
			Name:        name,
			Path:        fullPath,
			IsDirectory: s.fsAdapter.IsDir(fullPath),
		})
	}

	s.logger.Debug("listed directory",
		zap.String("path", req.Path),
		zap.Int("entries", len(entries)))
	return entries, nil
}

// Ensure DefaultDirectoryLister implements DirectoryLister
var _ DirectoryLister = (*DefaultDirectoryLister)(nil)
