package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lingualeap/backend/services/media-service/internal/models"
)

// localStorage serves read-only files under a fixed base path
type localStorage struct {
	basePath string
	// realBase is basePath with symlinks resolved, opened files must lie under it
	realBase string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	basePath = filepath.Clean(basePath)
	realBase, err := filepath.EvalSymlinks(basePath)
	if err != nil {
		realBase = basePath
	}
	return &localStorage{
		basePath: basePath,
		realBase: realBase,
	}
}

// Resolve maps a slash-separated relative path to an absolute location under the base path.
//
// The path is cleaned as if rooted, so "../" segments cannot climb above the base path.
// The base path itself is not a servable file and yields ErrOutsideRoot as well.
func (s *localStorage) Resolve(requestedPath string) (string, error) {
	if strings.ContainsRune(requestedPath, 0) {
		return "", models.ErrOutsideRoot
	}

	cleaned := path.Clean("/" + strings.ReplaceAll(requestedPath, "\\", "/"))
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleaned))

	if !within(s.basePath, fullPath) {
		return "", models.ErrOutsideRoot
	}

	return fullPath, nil
}

// within reports whether target lies strictly below base
func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}

// Open opens a regular file for reading and reports its size
func (s *localStorage) Open(requestedPath string) (*os.File, int64, error) {
	fullPath, err := s.Resolve(requestedPath)
	if err != nil {
		return nil, 0, err
	}

	// Links inside the root may point anywhere, the containment check runs on the target
	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, models.ErrFileNotFound
		}
		return nil, 0, fmt.Errorf("failed to resolve file: %w", err)
	}
	if !within(s.realBase, realPath) {
		return nil, 0, models.ErrOutsideRoot
	}

	file, err := os.Open(realPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, models.ErrFileNotFound
		}
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("failed to stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		file.Close()
		return nil, 0, models.ErrFileNotFound
	}

	return file, info.Size(), nil
}
