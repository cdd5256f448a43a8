// Package uploads stores screened PDF documents on disk, named by the
// audit package's safe-filename scheme.
package uploads

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"clindb/internal/apperr"
	"clindb/internal/audit"
)

// Store is a directory of uploaded PDF files.
type Store struct {
	dir     string
	maxSize int64
	audit   *audit.Logger
	logger  *slog.Logger
}

// Entry describes one stored document.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// NewStore opens (creating if needed) the upload directory.
func NewStore(dir string, maxSize int64, auditor *audit.Logger, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize, audit: auditor, logger: logger}, nil
}

// Save screens data and writes it under a safe, timestamped name, which is
// returned for use as an appointment document reference. Rejected uploads
// are audit-logged and fail with VALIDATION_REJECTED.
func (s *Store) Save(filename string, data []byte) (string, error) {
	if err := audit.ValidateUpload(data, s.maxSize); err != nil {
		s.audit.LogAccess("UPLOAD_REJECTED", fmt.Sprintf("name=%s size=%d", filename, len(data)))
		return "", err
	}

	name := audit.SafeFilename(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return "", apperr.Wrap(apperr.StorageError, "write upload", err)
	}

	s.audit.LogAccess("UPLOAD_STORED", fmt.Sprintf("name=%s size=%d", name, len(data)))
	return name, nil
}

// List returns stored documents, newest first.
func (s *Store) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageError, "read uploads directory", err)
	}

	var out []Entry
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		info, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping unreadable upload", "name", d.Name(), "error", err)
			continue
		}
		out = append(out, Entry{Name: d.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

// Path resolves a stored name to its on-disk location. Names carrying path
// separators or traversal are rejected.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", apperr.New(apperr.ValidationRejected, "invalid document name")
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", apperr.New(apperr.NotFound, "document not found")
		}
		return "", apperr.Wrap(apperr.StorageError, "stat document", err)
	}
	return path, nil
}
