// internal/storage/store.go
// Package storage is the content store for uploaded media. Files live
// under a single root in date-bucketed directories; the relative path is
// derived on the server and never contains the client's filename.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"medialocker/internal/logging"
)

// extRegex whitelists the extension carried over from the original
// filename. Anything else is dropped rather than sanitized.
var extRegex = regexp.MustCompile(`^\.[a-zA-Z0-9]{1,8}$`)

// Store persists files under Root.
type Store struct {
	Root string
}

// New creates a Store rooted at root, creating the directory if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root must not be empty")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("could not create storage root: %w", err)
	}
	return &Store{Root: root}, nil
}

// Save streams the reader to a new file and returns the server-generated
// relative path ("2026/08/<ulid>.png") and the number of bytes written.
// The path is {year}/{zero-padded month}/{ulid}{ext}: the ULID rules out
// collisions across concurrent uploads without coordination, and the
// date bucket keeps per-directory entry counts bounded over time.
// The full stream is written before Save returns.
func (s *Store) Save(fileData io.Reader, originalName string) (string, int64, error) {
	now := time.Now().UTC()
	ext := strings.ToLower(filepath.Ext(originalName))
	if !extRegex.MatchString(ext) {
		ext = ""
	}

	relPath := filepath.ToSlash(filepath.Join(
		now.Format("2006"),
		now.Format("01"),
		ulid.Make().String()+ext,
	))

	fullPath, err := s.resolve(relPath)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", 0, fmt.Errorf("could not create directory structure: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()

	fileSize, err := io.Copy(f, fileData)
	if err != nil {
		// Never leave a half-written file visible under the returned path.
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("could not write file: %w", err)
	}

	return relPath, fileSize, nil
}

// Open returns a reader for the file at relPath. A missing file is not
// an error: the caller gets (nil, nil) and maps it to "not found".
func (s *Store) Open(relPath string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	return f, nil
}

// Remove deletes the file at relPath. An already-absent file counts as
// success so repeated deletes converge; any other failure is logged and
// reported as false, never as an error. The caller is expected to remove
// its metadata regardless of the outcome (orphan-tolerant policy).
func (s *Store) Remove(relPath string) bool {
	if strings.TrimSpace(relPath) == "" {
		return false
	}
	fullPath, err := s.resolve(relPath)
	if err != nil {
		logging.Log.Warnf("Remove: rejected path '%s': %v", relPath, err)
		return false
	}
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return true
		}
		logging.Log.Warnf("Remove: failed to delete file '%s': %v", fullPath, err)
		return false
	}
	return true
}

// resolve joins relPath onto the root and blocks path traversal.
func (s *Store) resolve(relPath string) (string, error) {
	fullPath := filepath.Clean(filepath.Join(s.Root, filepath.FromSlash(relPath)))
	cleanedRoot := filepath.Clean(s.Root)
	if !strings.HasPrefix(fullPath, cleanedRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path: potential path traversal")
	}
	return fullPath, nil
}
