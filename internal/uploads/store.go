// Package uploads provides disk-backed storage for product images.
//
// Files are stored flat under a single directory with a UUID prefix so
// repeated uploads of the same filename never collide. Only common image
// extensions are accepted; the client-supplied name is reduced to its base
// name before use so it can never escape the upload directory.
package uploads

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store is a disk-backed image store rooted at a single directory.
type Store struct {
	dir string
}

// New creates the upload directory if needed and returns a store for it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory files are stored under.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded content to disk and returns the stored filename.
// The returned name, not the client-supplied one, is what callers should
// persist (e.g. as a product image path).
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	name, err := sanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	stored := uuid.New().String() + "-" + name
	f, err := os.OpenFile(filepath.Join(s.dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return stored, nil
}

// Remove deletes a stored file by its stored name.
func (s *Store) Remove(stored string) error {
	name := filepath.Base(stored)
	if name != stored || name == "." || name == "" {
		return fmt.Errorf("invalid stored filename")
	}
	return os.Remove(filepath.Join(s.dir, name))
}

// Handler serves stored files read-only. Directory listings are disabled.
func (s *Store) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

// sanitizeFilename reduces a client-supplied filename to a safe base name and
// enforces the image extension allowlist.
func sanitizeFilename(filename string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid filename")
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file extension %q is not an allowed image type", ext)
	}

	return name, nil
}
