// ABOUTME: Disk-backed attachment store with random collision-resistant names
// ABOUTME: Enforces the 5 MiB payload ceiling and never reuses caller filenames

package uploads

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxSize is the upload payload ceiling in bytes (5 MiB).
const MaxSize = 5 << 20

// URLPrefix is the public path prefix under which stored files are served.
const URLPrefix = "/uploads/"

// ErrTooLarge is returned when a payload exceeds MaxSize.
var ErrTooLarge = errors.New("payload too large")

// Store accepts uploaded binaries and returns opaque references.
type Store interface {
	Save(data []byte, ext string) (ref string, err error)
}

// DiskStore implements Store on the local filesystem. Files are named with
// 12 random bytes of hex plus the sanitized extension; the caller-supplied
// filename is never used, so references cannot collide with or traverse
// outside the uploads directory.
type DiskStore struct {
	dir    string
	logger *slog.Logger
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &DiskStore{
		dir:    dir,
		logger: slog.Default().With("component", "uploads"),
	}, nil
}

// Dir returns the directory files are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes data under a freshly generated name and returns its reference
// in the form "/uploads/<24 hex chars><ext>". Returns ErrTooLarge when the
// payload exceeds MaxSize. The store keeps no record of which item a file
// belongs to.
func (s *DiskStore) Save(data []byte, ext string) (string, error) {
	if len(data) > MaxSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), MaxSize)
	}

	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating file name: %w", err)
	}
	name := hex.EncodeToString(buf) + sanitizeExt(ext)

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}

	s.logger.Debug("stored upload", "name", name, "bytes", len(data))
	return URLPrefix + name, nil
}

var extPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)

// sanitizeExt keeps a short, plain extension and drops anything else.
func sanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}

// Ensure DiskStore implements Store.
var _ Store = (*DiskStore)(nil)
