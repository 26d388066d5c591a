package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bpariverside/skillswap-service/internal/models"
)

// avatarExtensions are the file extensions an avatar may carry, matching
// the accepted upload types.
var avatarExtensions = []string{"png", "jpg", "jpeg"}

// AvatarStore keeps avatar files in a single flat directory. Files are
// named <handle>.<ext> so one user owns at most one avatar; the shared
// default.png is never touched.
type AvatarStore struct {
	dir string
}

func NewAvatarStore(dir string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &AvatarStore{dir: dir}, nil
}

// Save writes the avatar as <handle>.<ext> and removes any previous file
// the same handle stored under a different extension. Returns the public
// URL the profile should reference.
func (s *AvatarStore) Save(handle, ext string, r io.Reader) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	name := handle + "." + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write avatar file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close avatar file: %w", err)
	}

	// A previous upload under another extension would otherwise linger.
	for _, other := range avatarExtensions {
		if other == ext {
			continue
		}
		os.Remove(filepath.Join(s.dir, handle+"."+other))
	}

	return models.AvatarURLPrefix + name, nil
}

// RemoveURL deletes the file a public avatar URL points at. The default
// avatar and URLs outside the avatar prefix are left alone.
func (s *AvatarStore) RemoveURL(url string) error {
	if url == models.DefaultAvatarURL || !strings.HasPrefix(url, models.AvatarURLPrefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, models.AvatarURLPrefix))
	if name == "" || name == "." || name == "default.png" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove avatar: %w", err)
	}
	return nil
}

// Sweep removes every leftover avatar file whose name starts with the
// handle, whatever the extension. Used when the account is deleted.
func (s *AvatarStore) Sweep(handle string) error {
	if handle == "" {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("sweep avatars: %w", err)
	}

	var firstErr error
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == "default.png" || !strings.HasPrefix(name, handle) {
			continue
		}
		err := os.Remove(filepath.Join(s.dir, name))
		if err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("sweep avatars: %w", err)
		}
	}
	return firstErr
}

// Dir returns the backing directory, for static file serving.
func (s *AvatarStore) Dir() string {
	return s.dir
}
