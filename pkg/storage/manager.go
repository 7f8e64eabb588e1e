package storage

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	errs "emotescraper/pkg/errors"
)

// ResolveRoot returns the output root, falling back to the user's desktop
// when configured is empty.
func ResolveRoot(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: %v", errs.ErrDestinationUnavailable, err)
	}
	return filepath.Join(home, "Desktop"), nil
}

// ExtensionFor maps a response content type to a file extension.
// Unknown types map to "".
func ExtensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

// FileName derives the on-disk name for an emote.
func FileName(name, contentType string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.NewReplacer("/", "_", `\`, "_").Replace(base)
	if base == "" || base == "." || base == ".." {
		base = "_"
	}
	return base + ExtensionFor(contentType)
}

// Manager places emote files under <root>/<subDir>.
type Manager struct {
	root   string
	subDir string

	mu      sync.Mutex
	ensured bool
}

// NewManager creates a storage manager. An empty root is allowed; every
// save then fails with ErrDestinationUnavailable.
func NewManager(root, subDir string) *Manager {
	return &Manager{root: root, subDir: subDir}
}

// Dir returns the directory files are written to, or "" when no root is set.
func (m *Manager) Dir() string {
	if m.root == "" {
		return ""
	}
	return filepath.Join(m.root, m.subDir)
}

// DestinationPath returns where an emote with the given name and content type is written.
func (m *Manager) DestinationPath(name, contentType string) (string, error) {
	dir := m.Dir()
	if dir == "" {
		return "", errs.ErrDestinationUnavailable
	}
	return filepath.Join(dir, FileName(name, contentType)), nil
}

// ensureDir creates the output directory once per manager.
func (m *Manager) ensureDir() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ensured {
		return nil
	}
	if err := os.MkdirAll(m.Dir(), 0755); err != nil {
		return errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to create output directory")
	}
	m.ensured = true
	return nil
}

// Save streams r into the destination file for name, replacing any existing
// file. It returns the final path.
func (m *Manager) Save(r io.Reader, name, contentType string) (string, error) {
	filename, err := m.DestinationPath(name, contentType)
	if err != nil {
		return "", err
	}
	if err := m.ensureDir(); err != nil {
		return "", err
	}

	out, err := os.CreateTemp(filepath.Dir(filename), ".emote-*.tmp")
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to create temporary file")
	}
	tempFile := out.Name()

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to write emote data")
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", errs.Wrap(errs.ErrorTypeFilesystem, closeErr, "failed to close file")
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to rename temporary file")
	}

	return filename, nil
}
