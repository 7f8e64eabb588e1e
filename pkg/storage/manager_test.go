package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "emotescraper/pkg/errors"
)

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/png", ".png"},
		{"image/gif", ".gif"},
		{"image/png; charset=binary", ".png"},
		{"IMAGE/GIF", ".gif"},
		{"image/jpeg", ""},
		{"image/webp", ""},
		{"", ""},
		{"not a media type;;", ""},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtensionFor(tt.contentType))
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "pogchamp.png", FileName("PogChamp", "image/png"))
	assert.Equal(t, "catjam.gif", FileName("catJAM", "image/gif"))
	assert.Equal(t, "kappa", FileName("Kappa", "application/octet-stream"))
	assert.Equal(t, "kappa", FileName("  Kappa\n", ""))
	assert.Equal(t, ".._etc_passwd", FileName("../etc/passwd", ""))
	assert.Equal(t, "_", FileName("..", ""))
}

func TestDestinationPathIsDeterministic(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root, "emotes")

	first, err := m.DestinationPath("PogChamp", "image/png")
	require.NoError(t, err)
	second, err := m.DestinationPath("PogChamp", "image/png")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, filepath.Join(root, "emotes", "pogchamp.png"), first)
}

func TestSaveCreatesDirectoryAndFile(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root, "emotes")

	path, err := m.Save(strings.NewReader("png bytes"), "PogChamp", "image/png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "emotes", "pogchamp.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))
}

func TestSaveOverwritesExisting(t *testing.T) {
	m := NewManager(t.TempDir(), "emotes")

	_, err := m.Save(strings.NewReader("old"), "Kappa", "image/png")
	require.NoError(t, err)
	path, err := m.Save(strings.NewReader("new"), "Kappa", "image/png")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSaveFailedWriteLeavesNoFile(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root, "emotes")

	_, err := m.Save(io.MultiReader(strings.NewReader("partial"), failingReader{}), "Kappa", "image/png")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeFilesystem, errs.TypeOf(err))

	entries, err := os.ReadDir(filepath.Join(root, "emotes"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveWithoutRoot(t *testing.T) {
	m := NewManager("", "emotes")

	assert.Empty(t, m.Dir())
	_, err := m.Save(strings.NewReader("x"), "Kappa", "image/png")
	assert.ErrorIs(t, err, errs.ErrDestinationUnavailable)
}

func TestSaveWhenDirectoryCannotBeCreated(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "emotes")
	require.NoError(t, os.WriteFile(blocker, []byte("a file, not a dir"), 0644))

	m := NewManager(root, "emotes")
	_, err := m.Save(strings.NewReader("x"), "Kappa", "image/png")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeFilesystem, errs.TypeOf(err))
}

func TestResolveRoot(t *testing.T) {
	root, err := ResolveRoot("/srv/out")
	require.NoError(t, err)
	assert.Equal(t, "/srv/out", root)

	t.Setenv("HOME", "/home/tester")
	root, err = ResolveRoot("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", "Desktop"), root)
}
