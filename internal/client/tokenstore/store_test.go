package tokenstore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "session"))

	tok, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save("abc.def.ghi"))

	tok, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(s.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	tok, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestDefault(t *testing.T) {
	orig := userHomeDir
	t.Cleanup(func() { userHomeDir = orig })

	userHomeDir = func() (string, error) { return "/home/alice", nil }

	s, err := Default()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/alice", ".gophjournal", "session"), s.Path())
}
