package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	f, err := NewFile(path)
	require.NoError(t, err)

	token, err := f.Token()
	require.NoError(t, err)
	assert.Empty(t, token, "missing file means no token")

	require.NoError(t, f.Save("abc.def.ghi"))
	token, err = f.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, f.Clear())
	require.NoError(t, f.Clear(), "clearing twice is fine")
	token, err = f.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFile_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	f, err := NewFile("~/.spendpal/session")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".spendpal", "session"), f.Path())
}

func TestMemory(t *testing.T) {
	m := NewMemory("")
	token, _ := m.Token()
	assert.Empty(t, token)

	require.NoError(t, m.Save("t1"))
	token, _ = m.Token()
	assert.Equal(t, "t1", token)

	require.NoError(t, m.Clear())
	token, _ = m.Token()
	assert.Empty(t, token)
}
