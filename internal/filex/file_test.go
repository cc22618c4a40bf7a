package filex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("staging")
	require.NoError(t, err)

	want := filepath.Join(tmp, "staging")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")
}

func TestEnsureSubdDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubdDir("staging")
	require.NoError(t, err)

	second, err := EnsureSubdDir("staging")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("staging", []byte("x"), 0o660))

	_, err := EnsureSubdDir("staging")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestSaveStream_WritesContents(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveStream(strings.NewReader("avatar-bytes"), dir, "avatar.png")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "avatar.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "avatar-bytes", string(data))
}

func TestSaveStream_FailsOnMissingDir(t *testing.T) {
	_, err := SaveStream(strings.NewReader("x"), filepath.Join(t.TempDir(), "nope"), "f")
	require.Error(t, err)
}

func TestRemoveQuietly(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveStream(strings.NewReader("x"), dir, "f")
	require.NoError(t, err)

	RemoveQuietly(path)
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// no-op cases must not panic
	RemoveQuietly(path)
	RemoveQuietly("")
}
