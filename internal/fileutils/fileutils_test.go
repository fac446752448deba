package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-ledger/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	newDir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))

	require.NoError(t, fileutils.EnsureDirectoryExists(newDir), "existing directory is fine")
	require.NoError(t, fileutils.EnsureDirectoryExists("."))
}

func TestWriteFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "2024", "janeiro.txt")

	require.NoError(t, fileutils.WriteFile(target, []byte("ok"), 0600))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestListFilesWithExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "2024")
	require.NoError(t, os.MkdirAll(nested, 0750))

	for _, f := range []string{
		filepath.Join(tmpDir, "b.csv"),
		filepath.Join(tmpDir, "a.CSV"),
		filepath.Join(tmpDir, "notes.txt"),
		filepath.Join(nested, "investimentos.ofx"),
	} {
		require.NoError(t, os.WriteFile(f, []byte("test"), 0600))
	}

	files, err := fileutils.ListFilesWithExtensions(tmpDir, ".csv", ".ofx")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(nested, "investimentos.ofx"),
		filepath.Join(tmpDir, "a.CSV"),
		filepath.Join(tmpDir, "b.csv"),
	}, files)

	files, err = fileutils.ListFilesWithExtensions(tmpDir, ".pdf")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = fileutils.ListFilesWithExtensions(filepath.Join(tmpDir, "nonexistent"), ".csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory does not exist")
}
