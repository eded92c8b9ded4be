package filesystem_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opc-tools/opcdiag/filesystem"
)

func TestNewFS(t *testing.T) {
	tempDir := t.TempDir()

	fsys, err := filesystem.NewFS(tempDir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, fsys.Close()) })
	require.Equal(t, tempDir, fsys.Base())
}

func TestNewFS_NonExistentPath(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "nonexistent")

	_, err := filesystem.NewFS(tempDir)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewFS_BelowFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.docx")
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0o644))

	_, err := filesystem.NewFS(filepath.Join(path, "missing"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewFS_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.docx")
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0o644))

	_, err := filesystem.NewFS(path)
	require.ErrorIs(t, err, filesystem.ErrNotADirectory)
}

func TestFileSystemOperations(t *testing.T) {
	r := require.New(t)
	tempDir := t.TempDir()
	r.NoError(os.MkdirAll(filepath.Join(tempDir, "_rels"), 0o755))
	r.NoError(os.WriteFile(filepath.Join(tempDir, "_rels", ".rels"), []byte("rels"), 0o644))

	fsys, err := filesystem.NewFS(tempDir)
	r.NoError(err)
	t.Cleanup(func() { r.NoError(fsys.Close()) })

	entries, err := fsys.ReadDir("_rels")
	r.NoError(err)
	r.Len(entries, 1)
	r.Equal(".rels", entries[0].Name())

	info, err := fsys.Stat("_rels/.rels")
	r.NoError(err)
	r.False(info.IsDir())
	r.Equal(int64(4), info.Size())

	data, err := fsys.ReadFile("_rels/.rels")
	r.NoError(err)
	r.Equal([]byte("rels"), data)

	file, err := fsys.Open("_rels/.rels")
	r.NoError(err)
	r.NoError(file.Close())
}

func TestEscapingPathIsRejected(t *testing.T) {
	tempDir := t.TempDir()
	fsys, err := filesystem.NewFS(tempDir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, fsys.Close()) })

	_, err = fsys.Open("../outside")
	require.Error(t, err)
}
