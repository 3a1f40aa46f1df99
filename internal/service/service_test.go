package service

import (
	stdErrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"file-manager-plugin/internal/errors"
	"file-manager-plugin/internal/filesystem"
	"file-manager-plugin/internal/models"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockFileSystemAdapter returns canned names and records every call.
type mockFileSystemAdapter struct {
	names     []string
	dirs      map[string]bool
	readErr   error
	readCalls []string
	statCalls []string
}

func (m *mockFileSystemAdapter) ReadDirNames(path string) ([]string, error) {
	m.readCalls = append(m.readCalls, path)
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.names, nil
}

func (m *mockFileSystemAdapter) IsDir(path string) bool {
	m.statCalls = append(m.statCalls, path)
	return m.dirs[path]
}

func (m *mockFileSystemAdapter) Join(base, name string) string {
	return filepath.Join(base, name)
}

func newTestLister(t *testing.T, fs filesystem.FileSystemAdapter) *DefaultDirectoryLister {
	t.Helper()
	lister, err := NewDefaultDirectoryLister(fs, nil)
	require.NoError(t, err)
	return lister
}

func names(entries []models.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestNewDefaultDirectoryLister_RequiresAdapter(t *testing.T) {
	_, err := NewDefaultDirectoryLister(nil, zap.NewNop())
	require.Error(t, err)
}

func TestListDirectory_RealDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("b"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "c"), 0o755))

	lister := newTestLister(t, filesystem.NewDefaultFileSystemAdapter())
	entries, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: dir})
	require.Nil(t, perr)
	require.Len(t, entries, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, names(entries))

	for _, e := range entries {
		assert.Equal(t, filepath.Join(dir, e.Name), e.Path)
		assert.Equal(t, e.Name == "c", e.IsDirectory, "entry %s", e.Name)
	}
}

func TestListDirectory_EntryPathsAreCleaned(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "x"), []byte("x"), 0o644))

	lister := newTestLister(t, filesystem.NewDefaultFileSystemAdapter())
	sep := string(filepath.Separator)
	unclean := dir + sep + "docs" + sep + ".." + sep + "src" + sep
	require.Contains(t, unclean, "..")

	entries, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: unclean})
	require.Nil(t, perr)
	require.Len(t, entries, 1)
	assert.Equal(t, "x", entries[0].Name)
	assert.Equal(t, filepath.Join(dir, "src", "x"), entries[0].Path)
	assert.NotContains(t, entries[0].Path, "..")
}

func TestListDirectory_EmptyDirectory(t *testing.T) {
	lister := newTestLister(t, filesystem.NewDefaultFileSystemAdapter())

	entries, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: t.TempDir()})
	require.Nil(t, perr)
	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestListDirectory_MissingDirectory(t *testing.T) {
	lister := newTestLister(t, filesystem.NewDefaultFileSystemAdapter())
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	entries, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: missing})
	assert.Nil(t, entries)
	require.NotNil(t, perr)
	assert.Equal(t, errors.CodeListDirectoryError, perr.Code)
	assert.Nil(t, perr.Details)
	assert.True(t, stdErrors.Is(perr, fs.ErrNotExist))

	_, osErr := os.Open(missing)
	assert.Equal(t, osErr.Error(), perr.Message)
}

func TestListDirectory_PathIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	lister := newTestLister(t, filesystem.NewDefaultFileSystemAdapter())

	entries, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: file})
	assert.Nil(t, entries)
	require.NotNil(t, perr)
	assert.Equal(t, errors.CodeListDirectoryError, perr.Code)
	assert.NotEmpty(t, perr.Message)
}

func TestListDirectory_EmptyPathIsAListingFailure(t *testing.T) {
	lister := newTestLister(t, filesystem.NewDefaultFileSystemAdapter())

	_, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: ""})
	require.NotNil(t, perr)
	assert.Equal(t, errors.CodeListDirectoryError, perr.Code)
}

func TestListDirectory_PreservesEnumerationOrder(t *testing.T) {
	mock := &mockFileSystemAdapter{
		names: []string{"zeta", "alpha", ".dot", "Mid"},
		dirs:  map[string]bool{filepath.Join("/base", "alpha"): true},
	}
	lister := newTestLister(t, mock)

	entries, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: "/base"})
	require.Nil(t, perr)
	assert.Equal(t, []string{"zeta", "alpha", ".dot", "Mid"}, names(entries))
	assert.Equal(t, []models.Entry{
		{Name: "zeta", Path: filepath.Join("/base", "zeta")},
		{Name: "alpha", Path: filepath.Join("/base", "alpha"), IsDirectory: true},
		{Name: ".dot", Path: filepath.Join("/base", ".dot")},
		{Name: "Mid", Path: filepath.Join("/base", "Mid")},
	}, entries)

	assert.Equal(t, []string{"/base"}, mock.readCalls, "directory must be read exactly once")
	assert.Len(t, mock.statCalls, 4)
}

func TestListDirectory_ReadFailureSkipsStats(t *testing.T) {
	mock := &mockFileSystemAdapter{readErr: stdErrors.New("open /x: permission denied")}
	lister := newTestLister(t, mock)

	entries, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: "/x"})
	assert.Nil(t, entries)
	require.NotNil(t, perr)
	assert.Equal(t, "open /x: permission denied", perr.Message)
	assert.Empty(t, mock.statCalls)
}

func TestListDirectory_Idempotent(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"one", "two", "three"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	lister := newTestLister(t, filesystem.NewDefaultFileSystemAdapter())

	first, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: dir})
	require.Nil(t, perr)
	second, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: dir})
	require.Nil(t, perr)
	assert.ElementsMatch(t, first, second)
}

func TestListDirectory_NeverWrites(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, memFs.MkdirAll("/data/sub", 0o755))
	require.NoError(t, afero.WriteFile(memFs, "/data/file.txt", []byte("x"), 0o644))
	readOnly := afero.NewReadOnlyFs(memFs)

	lister := newTestLister(t, filesystem.NewFileSystemAdapter(readOnly))
	entries, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: "/data"})
	require.Nil(t, perr)
	assert.ElementsMatch(t, []models.Entry{
		{Name: "sub", Path: filepath.Join("/data", "sub"), IsDirectory: true},
		{Name: "file.txt", Path: filepath.Join("/data", "file.txt")},
	}, entries)
}

func TestListDirectory_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lister, err := NewDefaultDirectoryLister(&mockFileSystemAdapter{readErr: fs.ErrNotExist}, zap.New(core))
	require.NoError(t, err)

	_, perr := lister.ListDirectory(models.ListDirectoryRequest{Path: "/gone"})
	require.NotNil(t, perr)

	failures := logs.FilterMessage("list directory failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.WarnLevel, failures[0].Level)
	assert.Equal(t, "/gone", failures[0].ContextMap()["path"])
}
