package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/trenza/internal/repos/filesystem"
)

func TestMemoryFileSystemListsEntriesSorted(t *testing.T) {
	t.Parallel()

	fileSystem := filesystem.NewMemoryFileSystem()
	require.NoError(t, fileSystem.MkdirAll("/joined/src", 0o755))
	require.NoError(t, afero.WriteFile(fileSystem.Backend(), "/joined/README.md", []byte("readme"), 0o644))
	require.NoError(t, fileSystem.Mkdir("/joined/.git", 0o755))

	entries, readError := fileSystem.ReadDir("/joined")
	require.NoError(t, readError)

	entryNames := make([]string, 0, len(entries))
	for _, entry := range entries {
		entryNames = append(entryNames, entry.Name())
	}
	require.Equal(t, []string{".git", "README.md", "src"}, entryNames)
}

func TestMkdirFailsWhenDirectoryExists(t *testing.T) {
	t.Parallel()

	temporaryDirectory := t.TempDir()
	fileSystem := filesystem.NewOSFileSystem()

	targetPath := filepath.Join(temporaryDirectory, "joined")
	require.NoError(t, fileSystem.Mkdir(targetPath, 0o755))

	secondError := fileSystem.Mkdir(targetPath, 0o755)
	require.Error(t, secondError)
	require.ErrorIs(t, secondError, os.ErrExist)

	information, statError := fileSystem.Stat(targetPath)
	require.NoError(t, statError)
	require.True(t, information.IsDir())
}

func TestAbsResolvesRelativePaths(t *testing.T) {
	t.Parallel()

	fileSystem := filesystem.NewFileSystem(nil)
	absolutePath, absError := fileSystem.Abs("relative")
	require.NoError(t, absError)
	require.True(t, filepath.IsAbs(absolutePath))
}
