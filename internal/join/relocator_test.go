package join

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/trenza/internal/repos/filesystem"
)

const (
	testTargetPathConstant = "/src_joined"
)

func newMergedTarget(t *testing.T, files map[string]string) (*filesystem.AferoFileSystem, *simulatedGitExecutor) {
	t.Helper()

	fileSystem := filesystem.NewMemoryFileSystem()
	executor := newSimulatedGitExecutor(fileSystem.Backend(), map[string]map[string]string{"fixture": files})
	require.NoError(t, fileSystem.MkdirAll(testTargetPathConstant+"/.git", 0o755))
	require.NoError(t, executor.applyMerge(testTargetPathConstant, "fixture/main"))
	return fileSystem, executor
}

func TestContentRelocatorMovesTopLevelEntries(t *testing.T) {
	t.Parallel()

	fileSystem, executor := newMergedTarget(t, map[string]string{
		"README.md":   "readme",
		"src/main.go": "package main",
		".gitignore":  "bin/",
	})

	relocator, constructionError := NewContentRelocator(fileSystem, executor, nil)
	require.NoError(t, constructionError)

	require.NoError(t, relocator.Relocate(context.Background(), testTargetPathConstant, "repoA", NewExclusionSet()))

	require.Equal(t, []string{
		"mv .gitignore README.md src z_tmp_unique_target_directory_@@@/",
		"commit -m Move repoA repo contents",
		"mv z_tmp_unique_target_directory_@@@ repoA",
		"commit --amend --no-edit",
	}, executor.argumentLines())
	require.Equal(t, []string{"repoA/.gitignore", "repoA/README.md", "repoA/src/main.go"}, listFiles(fileSystem.Backend(), testTargetPathConstant))
	for _, details := range executor.recorded {
		require.Equal(t, testTargetPathConstant, details.WorkingDirectory)
		require.Equal(t, "no", details.EnvironmentVariables["GIT_MERGE_AUTOEDIT"])
	}
}

func TestContentRelocatorSkipsExcludedEntries(t *testing.T) {
	t.Parallel()

	fileSystem, executor := newMergedTarget(t, map[string]string{
		"repoA/README.md": "already joined",
		"group/x.txt":     "already joined",
		"go.mod":          "module b",
	})

	relocator, constructionError := NewContentRelocator(fileSystem, executor, nil)
	require.NoError(t, constructionError)

	require.NoError(t, relocator.Relocate(context.Background(), testTargetPathConstant, "group/repoB", NewExclusionSet("repoA", "group")))

	require.Equal(t, "mv go.mod z_tmp_unique_target_directory_@@@/", executor.argumentLines()[0])
	require.Equal(t, "mv z_tmp_unique_target_directory_@@@ group/repoB", executor.argumentLines()[2])
	require.Equal(t, []string{"group/repoB/go.mod", "group/x.txt", "repoA/README.md"}, listFiles(fileSystem.Backend(), testTargetPathConstant))
}

func TestContentRelocatorHandlesAliasMatchingOwnEntry(t *testing.T) {
	t.Parallel()

	fileSystem, executor := newMergedTarget(t, map[string]string{
		"repoX/lib.go": "package repox",
		"go.mod":       "module repox",
	})

	relocator, constructionError := NewContentRelocator(fileSystem, executor, nil)
	require.NoError(t, constructionError)

	require.NoError(t, relocator.Relocate(context.Background(), testTargetPathConstant, "repoX/repoX", NewExclusionSet()))

	require.Equal(t, []string{"repoX/repoX/go.mod", "repoX/repoX/repoX/lib.go"}, listFiles(fileSystem.Backend(), testTargetPathConstant))
}

func TestContentRelocatorFailsWithoutContent(t *testing.T) {
	t.Parallel()

	fileSystem, executor := newMergedTarget(t, map[string]string{"repoA/README.md": "joined"})

	relocator, constructionError := NewContentRelocator(fileSystem, executor, nil)
	require.NoError(t, constructionError)

	relocateError := relocator.Relocate(context.Background(), testTargetPathConstant, "repoB", NewExclusionSet("repoA"))
	require.ErrorIs(t, relocateError, ErrNoRepositoryContent)
	require.Empty(t, executor.recorded)
}

func TestContentRelocatorStopsAtFirstGitFailure(t *testing.T) {
	t.Parallel()

	fileSystem, executor := newMergedTarget(t, map[string]string{"README.md": "readme"})
	commitFailure := errors.New("nothing to commit")
	executor.responses["commit -m Move repoA repo contents"] = stubGitResponse{err: commitFailure}

	relocator, constructionError := NewContentRelocator(fileSystem, executor, nil)
	require.NoError(t, constructionError)

	relocateError := relocator.Relocate(context.Background(), testTargetPathConstant, "repoA", NewExclusionSet())
	require.ErrorIs(t, relocateError, commitFailure)
	require.Len(t, executor.recorded, 2)
}
