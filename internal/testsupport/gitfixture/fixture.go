// Package gitfixture builds throwaway git repositories for tests using go-git.
package gitfixture

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

const (
	fixtureAuthorNameConstant        = "Fixture Author"
	fixtureAuthorEmailConstant       = "fixture@example.com"
	fixtureDirectoryPermissions      = 0o755
	fixtureFilePermissions           = 0o644
	manifestPointerReferenceConstant = "refs/remotes/m/master"
	gitExecutableNameConstant        = "git"
)

var fixtureTimestamp = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

// Repository wraps a go-git repository created for a test.
type Repository struct {
	testFramework *testing.T
	Path          string
	Repository    *git.Repository
}

// RequireGit skips the test when the git executable is not available.
func RequireGit(testFramework *testing.T) {
	testFramework.Helper()
	if _, lookupError := exec.LookPath(gitExecutableNameConstant); lookupError != nil {
		testFramework.Skip("git executable not available")
	}
}

// ConfigureGitIdentity isolates shelled-out git from user configuration and supplies a commit identity.
func ConfigureGitIdentity(testFramework *testing.T) {
	testFramework.Helper()
	testFramework.Setenv("GIT_AUTHOR_NAME", fixtureAuthorNameConstant)
	testFramework.Setenv("GIT_AUTHOR_EMAIL", fixtureAuthorEmailConstant)
	testFramework.Setenv("GIT_COMMITTER_NAME", fixtureAuthorNameConstant)
	testFramework.Setenv("GIT_COMMITTER_EMAIL", fixtureAuthorEmailConstant)
	testFramework.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	testFramework.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	testFramework.Setenv("HOME", testFramework.TempDir())
}

// Init creates a non-bare repository at path whose unborn HEAD points at defaultBranch.
func Init(testFramework *testing.T, path string, defaultBranch string) *Repository {
	testFramework.Helper()

	require.NoError(testFramework, os.MkdirAll(path, fixtureDirectoryPermissions))
	repository, initError := git.PlainInitWithOptions(path, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(defaultBranch)},
	})
	require.NoError(testFramework, initError)

	return &Repository{testFramework: testFramework, Path: path, Repository: repository}
}

// Commit writes the provided files into the worktree and commits them.
func (fixture *Repository) Commit(message string, files map[string]string) plumbing.Hash {
	fixture.testFramework.Helper()

	worktree, worktreeError := fixture.Repository.Worktree()
	require.NoError(fixture.testFramework, worktreeError)

	for relativePath, content := range files {
		absolutePath := filepath.Join(fixture.Path, filepath.FromSlash(relativePath))
		require.NoError(fixture.testFramework, os.MkdirAll(filepath.Dir(absolutePath), fixtureDirectoryPermissions))
		require.NoError(fixture.testFramework, os.WriteFile(absolutePath, []byte(content), fixtureFilePermissions))
		_, addError := worktree.Add(relativePath)
		require.NoError(fixture.testFramework, addError)
	}

	signature := &object.Signature{Name: fixtureAuthorNameConstant, Email: fixtureAuthorEmailConstant, When: fixtureTimestamp}
	commitHash, commitError := worktree.Commit(message, &git.CommitOptions{Author: signature, Committer: signature})
	require.NoError(fixture.testFramework, commitError)
	return commitHash
}

// Branch creates a local branch at the current HEAD commit.
func (fixture *Repository) Branch(name string) {
	fixture.testFramework.Helper()
	fixture.setHashReference(plumbing.NewBranchReferenceName(name))
}

// Tag creates a lightweight tag at the current HEAD commit.
func (fixture *Repository) Tag(name string) {
	fixture.testFramework.Helper()
	_, tagError := fixture.Repository.CreateTag(name, fixture.headHash(), nil)
	require.NoError(fixture.testFramework, tagError)
}

// RemoteTrackingBranch creates refs/remotes/<remote>/<branch> at the current HEAD commit.
func (fixture *Repository) RemoteTrackingBranch(remote string, branch string) {
	fixture.testFramework.Helper()
	fixture.setHashReference(plumbing.NewRemoteReferenceName(remote, branch))
}

// ManifestPointer installs the symbolic reference a repo-tool checkout keeps for its manifest revision.
func (fixture *Repository) ManifestPointer(target plumbing.ReferenceName) {
	fixture.testFramework.Helper()
	reference := plumbing.NewSymbolicReference(plumbing.ReferenceName(manifestPointerReferenceConstant), target)
	require.NoError(fixture.testFramework, fixture.Repository.Storer.SetReference(reference))
}

// Checkout switches the worktree to an existing local branch.
func (fixture *Repository) Checkout(branch string) {
	fixture.testFramework.Helper()
	worktree, worktreeError := fixture.Repository.Worktree()
	require.NoError(fixture.testFramework, worktreeError)
	require.NoError(fixture.testFramework, worktree.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch)}))
}

// HeadFiles returns the file paths present in the tree of the HEAD commit of the repository at path.
func HeadFiles(testFramework *testing.T, path string) []string {
	testFramework.Helper()

	repository, openError := git.PlainOpen(path)
	require.NoError(testFramework, openError)
	commit := headCommit(testFramework, repository)

	tree, treeError := commit.Tree()
	require.NoError(testFramework, treeError)

	filePaths := []string{}
	require.NoError(testFramework, tree.Files().ForEach(func(file *object.File) error {
		filePaths = append(filePaths, file.Name)
		return nil
	}))
	return filePaths
}

// HeadMessage returns the message of the HEAD commit of the repository at path.
func HeadMessage(testFramework *testing.T, path string) string {
	testFramework.Helper()

	repository, openError := git.PlainOpen(path)
	require.NoError(testFramework, openError)
	return headCommit(testFramework, repository).Message
}

// RemoteNames lists the remotes configured in the repository at path.
func RemoteNames(testFramework *testing.T, path string) []string {
	testFramework.Helper()

	repository, openError := git.PlainOpen(path)
	require.NoError(testFramework, openError)
	remotes, remotesError := repository.Remotes()
	require.NoError(testFramework, remotesError)

	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	return names
}

func headCommit(testFramework *testing.T, repository *git.Repository) *object.Commit {
	testFramework.Helper()
	head, headError := repository.Head()
	require.NoError(testFramework, headError)
	commit, commitError := repository.CommitObject(head.Hash())
	require.NoError(testFramework, commitError)
	return commit
}

func (fixture *Repository) headHash() plumbing.Hash {
	fixture.testFramework.Helper()
	head, headError := fixture.Repository.Head()
	require.NoError(fixture.testFramework, headError)
	return head.Hash()
}

func (fixture *Repository) setHashReference(name plumbing.ReferenceName) {
	fixture.testFramework.Helper()
	reference := plumbing.NewHashReference(name, fixture.headHash())
	require.NoError(fixture.testFramework, fixture.Repository.Storer.SetReference(reference))
}
