package discovery_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/trenza/internal/repos/discovery"
)

const (
	sourcesDirectoryName               = "sources"
	platformGroupDirectoryName         = "platform"
	applicationRepositoryDirectoryName = "repoA"
	serviceRepositoryDirectoryName     = "repoB"
	toolsRepositoryDirectoryName       = "tools"
	plainDirectoryName                 = "notes"
	gitMetadataDirectoryName           = ".git"
	singleRootSubtestTitle             = "discoversRepositoriesFromSingleRoot"
	combinedRootsSubtestTitle          = "deduplicatesRepositoriesFromOverlappingRoots"
	repositoryDirectoryPermissions     = 0o755
)

type repositoryDefinition struct {
	directorySegments []string
}

func (definition repositoryDefinition) repositoryPath(rootDirectory string) string {
	segments := append([]string{rootDirectory}, definition.directorySegments...)
	return filepath.Join(segments...)
}

func (definition repositoryDefinition) gitMetadataPath(rootDirectory string) string {
	return filepath.Join(definition.repositoryPath(rootDirectory), gitMetadataDirectoryName)
}

type filesystemDiscoveryTestScenario struct {
	title                      string
	rootDirectoriesConstructor func(string) []string
}

func (scenario filesystemDiscoveryTestScenario) execute(
	testFramework *testing.T,
	repositoryDefinitions []repositoryDefinition,
) {
	testFramework.Helper()

	temporaryRootDirectory := testFramework.TempDir()
	for _, repositoryDefinition := range repositoryDefinitions {
		creationError := os.MkdirAll(repositoryDefinition.gitMetadataPath(temporaryRootDirectory), repositoryDirectoryPermissions)
		require.NoError(testFramework, creationError)
	}
	require.NoError(testFramework, os.MkdirAll(filepath.Join(temporaryRootDirectory, sourcesDirectoryName, plainDirectoryName), repositoryDirectoryPermissions))

	repositoryDiscoverer := discovery.NewFilesystemRepositoryDiscoverer()
	discoveredRepositories, discoveryError := repositoryDiscoverer.DiscoverRepositories(
		scenario.rootDirectoriesConstructor(temporaryRootDirectory),
	)
	require.NoError(testFramework, discoveryError)

	expectedRepositories := make([]string, 0, len(repositoryDefinitions))
	for _, repositoryDefinition := range repositoryDefinitions {
		expectedRepositories = append(expectedRepositories, repositoryDefinition.repositoryPath(temporaryRootDirectory))
	}
	sort.Strings(expectedRepositories)

	require.Equal(testFramework, expectedRepositories, discoveredRepositories)
	require.True(testFramework, sort.StringsAreSorted(discoveredRepositories))
	for _, discoveredRepository := range discoveredRepositories {
		require.NotEqual(testFramework, gitMetadataDirectoryName, filepath.Base(discoveredRepository))
	}
}

func TestFilesystemRepositoryDiscovererDiscoversNestedLayouts(testFramework *testing.T) {
	repositoryDefinitions := []repositoryDefinition{
		{directorySegments: []string{sourcesDirectoryName, platformGroupDirectoryName, serviceRepositoryDirectoryName}},
		{directorySegments: []string{sourcesDirectoryName, applicationRepositoryDirectoryName}},
		{directorySegments: []string{sourcesDirectoryName, platformGroupDirectoryName, toolsRepositoryDirectoryName}},
	}

	testScenarios := []filesystemDiscoveryTestScenario{
		{
			title: singleRootSubtestTitle,
			rootDirectoriesConstructor: func(rootDirectory string) []string {
				return []string{filepath.Join(rootDirectory, sourcesDirectoryName)}
			},
		},
		{
			title: combinedRootsSubtestTitle,
			rootDirectoriesConstructor: func(rootDirectory string) []string {
				sourcesDirectoryPath := filepath.Join(rootDirectory, sourcesDirectoryName)
				return []string{sourcesDirectoryPath, filepath.Join(sourcesDirectoryPath, platformGroupDirectoryName)}
			},
		},
	}

	for _, testScenario := range testScenarios {
		testFramework.Run(testScenario.title, func(testFramework *testing.T) {
			testScenario.execute(testFramework, repositoryDefinitions)
		})
	}
}

func TestFilesystemRepositoryDiscovererTreatsGitFileAsRepository(testFramework *testing.T) {
	rootDirectory := testFramework.TempDir()
	worktreeDirectory := filepath.Join(rootDirectory, "linked")
	require.NoError(testFramework, os.MkdirAll(worktreeDirectory, repositoryDirectoryPermissions))
	require.NoError(testFramework, os.WriteFile(filepath.Join(worktreeDirectory, gitMetadataDirectoryName), []byte("gitdir: /elsewhere\n"), 0o600))

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{rootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, []string{worktreeDirectory}, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererReturnsEmptyListWithoutRepositories(testFramework *testing.T) {
	rootDirectory := testFramework.TempDir()
	require.NoError(testFramework, os.MkdirAll(filepath.Join(rootDirectory, plainDirectoryName), repositoryDirectoryPermissions))

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{rootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Empty(testFramework, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererFailsForMissingRoot(testFramework *testing.T) {
	missingRoot := filepath.Join(testFramework.TempDir(), "absent")

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{missingRoot})
	require.Error(testFramework, discoveryError)
	require.ErrorIs(testFramework, discoveryError, os.ErrNotExist)
	require.Nil(testFramework, discoveredRepositories)
}
