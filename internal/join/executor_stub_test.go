package join

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/trenza/internal/execshell"
)

type stubGitResponse struct {
	result execshell.ExecutionResult
	err    error
}

type stubGitExecutor struct {
	recorded  []execshell.CommandDetails
	responses map[string]stubGitResponse
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	response, configured := executor.responses[strings.Join(details.Arguments, " ")]
	if !configured {
		return execshell.ExecutionResult{}, nil
	}
	if response.err != nil {
		return execshell.ExecutionResult{}, response.err
	}
	return response.result, nil
}

func (executor *stubGitExecutor) argumentLines() []string {
	lines := make([]string, 0, len(executor.recorded))
	for _, details := range executor.recorded {
		lines = append(lines, strings.Join(details.Arguments, " "))
	}
	return lines
}

// simulatedGitExecutor mimics the effect of the git commands the join service issues on an in-memory filesystem.
type simulatedGitExecutor struct {
	stubGitExecutor
	fileSystem     afero.Fs
	remoteContents map[string]map[string]string
}

func newSimulatedGitExecutor(fileSystem afero.Fs, remoteContents map[string]map[string]string) *simulatedGitExecutor {
	return &simulatedGitExecutor{
		stubGitExecutor: stubGitExecutor{responses: map[string]stubGitResponse{}},
		fileSystem:      fileSystem,
		remoteContents:  remoteContents,
	}
}

func (executor *simulatedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	result, executionError := executor.stubGitExecutor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return result, executionError
	}

	arguments := details.Arguments
	workingDirectory := details.WorkingDirectory
	switch arguments[0] {
	case gitInitSubcommandConstant:
		return result, executor.fileSystem.MkdirAll(filepath.Join(workingDirectory, gitMetadataEntryNameConstant), 0o755)
	case gitMergeSubcommandConstant:
		return result, executor.applyMerge(workingDirectory, arguments[1])
	case gitMoveSubcommandConstant:
		return result, executor.applyMove(workingDirectory, arguments[1:])
	}
	return result, nil
}

func (executor *simulatedGitExecutor) applyMerge(workingDirectory string, reference string) error {
	remoteName := reference[:strings.LastIndex(reference, "/")]
	files, known := executor.remoteContents[remoteName]
	if !known {
		return errors.New("unknown remote " + remoteName)
	}
	for relativePath, content := range files {
		absolutePath := filepath.Join(workingDirectory, filepath.FromSlash(relativePath))
		if mkdirError := executor.fileSystem.MkdirAll(filepath.Dir(absolutePath), 0o755); mkdirError != nil {
			return mkdirError
		}
		if writeError := afero.WriteFile(executor.fileSystem, absolutePath, []byte(content), 0o644); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (executor *simulatedGitExecutor) applyMove(workingDirectory string, operands []string) error {
	destination := operands[len(operands)-1]
	sources := operands[:len(operands)-1]
	if strings.HasSuffix(destination, "/") {
		for _, source := range sources {
			if moveError := executor.moveTree(filepath.Join(workingDirectory, source), filepath.Join(workingDirectory, destination, path.Base(source))); moveError != nil {
				return moveError
			}
		}
		return nil
	}
	if _, statError := executor.fileSystem.Stat(filepath.Join(workingDirectory, destination)); statError == nil {
		return errors.New("destination exists: " + destination)
	}
	return executor.moveTree(filepath.Join(workingDirectory, sources[0]), filepath.Join(workingDirectory, filepath.FromSlash(destination)))
}

func (executor *simulatedGitExecutor) moveTree(sourcePath string, destinationPath string) error {
	walkError := afero.Walk(executor.fileSystem, sourcePath, func(currentPath string, information os.FileInfo, walkError error) error {
		if walkError != nil {
			return walkError
		}
		relativePath, relativeError := filepath.Rel(sourcePath, currentPath)
		if relativeError != nil {
			return relativeError
		}
		targetPath := filepath.Join(destinationPath, relativePath)
		if information.IsDir() {
			return executor.fileSystem.MkdirAll(targetPath, 0o755)
		}
		content, readError := afero.ReadFile(executor.fileSystem, currentPath)
		if readError != nil {
			return readError
		}
		return afero.WriteFile(executor.fileSystem, targetPath, content, 0o644)
	})
	if walkError != nil {
		return walkError
	}
	return executor.fileSystem.RemoveAll(sourcePath)
}

func listFiles(fileSystem afero.Fs, rootPath string) []string {
	files := []string{}
	_ = afero.Walk(fileSystem, rootPath, func(currentPath string, information os.FileInfo, walkError error) error {
		if walkError != nil || information.IsDir() {
			return nil
		}
		relativePath, _ := filepath.Rel(rootPath, currentPath)
		files = append(files, filepath.ToSlash(relativePath))
		return nil
	})
	sort.Strings(files)
	return files
}

type stubRepositoryDiscoverer struct {
	repositories []string
	err          error
	roots        []string
}

func (discoverer *stubRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	discoverer.roots = append(discoverer.roots, roots...)
	if discoverer.err != nil {
		return nil, discoverer.err
	}
	return discoverer.repositories, nil
}
