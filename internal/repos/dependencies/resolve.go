package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/trenza/internal/execshell"
	"github.com/temirov/trenza/internal/gitrepo"
	"github.com/temirov/trenza/internal/repos/discovery"
	"github.com/temirov/trenza/internal/repos/filesystem"
	"github.com/temirov/trenza/internal/repos/shared"
)

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default.
func ResolveRepositoryDiscoverer(existing shared.RepositoryDiscoverer) shared.RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer()
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.NewOSFileSystem()
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryInspector returns the provided inspector or a go-git backed default.
func ResolveRepositoryInspector(existing shared.RepositoryInspector) shared.RepositoryInspector {
	if existing != nil {
		return existing
	}
	return gitrepo.NewHeadInspector()
}
