package join

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/temirov/trenza/internal/execshell"
	"github.com/temirov/trenza/internal/repos/shared"
)

const (
	targetDirectoryPermissionsConstant        = 0o755
	gitInitSubcommandConstant                 = "init"
	targetExistsTemplateConstant              = "%w: %s"
	targetInspectionErrorTemplateConstant     = "unable to inspect target path %s: %w"
	targetCreationErrorTemplateConstant       = "unable to create target directory %s: %w"
	targetInitializationErrorTemplateConstant = "unable to initialize git repository in %s: %w"
	targetInitializedMessageConstant          = "initialized target repository"
	logFieldTargetPathConstant                = "target_path"
)

// TargetInitializer creates the joined repository.
type TargetInitializer struct {
	fileSystem shared.FileSystem
	executor   shared.GitExecutor
	logger     *zap.Logger
}

// NewTargetInitializer constructs a TargetInitializer.
func NewTargetInitializer(fileSystem shared.FileSystem, executor shared.GitExecutor, logger *zap.Logger) (*TargetInitializer, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TargetInitializer{fileSystem: fileSystem, executor: executor, logger: logger}, nil
}

// Initialize creates targetPath and runs git init inside it. The parent directory must already exist.
func (initializer *TargetInitializer) Initialize(executionContext context.Context, targetPath string) error {
	_, statError := initializer.fileSystem.Stat(targetPath)
	switch {
	case statError == nil:
		return fmt.Errorf(targetExistsTemplateConstant, ErrTargetExists, targetPath)
	case !errors.Is(statError, fs.ErrNotExist):
		return fmt.Errorf(targetInspectionErrorTemplateConstant, targetPath, statError)
	}

	if creationError := initializer.fileSystem.Mkdir(targetPath, targetDirectoryPermissionsConstant); creationError != nil {
		return fmt.Errorf(targetCreationErrorTemplateConstant, targetPath, creationError)
	}

	if _, initError := initializer.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitInitSubcommandConstant},
		WorkingDirectory:     targetPath,
		EnvironmentVariables: nonInteractiveEnvironment(),
	}); initError != nil {
		return fmt.Errorf(targetInitializationErrorTemplateConstant, targetPath, initError)
	}

	initializer.logger.Debug(targetInitializedMessageConstant, zap.String(logFieldTargetPathConstant, targetPath))
	return nil
}
