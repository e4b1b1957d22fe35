package join

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/temirov/trenza/internal/execshell"
	"github.com/temirov/trenza/internal/repos/shared"
)

const (
	gitMetadataEntryNameConstant            = ".git"
	stagingDirectoryNameConstant            = "z_tmp_unique_target_directory_@@@"
	stagingDirectoryPermissionsConstant     = 0o755
	gitMoveSubcommandConstant               = "mv"
	gitCommitSubcommandConstant             = "commit"
	gitCommitMessageFlagConstant            = "-m"
	gitCommitAmendFlagConstant              = "--amend"
	gitCommitNoEditFlagConstant             = "--no-edit"
	relocationCommitMessageTemplateConstant = "Move %s repo contents"
	pathSeparatorSuffixConstant             = "/"
	noContentTemplateConstant               = "%w: %s"
	listTargetErrorTemplateConstant         = "unable to list contents of %s: %w"
	createStagingErrorTemplateConstant      = "unable to create staging directory: %w"
	stageContentErrorTemplateConstant       = "unable to stage repository content: %w"
	commitContentErrorTemplateConstant      = "unable to commit staged content: %w"
	createParentErrorTemplateConstant       = "unable to create parent directory %s: %w"
	moveStagingErrorTemplateConstant        = "unable to move staged content to %s: %w"
	amendCommitErrorTemplateConstant        = "unable to amend relocation commit: %w"
	contentRelocatedMessageConstant         = "relocated repository content"
	logFieldAliasConstant                   = "alias"
	logFieldEntriesConstant                 = "entries"
)

// ContentRelocator moves freshly merged files into the subdirectory named by a repository alias.
type ContentRelocator struct {
	fileSystem shared.FileSystem
	executor   shared.GitExecutor
	logger     *zap.Logger
}

// NewContentRelocator constructs a ContentRelocator.
func NewContentRelocator(fileSystem shared.FileSystem, executor shared.GitExecutor, logger *zap.Logger) (*ContentRelocator, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentRelocator{fileSystem: fileSystem, executor: executor, logger: logger}, nil
}

// Relocate moves every top-level entry of targetPath that is not excluded into the alias directory.
// Content passes through a staging directory first, so an alias may share its name with one of the
// entries being moved. The move is recorded as a single commit.
func (relocator *ContentRelocator) Relocate(executionContext context.Context, targetPath string, alias string, exclusions *ExclusionSet) error {
	entries, listError := relocator.movableEntries(targetPath, exclusions)
	if listError != nil {
		return listError
	}
	if len(entries) == 0 {
		return fmt.Errorf(noContentTemplateConstant, ErrNoRepositoryContent, alias)
	}

	stagingPath := filepath.Join(targetPath, stagingDirectoryNameConstant)
	if creationError := relocator.fileSystem.Mkdir(stagingPath, stagingDirectoryPermissionsConstant); creationError != nil {
		return fmt.Errorf(createStagingErrorTemplateConstant, creationError)
	}

	moveArguments := append([]string{gitMoveSubcommandConstant}, entries...)
	moveArguments = append(moveArguments, stagingDirectoryNameConstant+pathSeparatorSuffixConstant)
	if stageError := relocator.runGit(executionContext, targetPath, moveArguments); stageError != nil {
		return fmt.Errorf(stageContentErrorTemplateConstant, stageError)
	}

	commitMessage := fmt.Sprintf(relocationCommitMessageTemplateConstant, alias)
	if commitError := relocator.runGit(executionContext, targetPath, []string{gitCommitSubcommandConstant, gitCommitMessageFlagConstant, commitMessage}); commitError != nil {
		return fmt.Errorf(commitContentErrorTemplateConstant, commitError)
	}

	if strings.Contains(alias, pathSeparatorSuffixConstant) {
		parentPath := filepath.Join(targetPath, filepath.FromSlash(path.Dir(alias)))
		if parentError := relocator.fileSystem.MkdirAll(parentPath, stagingDirectoryPermissionsConstant); parentError != nil {
			return fmt.Errorf(createParentErrorTemplateConstant, parentPath, parentError)
		}
	}

	if moveError := relocator.runGit(executionContext, targetPath, []string{gitMoveSubcommandConstant, stagingDirectoryNameConstant, alias}); moveError != nil {
		return fmt.Errorf(moveStagingErrorTemplateConstant, alias, moveError)
	}

	if amendError := relocator.runGit(executionContext, targetPath, []string{gitCommitSubcommandConstant, gitCommitAmendFlagConstant, gitCommitNoEditFlagConstant}); amendError != nil {
		return fmt.Errorf(amendCommitErrorTemplateConstant, amendError)
	}

	relocator.logger.Debug(
		contentRelocatedMessageConstant,
		zap.String(logFieldAliasConstant, alias),
		zap.Strings(logFieldEntriesConstant, entries),
	)
	return nil
}

func (relocator *ContentRelocator) movableEntries(targetPath string, exclusions *ExclusionSet) ([]string, error) {
	directoryEntries, readError := relocator.fileSystem.ReadDir(targetPath)
	if readError != nil {
		return nil, fmt.Errorf(listTargetErrorTemplateConstant, targetPath, readError)
	}

	entryNames := lo.FilterMap(directoryEntries, func(entry fs.FileInfo, _ int) (string, bool) {
		name := entry.Name()
		if name == gitMetadataEntryNameConstant || name == stagingDirectoryNameConstant {
			return "", false
		}
		return name, !exclusions.Contains(name)
	})
	sort.Strings(entryNames)
	return entryNames, nil
}

func (relocator *ContentRelocator) runGit(executionContext context.Context, targetPath string, arguments []string) error {
	_, executionError := relocator.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     targetPath,
		EnvironmentVariables: nonInteractiveEnvironment(),
	})
	return executionError
}
