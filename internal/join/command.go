package join

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/trenza/internal/repos/dependencies"
	"github.com/temirov/trenza/internal/repos/shared"
	pathutils "github.com/temirov/trenza/internal/utils/path"
)

const (
	commandUseNameConstant            = "join"
	commandUsageTemplateConstant      = commandUseNameConstant + " <root>"
	commandExampleTemplateConstant    = "trenza join ~/src/platform --branch main"
	commandShortDescriptionConstant   = "Join every repository under a root into one repository"
	commandLongDescriptionConstant    = "join discovers every git repository beneath the root directory, creates a sibling repository named after the root plus a suffix, and merges each discovered repository into it with full history. Each repository's files end up in a subdirectory matching its path relative to the root. Without --branch the branch is taken from the repo-tool manifest pointer (m/<name>) of each repository."
	suffixFlagNameConstant            = "suffix"
	suffixFlagUsageConstant           = "Suffix appended to the root path to name the joined repository"
	branchFlagNameConstant            = "branch"
	branchFlagUsageConstant           = "Branch to merge from every repository instead of the manifest pointer"
	dryRunFlagNameConstant            = "dry-run"
	dryRunFlagUsageConstant           = "List the repositories that would be joined without changing anything"
	joinedLineTemplateConstant        = "JOINED: %d repositories into %s\n"
	plannedLineTemplateConstant       = "PLANNED: %d repositories into %s\n"
	rootArgumentErrorTemplateConstant = "%w: %w"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the join command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
	RepositoryDiscoverer         shared.RepositoryDiscoverer
	RepositoryInspector          shared.RepositoryInspector
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the join command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUsageTemplateConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		RunE:    builder.run,
		Args:    cobra.ExactArgs(1),
		Example: commandExampleTemplateConstant,
	}

	command.Flags().String(suffixFlagNameConstant, "", suffixFlagUsageConstant)
	command.Flags().String(branchFlagNameConstant, "", branchFlagUsageConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	dryRun, dryRunError := command.Flags().GetBool(dryRunFlagNameConstant)
	if dryRunError != nil {
		return dryRunError
	}

	rootPath, rootError := pathutils.NewRootPathResolver().Resolve(firstArgument(arguments))
	if rootError != nil {
		_ = command.Help()
		return fmt.Errorf(rootArgumentErrorTemplateConstant, ErrRootPathRequired, rootError)
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(ServiceDependencies{
		GitExecutor:          gitExecutor,
		FileSystem:           dependencies.ResolveFileSystem(builder.FileSystem),
		RepositoryDiscoverer: dependencies.ResolveRepositoryDiscoverer(builder.RepositoryDiscoverer),
		RepositoryInspector:  dependencies.ResolveRepositoryInspector(builder.RepositoryInspector),
		Reporter:             shared.NewWriterReporter(command.OutOrStdout()),
		Logger:               logger,
	})
	if serviceError != nil {
		return serviceError
	}

	result, joinError := service.Join(command.Context(), Options{
		RootPath:     rootPath,
		TargetSuffix: configuration.Suffix,
		BranchName:   configuration.Branch,
		DryRun:       dryRun,
	})
	if joinError != nil {
		return joinError
	}

	if result.DryRun {
		fmt.Fprintf(command.OutOrStdout(), plannedLineTemplateConstant, len(result.Planned), result.TargetPath)
		return nil
	}
	fmt.Fprintf(command.OutOrStdout(), joinedLineTemplateConstant, len(result.Repositories), result.TargetPath)
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command.Flags().Changed(suffixFlagNameConstant) {
		suffix, suffixError := command.Flags().GetString(suffixFlagNameConstant)
		if suffixError != nil {
			return CommandConfiguration{}, suffixError
		}
		configuration.Suffix = suffix
	}
	if command.Flags().Changed(branchFlagNameConstant) {
		branch, branchError := command.Flags().GetString(branchFlagNameConstant)
		if branchError != nil {
			return CommandConfiguration{}, branchError
		}
		configuration.Branch = branch
	}

	sanitized := configuration.Sanitize()
	if validationError := sanitized.Validate(); validationError != nil {
		return CommandConfiguration{}, validationError
	}
	return sanitized, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func firstArgument(arguments []string) string {
	if len(arguments) == 0 {
		return ""
	}
	return arguments[0]
}
