package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	pathListJoinSeparatorConstant           = ", "
	flagPrefixConstant                      = "-"
)

const (
	gitInitSubcommandNameConstant      = "init"
	gitRemoteSubcommandNameConstant    = "remote"
	gitRemoteAddSubcommandNameConstant = "add"
	gitFetchSubcommandNameConstant     = "fetch"
	gitMergeSubcommandNameConstant     = "merge"
	gitMoveSubcommandNameConstant      = "mv"
	gitCommitSubcommandNameConstant    = "commit"
	gitBranchSubcommandNameConstant    = "branch"
	gitCheckoutSubcommandNameConstant  = "checkout"
	gitMessageFlagConstant             = "-m"
	gitAmendFlagConstant               = "--amend"
	gitRemotesFlagConstant             = "-r"
	gitRemotesLongFlagConstant         = "--remotes"
	gitNewBranchFlagConstant           = "-b"
)

const (
	gitInitStartTemplateConstant                         = "Initializing repository in %s"
	gitInitSuccessTemplateConstant                       = "Initialized repository in %s"
	gitInitFailureTemplateConstant                       = "Failed to initialize repository in %s (exit code %d%s)"
	gitInitExecutionFailureTemplateConstant              = "Unable to initialize repository in %s: %s"
	gitRemoteAddStartTemplateConstant                    = "Registering remote %s for %s in %s"
	gitRemoteAddSuccessTemplateConstant                  = "Registered remote %s for %s in %s"
	gitRemoteAddFailureTemplateConstant                  = "Failed to register remote %s for %s in %s (exit code %d%s)"
	gitRemoteAddExecutionFailureTemplateConstant         = "Unable to register remote %s for %s in %s: %s"
	gitFetchStartTemplateConstant                        = "Fetching %s into %s"
	gitFetchSuccessTemplateConstant                      = "Fetched %s into %s"
	gitFetchFailureTemplateConstant                      = "Failed to fetch %s into %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant             = "Unable to fetch %s into %s: %s"
	gitMergeStartTemplateConstant                        = "Merging %s into %s"
	gitMergeSuccessTemplateConstant                      = "Merged %s into %s"
	gitMergeFailureTemplateConstant                      = "Failed to merge %s into %s (exit code %d%s)"
	gitMergeExecutionFailureTemplateConstant             = "Unable to merge %s into %s: %s"
	gitMoveStartTemplateConstant                         = "Moving %s to %s in %s"
	gitMoveSuccessTemplateConstant                       = "Moved %s to %s in %s"
	gitMoveFailureTemplateConstant                       = "Failed to move %s to %s in %s (exit code %d%s)"
	gitMoveExecutionFailureTemplateConstant              = "Unable to move %s to %s in %s: %s"
	gitCommitStartTemplateConstant                       = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant                     = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant                     = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant            = "Unable to create commit in %s with message %q: %s"
	gitCommitAmendStartTemplateConstant                  = "Amending last commit in %s"
	gitCommitAmendSuccessTemplateConstant                = "Amended last commit in %s"
	gitCommitAmendFailureTemplateConstant                = "Failed to amend last commit in %s (exit code %d%s)"
	gitCommitAmendExecutionFailureTemplateConstant       = "Unable to amend last commit in %s: %s"
	gitRemoteBranchesStartTemplateConstant               = "Listing remote-tracking branches in %s"
	gitRemoteBranchesSuccessTemplateConstant             = "Listed remote-tracking branches in %s"
	gitRemoteBranchesFailureTemplateConstant             = "Failed to list remote-tracking branches in %s (exit code %d%s)"
	gitRemoteBranchesExecutionFailureTemplateConstant    = "Unable to list remote-tracking branches in %s: %s"
	gitCheckoutStartTemplateConstant                     = "Switching %s to branch %s"
	gitCheckoutSuccessTemplateConstant                   = "%s now on branch %s"
	gitCheckoutFailureTemplateConstant                   = "Failed to switch %s to branch %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant          = "Unable to switch %s to branch %s: %s"
	gitCheckoutNewBranchStartTemplateConstant            = "Creating branch %s from %s in %s"
	gitCheckoutNewBranchSuccessTemplateConstant          = "Created branch %s from %s in %s"
	gitCheckoutNewBranchFailureTemplateConstant          = "Failed to create branch %s from %s in %s (exit code %d%s)"
	gitCheckoutNewBranchExecutionFailureTemplateConstant = "Unable to create branch %s from %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(command.Details.Arguments[0]) {
	case gitInitSubcommandNameConstant:
		return formatter.describeGitInitMessage(command, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(command, result, failure, stage)
	case gitMergeSubcommandNameConstant:
		return formatter.describeGitMergeMessage(command, result, failure, stage)
	case gitMoveSubcommandNameConstant:
		return formatter.describeGitMoveMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitBranchSubcommandNameConstant:
		return formatter.describeGitBranchMessage(command, result, failure, stage)
	case gitCheckoutSubcommandNameConstant:
		return formatter.describeGitCheckoutMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitInitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitInitStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitInitSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitInitFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitInitExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if strings.TrimSpace(formatter.argumentAtIndex(arguments, 1)) != gitRemoteAddSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
	remoteLocation := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteAddStartTemplateConstant, remoteName, remoteLocation, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteAddSuccessTemplateConstant, remoteName, remoteLocation, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteAddFailureTemplateConstant, remoteName, remoteLocation, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRemoteAddExecutionFailureTemplateConstant, remoteName, remoteLocation, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitFetchStartTemplateConstant, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitFetchSuccessTemplateConstant, remoteName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitFetchFailureTemplateConstant, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitFetchExecutionFailureTemplateConstant, remoteName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMergeMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	reference := formatter.ensureValue(formatter.extractFirstNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitMergeStartTemplateConstant, reference, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitMergeSuccessTemplateConstant, reference, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitMergeFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitMergeExecutionFailureTemplateConstant, reference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMoveMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	pathArguments := formatter.collectNonFlagArguments(command.Details.Arguments[1:])
	if len(pathArguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	sources := strings.Join(pathArguments[:len(pathArguments)-1], pathListJoinSeparatorConstant)
	destination := pathArguments[len(pathArguments)-1]
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitMoveStartTemplateConstant, sources, destination, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitMoveSuccessTemplateConstant, sources, destination, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitMoveFailureTemplateConstant, sources, destination, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitMoveExecutionFailureTemplateConstant, sources, destination, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	if containsArgument(command.Details.Arguments, gitAmendFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCommitAmendStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitCommitAmendSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitCommitAmendFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCommitAmendExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	commitMessage := formatter.extractCommitMessage(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitBranchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if !containsArgument(arguments, gitRemotesFlagConstant) && !containsArgument(arguments, gitRemotesLongFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteBranchesStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteBranchesSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteBranchesFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRemoteBranchesExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCheckoutMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitNewBranchFlagConstant) {
		branchName := formatter.ensureValue(findFlagValue(arguments, gitNewBranchFlagConstant))
		startPoint := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCheckoutNewBranchStartTemplateConstant, branchName, startPoint, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitCheckoutNewBranchSuccessTemplateConstant, branchName, startPoint, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitCheckoutNewBranchFailureTemplateConstant, branchName, startPoint, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCheckoutNewBranchExecutionFailureTemplateConstant, branchName, startPoint, workingDirectory, formatter.describeFailure(failure))
		}
	}

	branchName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCheckoutStartTemplateConstant, workingDirectory, branchName)
	case messageStageSuccess:
		return fmt.Sprintf(gitCheckoutSuccessTemplateConstant, workingDirectory, branchName)
	case messageStageFailure:
		return fmt.Sprintf(gitCheckoutFailureTemplateConstant, workingDirectory, branchName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCheckoutExecutionFailureTemplateConstant, workingDirectory, branchName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) collectNonFlagArguments(arguments []string) []string {
	collected := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		collected = append(collected, trimmed)
	}
	return collected
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	collected := formatter.collectNonFlagArguments(arguments)
	if len(collected) == 0 {
		return emptyStringConstant
	}
	return collected[0]
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	collected := formatter.collectNonFlagArguments(arguments)
	if len(collected) == 0 {
		return emptyStringConstant
	}
	return collected[len(collected)-1]
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	commitMessage := findFlagValue(arguments, gitMessageFlagConstant)
	if len(commitMessage) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return commitMessage
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}
