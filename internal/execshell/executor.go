package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandGitStringConstant                = "git"
	loggerNotConfiguredMessageConstant      = "shell executor logger not configured"
	runnerNotConfiguredMessageConstant      = "shell executor command runner not configured"
	commandFailedErrorTemplateConstant      = "%s exited with code %d: %s"
	commandFailedNoOutputTemplateConstant   = "%s exited with code %d"
	commandExecutionErrorTemplateConstant   = "%s could not be executed: %v"
	logFieldCommandNameConstant             = "command_name"
	logFieldCommandArgumentsConstant        = "command_arguments"
	logFieldWorkingDirectoryConstant        = "working_directory"
	logFieldExitCodeConstant                = "exit_code"
	logFieldStandardErrorConstant           = "standard_error"
	commandDescriptionSeparatorConstant     = " "
	commandDescriptionDirectoryTemplateTail = " (in %s)"
)

// CommandName identifies an external executable driven by the executor.
type CommandName string

// CommandGit runs the git command-line client.
const CommandGit CommandName = CommandName(commandGitStringConstant)

// ErrLoggerNotConfigured indicates the executor was created without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was created without a runner.
var ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// CommandDetails describes the arguments and environment of one invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes a ShellCommand and reports its result.
// A non-zero exit code is not an error for the runner.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a process that exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error renders the failing command together with its captured standard error.
func (failure CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedNoOutputTemplateConstant, describeCommand(failure.Command), failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommand(failure.Command), failure.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a process that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error renders the command that could not run together with the cause.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying runner failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs external commands synchronously and logs their lifecycle.
type ShellExecutor struct {
	logger               *zap.Logger
	runner               CommandRunner
	formatter            CommandMessageFormatter
	humanReadableLogging bool
}

// NewShellExecutor validates collaborators and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, humanReadableLogging bool) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{
		logger:               logger,
		runner:               runner,
		formatter:            CommandMessageFormatter{},
		humanReadableLogging: humanReadableLogging,
	}, nil
}

// ExecuteGit runs git with the supplied details. Non-zero exits surface as CommandFailedError.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// Execute runs an arbitrary command and blocks until it finishes.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Info(executor.formatter.BuildStartedMessage(command), executor.commandFields(command)...)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Error(
			executor.formatter.BuildExecutionFailureMessage(command, runError),
			append(executor.commandFields(command), zap.Error(runError))...,
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(
			executor.formatter.BuildFailureMessage(command, executionResult),
			append(
				executor.commandFields(command),
				zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
				zap.String(logFieldStandardErrorConstant, strings.TrimSpace(executionResult.StandardError)),
			)...,
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Info(executor.formatter.BuildSuccessMessage(command), executor.commandFields(command)...)
	return executionResult, nil
}

func (executor *ShellExecutor) commandFields(command ShellCommand) []zap.Field {
	if executor.humanReadableLogging {
		return nil
	}
	return []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}
}

func describeCommand(command ShellCommand) string {
	description := strings.Join(append([]string{string(command.Name)}, command.Details.Arguments...), commandDescriptionSeparatorConstant)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return description
	}
	return description + fmt.Sprintf(commandDescriptionDirectoryTemplateTail, trimmedWorkingDirectory)
}
