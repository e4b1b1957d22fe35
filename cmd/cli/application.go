package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/trenza/internal/join"
	"github.com/temirov/trenza/internal/utils"
)

const (
	applicationNameConstant                        = "trenza"
	applicationShortDescriptionConstant            = "Join many git repositories into one"
	applicationLongDescriptionConstant             = "trenza combines every git repository found under a directory into a single new repository, preserving each repository's history under its own subdirectory."
	configFileFlagNameConstant                     = "config"
	configFileFlagUsageConstant                    = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                       = "log-level"
	logLevelFlagUsageConstant                      = "Override the configured log level."
	logFormatFlagNameConstant                      = "log-format"
	logFormatFlagUsageConstant                     = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant                 = "common"
	commonLogLevelConfigKeyConstant                = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant               = commonConfigurationKeyConstant + ".log_format"
	toolsConfigurationKeyConstant                  = "tools"
	joinConfigurationKeyConstant                   = toolsConfigurationKeyConstant + ".join"
	environmentPrefixConstant                      = "TRENZA"
	configurationSearchPathEnvironmentNameConstant = environmentPrefixConstant + "_CONFIG_SEARCH_PATH"
	configurationNameConstant                      = "config"
	configurationTypeConstant                      = "yaml"
	configurationInitializedMessageConstant        = "configuration initialized"
	configurationLogLevelFieldConstant             = "log_level"
	configurationLogFormatFieldConstant            = "log_format"
	configurationFileFieldConstant                 = "config_file"
	configurationLoadErrorTemplateConstant         = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant            = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant                = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant              = "unable to build %s command: %w"
	unknownCommandErrorTemplateConstant            = "unknown command %q"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds per-command configuration.
type ApplicationToolsConfiguration struct {
	Join join.CommandConfiguration `mapstructure:"join"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	commandBuildError     error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		utils.ResolveSearchPaths(configurationSearchPathEnvironmentNameConstant, applicationNameConstant),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	joinBuilder := join.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() join.CommandConfiguration {
			return application.configuration.Tools.Join
		},
	}
	joinCommand, joinBuildError := joinBuilder.Build()
	if joinBuildError != nil {
		application.commandBuildError = fmt.Errorf(commandBuildErrorTemplateConstant, "join", joinBuildError)
	} else {
		cobraCommand.AddCommand(joinCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// RootCommand exposes the Cobra root command so callers can adjust arguments and streams.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	if application.commandBuildError != nil {
		return application.commandBuildError
	}
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// InitializeForCommand loads configuration as if the named subcommand were about to run.
func (application *Application) InitializeForCommand(commandUse string) error {
	for _, subcommand := range application.rootCommand.Commands() {
		if subcommand.Name() == commandUse {
			return application.initializeConfiguration(subcommand)
		}
	}
	return fmt.Errorf(unknownCommandErrorTemplateConstant, commandUse)
}

// Configuration returns the configuration resolved by the last initialization.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range join.DefaultConfigurationValues(joinConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
