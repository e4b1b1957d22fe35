package join

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/temirov/trenza/internal/repos/shared"
)

const (
	defaultTargetSuffixConstant            = "_joined"
	suffixConfigurationKeyConstant         = "suffix"
	branchConfigurationKeyConstant         = "branch"
	configurationKeySeparatorConstant      = "."
	suffixSeparatorMessageTemplateConstant = "suffix %q must not contain a path separator"
	branchInvalidMessageTemplateConstant   = "branch: %w"
	pathSeparatorCharactersConstant        = `/\`
)

// CommandConfiguration captures persistent settings for the join command.
type CommandConfiguration struct {
	Suffix string `mapstructure:"suffix"`
	Branch string `mapstructure:"branch"`
}

// DefaultCommandConfiguration returns baseline configuration values for the join command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Suffix: defaultTargetSuffixConstant,
		Branch: "",
	}
}

// DefaultConfigurationValues exposes the default settings keyed below the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey(prefix, suffixConfigurationKeyConstant): defaults.Suffix,
		configurationKey(prefix, branchConfigurationKeyConstant): defaults.Branch,
	}
}

// Sanitize trims whitespace and restores the default suffix when it is unset.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Suffix = strings.TrimSpace(configuration.Suffix)
	if len(sanitized.Suffix) == 0 {
		sanitized.Suffix = defaultTargetSuffixConstant
	}
	sanitized.Branch = strings.TrimSpace(configuration.Branch)

	return sanitized
}

// Validate reports every problem found in the configuration.
func (configuration CommandConfiguration) Validate() error {
	var validationErrors *multierror.Error

	if strings.ContainsAny(configuration.Suffix, pathSeparatorCharactersConstant) {
		validationErrors = multierror.Append(validationErrors, fmt.Errorf(suffixSeparatorMessageTemplateConstant, configuration.Suffix))
	}

	if len(strings.TrimSpace(configuration.Branch)) > 0 {
		if _, branchError := shared.NewBranchName(configuration.Branch); branchError != nil {
			validationErrors = multierror.Append(validationErrors, fmt.Errorf(branchInvalidMessageTemplateConstant, branchError))
		}
	}

	if validationErrors == nil {
		return nil
	}
	return errors.Join(ErrInvalidConfiguration, validationErrors.ErrorOrNil())
}

func configurationKey(prefix string, key string) string {
	trimmedPrefix := strings.Trim(strings.TrimSpace(prefix), configurationKeySeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
