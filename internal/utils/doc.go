// Package utils holds the configuration and logging plumbing shared by trenza commands.
//
// ConfigurationLoader layers embedded defaults, an optional YAML file, and
// TRENZA_ prefixed environment variables through Viper. LoggerFactory builds
// the zap logger used for diagnostics on standard error.
package utils
