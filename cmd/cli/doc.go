// Package cli builds the trenza command-line interface: the Cobra root
// command, the layered configuration loader, and the zap logger shared by
// subcommands.
package cli
