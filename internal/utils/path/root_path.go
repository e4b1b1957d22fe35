// Package pathutils normalizes user-supplied filesystem paths.
package pathutils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
	emptyRootPathMessageConstant    = "root path must not be empty"
)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// ErrEmptyRootPath indicates a blank root path argument.
var ErrEmptyRootPath = errors.New(emptyRootPathMessageConstant)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// RootPathResolver turns a root path argument into a cleaned path with the user's home shortcut expanded.
type RootPathResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewRootPathResolver constructs a RootPathResolver using the operating system home lookup.
func NewRootPathResolver() *RootPathResolver {
	return NewRootPathResolverWithProvider(os.UserHomeDir)
}

// NewRootPathResolverWithProvider constructs a RootPathResolver with a custom home directory provider.
func NewRootPathResolverWithProvider(provider HomeDirectoryProvider) *RootPathResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &RootPathResolver{homeDirectoryProvider: provider}
}

// Resolve trims the candidate, expands a leading tilde, and cleans the result.
// Trailing separators are dropped so the joined repository lands beside the root, not inside it.
func (resolver *RootPathResolver) Resolve(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return "", ErrEmptyRootPath
	}
	return filepath.Clean(resolver.expandHome(trimmedPath)), nil
}

func (resolver *RootPathResolver) expandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	homeDirectory := resolver.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return homeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix))
	default:
		return candidatePath
	}
}

func (resolver *RootPathResolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
