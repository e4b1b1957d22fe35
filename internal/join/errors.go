package join

import (
	"errors"

	"github.com/temirov/trenza/internal/repos/shared"
)

// ErrTargetExists indicates the joined repository path is already taken.
var ErrTargetExists = errors.New("target path already exists")

// ErrManifestPointerNotFound indicates a repository has no manifest pointer among its remote branches.
var ErrManifestPointerNotFound = errors.New("manifest pointer not found in remote branches")

// ErrEmptyAlias indicates the scan root is itself a repository and cannot be joined into a subdirectory.
var ErrEmptyAlias = shared.ErrEmptyAlias

// ErrDuplicateAlias indicates two repositories resolved to the same alias.
var ErrDuplicateAlias = errors.New("duplicate repository alias")

// ErrNoRepositoryContent indicates a merged repository left nothing to relocate.
var ErrNoRepositoryContent = errors.New("no repository content to relocate")

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New("git executor not configured")

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New("filesystem not configured")

// ErrRootPathRequired indicates the root path option was empty.
var ErrRootPathRequired = errors.New("root path must be provided")

// ErrInvalidConfiguration indicates the join configuration failed validation.
var ErrInvalidConfiguration = errors.New("invalid join configuration")
