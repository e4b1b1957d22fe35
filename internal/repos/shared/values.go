package shared

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	repositoryPathEmptyMessageConstant   = "repository path must not be empty"
	repositoryPathControlMessageConstant = "repository path must not contain control characters"
	aliasOutsideRootTemplateConstant     = "repository %s is not located below %s"
	aliasEmptyTemplateConstant           = "repository %s resolves to an empty alias"
	aliasResolutionTemplateConstant      = "unable to compute alias for %s: %w"
	branchNameEmptyMessageConstant       = "branch name must not be empty"
	branchNameWhitespaceTemplateConstant = "branch name %q must not contain whitespace"
	aliasSegmentSeparatorConstant        = "/"
	currentDirectoryAliasConstant        = "."
	parentDirectoryAliasConstant         = ".."
	parentDirectoryAliasPrefixConstant   = "../"
	controlCharacterCutoffConstant       = 0x20
	deleteControlCharacterConstant       = 0x7f
)

// ErrEmptyAlias indicates that a repository coincides with the scan root.
var ErrEmptyAlias = errors.New("repository alias must not be empty")

// RepositoryPath is the filesystem location of a discovered repository.
type RepositoryPath struct {
	value string
}

// NewRepositoryPath trims and validates a repository path.
func NewRepositoryPath(raw string) (RepositoryPath, error) {
	if strings.ContainsFunc(raw, isControlCharacter) {
		return RepositoryPath{}, errors.New(repositoryPathControlMessageConstant)
	}
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return RepositoryPath{}, errors.New(repositoryPathEmptyMessageConstant)
	}
	return RepositoryPath{value: trimmed}, nil
}

// String returns the path.
func (repositoryPath RepositoryPath) String() string {
	return repositoryPath.value
}

// RepositoryAlias is a repository path relative to the scan root in slash form.
// It names both the remote registered in the joined repository and the
// subdirectory holding the repository's content.
type RepositoryAlias struct {
	value string
}

// NewRepositoryAlias derives the alias of repositoryPath relative to rootPath.
func NewRepositoryAlias(rootPath string, repositoryPath RepositoryPath) (RepositoryAlias, error) {
	relativePath, relativeError := filepath.Rel(rootPath, repositoryPath.String())
	if relativeError != nil {
		return RepositoryAlias{}, fmt.Errorf(aliasResolutionTemplateConstant, repositoryPath.String(), relativeError)
	}

	aliasValue := filepath.ToSlash(relativePath)
	if aliasValue == parentDirectoryAliasConstant || strings.HasPrefix(aliasValue, parentDirectoryAliasPrefixConstant) {
		return RepositoryAlias{}, fmt.Errorf(aliasOutsideRootTemplateConstant, repositoryPath.String(), rootPath)
	}
	if len(aliasValue) == 0 || aliasValue == currentDirectoryAliasConstant {
		return RepositoryAlias{}, fmt.Errorf(aliasEmptyTemplateConstant+": %w", repositoryPath.String(), ErrEmptyAlias)
	}

	return RepositoryAlias{value: aliasValue}, nil
}

// String returns the slash-joined alias.
func (alias RepositoryAlias) String() string {
	return alias.value
}

// FirstSegment returns the top-level directory the alias occupies in the joined repository.
func (alias RepositoryAlias) FirstSegment() string {
	firstSegment, _, _ := strings.Cut(alias.value, aliasSegmentSeparatorConstant)
	return firstSegment
}

// IsNested reports whether the alias spans more than one directory level.
func (alias RepositoryAlias) IsNested() bool {
	return strings.Contains(alias.value, aliasSegmentSeparatorConstant)
}

// BranchName is a validated git branch name.
type BranchName struct {
	value string
}

// NewBranchName trims and validates a branch name.
func NewBranchName(raw string) (BranchName, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return BranchName{}, errors.New(branchNameEmptyMessageConstant)
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return BranchName{}, fmt.Errorf(branchNameWhitespaceTemplateConstant, trimmed)
	}
	return BranchName{value: trimmed}, nil
}

// String returns the branch name.
func (branchName BranchName) String() string {
	return branchName.value
}

func isControlCharacter(character rune) bool {
	return character < controlCharacterCutoffConstant || character == deleteControlCharacterConstant
}
