package gitrepo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/temirov/trenza/internal/repos/shared"
)

const (
	openRepositoryErrorTemplateConstant = "unable to open repository %s: %w"
	readHeadErrorTemplateConstant       = "unable to read HEAD of %s: %w"
	shortHashLengthConstant             = 7
)

// HeadInspector describes repository HEADs using go-git.
type HeadInspector struct{}

// NewHeadInspector constructs a HeadInspector.
func NewHeadInspector() *HeadInspector {
	return &HeadInspector{}
}

// DescribeHead returns the checked-out branch and abbreviated commit hash of the repository at repositoryPath.
// A repository without commits reports its symbolic branch and an empty hash.
func (inspector *HeadInspector) DescribeHead(repositoryPath string) (shared.HeadDescription, error) {
	repository, openError := git.PlainOpenWithOptions(repositoryPath, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if openError != nil {
		return shared.HeadDescription{}, fmt.Errorf(openRepositoryErrorTemplateConstant, repositoryPath, openError)
	}

	symbolicHead, symbolicError := repository.Reference(plumbing.HEAD, false)
	if symbolicError != nil {
		return shared.HeadDescription{}, fmt.Errorf(readHeadErrorTemplateConstant, repositoryPath, symbolicError)
	}

	description := shared.HeadDescription{}
	if symbolicHead.Type() == plumbing.SymbolicReference && symbolicHead.Target().IsBranch() {
		description.BranchName = symbolicHead.Target().Short()
	} else {
		description.Detached = true
	}

	resolvedHead, resolveError := repository.Head()
	if resolveError != nil {
		if errors.Is(resolveError, plumbing.ErrReferenceNotFound) {
			return description, nil
		}
		return shared.HeadDescription{}, fmt.Errorf(readHeadErrorTemplateConstant, repositoryPath, resolveError)
	}

	hash := resolvedHead.Hash().String()
	if len(hash) > shortHashLengthConstant {
		hash = hash[:shortHashLengthConstant]
	}
	description.ShortHash = hash
	return description, nil
}
