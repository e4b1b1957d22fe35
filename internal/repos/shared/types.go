package shared

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/temirov/trenza/internal/execshell"
)

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FileSystem exposes filesystem operations required by repository services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Mkdir(path string, permissions fs.FileMode) error
	MkdirAll(path string, permissions fs.FileMode) error
	ReadDir(path string) ([]fs.FileInfo, error)
	Abs(path string) (string, error)
}

// RepositoryDiscoverer locates Git repositories for bulk operations.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// HeadDescription summarizes the checked-out revision of a repository.
type HeadDescription struct {
	BranchName string
	ShortHash  string
	Detached   bool
}

// RepositoryInspector reads repository state without mutating it.
type RepositoryInspector interface {
	DescribeHead(repositoryPath string) (HeadDescription, error)
}

const (
	headDescriptionTemplateConstant = "%s@%s"
	detachedHeadLabelConstant       = "detached"
	unbornHeadHashConstant          = "unborn"
)

// String renders the description as name@hash.
func (description HeadDescription) String() string {
	label := description.BranchName
	if description.Detached || len(label) == 0 {
		label = detachedHeadLabelConstant
	}
	hash := description.ShortHash
	if len(hash) == 0 {
		hash = unbornHeadHashConstant
	}
	return fmt.Sprintf(headDescriptionTemplateConstant, label, hash)
}
