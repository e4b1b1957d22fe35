package join

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/trenza/internal/execshell"
	"github.com/temirov/trenza/internal/repos/shared"
)

const (
	gitCheckoutSubcommandConstant             = "checkout"
	gitCheckoutCreateBranchFlagConstant       = "-b"
	gitBranchSubcommandConstant               = "branch"
	gitBranchRemotesFlagConstant              = "-r"
	temporaryJoinBranchNameConstant           = "tmp_join_branch"
	manifestPointerPatternConstant            = `m/\S* -> (\S*)`
	referenceSegmentSeparatorConstant         = "/"
	checkoutFailureTemplateConstant           = "failed to check out branch %s in %s: %w"
	listRemoteBranchesFailureTemplateConstant = "failed to list remote branches in %s: %w"
	manifestPointerMissingTemplateConstant    = "%w: %s"
	explicitBranchInvalidTemplateConstant     = "invalid branch name: %w"
	temporaryBranchReusedMessageConstant      = "temporary join branch already exists, continuing"
	manifestPointerResolvedMessageConstant    = "resolved manifest pointer"
	logFieldRepositoryPathConstant            = "repository_path"
	logFieldManifestTargetConstant            = "manifest_target"
	logFieldTagConstant                       = "tag"
	logFieldBranchConstant                    = "branch"
	logFieldErrorConstant                     = "error"
)

// BranchResolutionKind distinguishes how a resolved reference relates to the source repository.
type BranchResolutionKind string

const (
	// BranchResolutionBranch marks a literal branch of the source repository.
	BranchResolutionBranch BranchResolutionKind = "branch"
	// BranchResolutionTagBranch marks the temporary branch created at a manifest tag.
	BranchResolutionTagBranch BranchResolutionKind = "tag_branch"
)

// BranchResolution names the source branch to merge into the joined repository.
type BranchResolution struct {
	Reference string
	Kind      BranchResolutionKind
}

// BranchResolver selects and checks out the branch of a source repository that will be merged.
type BranchResolver interface {
	Resolve(executionContext context.Context, repositoryPath string) (BranchResolution, error)
}

// NewBranchResolver returns an explicit resolver when explicitBranch is set and a manifest resolver otherwise.
func NewBranchResolver(executor shared.GitExecutor, logger *zap.Logger, explicitBranch string) (BranchResolver, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if len(strings.TrimSpace(explicitBranch)) == 0 {
		return NewManifestBranchResolver(executor, logger)
	}

	branchName, branchError := shared.NewBranchName(explicitBranch)
	if branchError != nil {
		return nil, fmt.Errorf(explicitBranchInvalidTemplateConstant, branchError)
	}
	return &ExplicitBranchResolver{executor: executor, branchName: branchName}, nil
}

// ExplicitBranchResolver checks out the same named branch in every repository.
type ExplicitBranchResolver struct {
	executor   shared.GitExecutor
	branchName shared.BranchName
}

// Resolve checks out the configured branch.
func (resolver *ExplicitBranchResolver) Resolve(executionContext context.Context, repositoryPath string) (BranchResolution, error) {
	if checkoutError := checkoutBranch(executionContext, resolver.executor, repositoryPath, resolver.branchName.String()); checkoutError != nil {
		return BranchResolution{}, checkoutError
	}
	return BranchResolution{Reference: resolver.branchName.String(), Kind: BranchResolutionBranch}, nil
}

// ManifestBranchResolver follows the m/<name> pointer a repo-tool checkout keeps among its remote branches.
type ManifestBranchResolver struct {
	executor       shared.GitExecutor
	logger         *zap.Logger
	pointerPattern *regexp.Regexp
}

// NewManifestBranchResolver constructs a ManifestBranchResolver.
func NewManifestBranchResolver(executor shared.GitExecutor, logger *zap.Logger) (*ManifestBranchResolver, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManifestBranchResolver{
		executor:       executor,
		logger:         logger,
		pointerPattern: regexp.MustCompile(manifestPointerPatternConstant),
	}, nil
}

// Resolve reads the manifest pointer target. A target containing a slash names a branch whose last
// segment is checked out. Any other target is a tag, checked out on the temporary join branch.
func (resolver *ManifestBranchResolver) Resolve(executionContext context.Context, repositoryPath string) (BranchResolution, error) {
	listResult, listError := resolver.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitBranchSubcommandConstant, gitBranchRemotesFlagConstant},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: nonInteractiveEnvironment(),
	})
	if listError != nil {
		return BranchResolution{}, fmt.Errorf(listRemoteBranchesFailureTemplateConstant, repositoryPath, listError)
	}

	match := resolver.pointerPattern.FindStringSubmatch(listResult.StandardOutput)
	if match == nil {
		return BranchResolution{}, fmt.Errorf(manifestPointerMissingTemplateConstant, ErrManifestPointerNotFound, repositoryPath)
	}
	manifestTarget := match[1]
	resolver.logger.Debug(
		manifestPointerResolvedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldManifestTargetConstant, manifestTarget),
	)

	if separatorIndex := strings.LastIndex(manifestTarget, referenceSegmentSeparatorConstant); separatorIndex >= 0 {
		branchName := manifestTarget[separatorIndex+1:]
		if checkoutError := checkoutBranch(executionContext, resolver.executor, repositoryPath, branchName); checkoutError != nil {
			return BranchResolution{}, checkoutError
		}
		return BranchResolution{Reference: branchName, Kind: BranchResolutionBranch}, nil
	}

	if _, createError := resolver.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitCheckoutSubcommandConstant, gitCheckoutCreateBranchFlagConstant, temporaryJoinBranchNameConstant, manifestTarget},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: nonInteractiveEnvironment(),
	}); createError != nil {
		resolver.logger.Warn(
			temporaryBranchReusedMessageConstant,
			zap.String(logFieldRepositoryPathConstant, repositoryPath),
			zap.String(logFieldTagConstant, manifestTarget),
			zap.String(logFieldBranchConstant, temporaryJoinBranchNameConstant),
			zap.String(logFieldErrorConstant, createError.Error()),
		)
	}
	return BranchResolution{Reference: temporaryJoinBranchNameConstant, Kind: BranchResolutionTagBranch}, nil
}

func checkoutBranch(executionContext context.Context, executor shared.GitExecutor, repositoryPath string, branchName string) error {
	if _, checkoutError := executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitCheckoutSubcommandConstant, branchName},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: nonInteractiveEnvironment(),
	}); checkoutError != nil {
		return fmt.Errorf(checkoutFailureTemplateConstant, branchName, repositoryPath, checkoutError)
	}
	return nil
}
