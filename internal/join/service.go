package join

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/trenza/internal/execshell"
	repositorydependencies "github.com/temirov/trenza/internal/repos/dependencies"
	"github.com/temirov/trenza/internal/repos/shared"
)

const (
	gitRemoteSubcommandConstant            = "remote"
	gitRemoteAddSubcommandConstant         = "add"
	gitFetchSubcommandConstant             = "fetch"
	gitMergeSubcommandConstant             = "merge"
	gitAllowUnrelatedHistoriesFlagConstant = "--allow-unrelated-histories"
	mergeReferenceTemplateConstant         = "%s/%s"
	resolveRootErrorTemplateConstant       = "unable to resolve root path %s: %w"
	discoveryErrorTemplateConstant         = "failed to find repositories: %w"
	planErrorTemplateConstant              = "failed to plan repositories: %w"
	duplicateAliasTemplateConstant         = "%w: %s (%s and %s)"
	initializeTargetErrorTemplateConstant  = "failed to create target repository: %w"
	mergeRepositoriesErrorTemplateConstant = "failed to merge repositories: failed to merge repository %s: %w"
	resolveBranchErrorTemplateConstant     = "unable to resolve branch: %w"
	addRemoteErrorTemplateConstant         = "unable to add remote %s: %w"
	fetchRemoteErrorTemplateConstant       = "unable to fetch %s: %w"
	mergeReferenceErrorTemplateConstant    = "unable to merge %s: %w"
	relocateErrorTemplateConstant          = "unable to relocate content: %w"
	planLineTemplateConstant               = "PLAN: %s <- %s\n"
	mergedLineTemplateConstant             = "MERGED: %s <- %s (%s)\n"
	joinStartedMessageConstant             = "joining repositories"
	repositoryMergedMessageConstant        = "merged repository"
	sourceHeadUnavailableMessageConstant   = "unable to describe source HEAD"
	logFieldRootPathConstant               = "root_path"
	logFieldRepositoryCountConstant        = "repository_count"
	logFieldReferenceConstant              = "reference"
	logFieldReferenceKindConstant          = "reference_kind"
	logFieldSourceHeadConstant             = "source_head"
)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor          shared.GitExecutor
	FileSystem           shared.FileSystem
	RepositoryDiscoverer shared.RepositoryDiscoverer
	RepositoryInspector  shared.RepositoryInspector
	Reporter             shared.Reporter
	Logger               *zap.Logger
}

// Options configure a join run.
type Options struct {
	RootPath     string
	TargetSuffix string
	BranchName   string
	DryRun       bool
}

// RepositoryPlan pairs a discovered repository with the alias it will be joined under.
type RepositoryPlan struct {
	Path  shared.RepositoryPath
	Alias shared.RepositoryAlias
}

// MergedRepository describes a repository that was joined.
type MergedRepository struct {
	Alias      string
	Path       string
	Reference  string
	SourceHead string
}

// Result captures the outcome of a join run.
type Result struct {
	TargetPath   string
	DryRun       bool
	Planned      []RepositoryPlan
	Repositories []MergedRepository
	Excluded     []string
}

// Service joins discovered repositories into one repository.
type Service struct {
	executor    shared.GitExecutor
	fileSystem  shared.FileSystem
	discoverer  shared.RepositoryDiscoverer
	inspector   shared.RepositoryInspector
	reporter    shared.Reporter
	logger      *zap.Logger
	initializer *TargetInitializer
	relocator   *ContentRelocator
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}

	initializer, initializerError := NewTargetInitializer(dependencies.FileSystem, dependencies.GitExecutor, logger)
	if initializerError != nil {
		return nil, initializerError
	}
	relocator, relocatorError := NewContentRelocator(dependencies.FileSystem, dependencies.GitExecutor, logger)
	if relocatorError != nil {
		return nil, relocatorError
	}

	return &Service{
		executor:    dependencies.GitExecutor,
		fileSystem:  dependencies.FileSystem,
		discoverer:  repositorydependencies.ResolveRepositoryDiscoverer(dependencies.RepositoryDiscoverer),
		inspector:   dependencies.RepositoryInspector,
		reporter:    reporter,
		logger:      logger,
		initializer: initializer,
		relocator:   relocator,
	}, nil
}

// Join merges every repository beneath options.RootPath into a new repository at the root path
// followed by the target suffix. Repositories are processed sequentially in path order and the
// first failure stops the run without undoing earlier work.
func (service *Service) Join(executionContext context.Context, options Options) (Result, error) {
	trimmedRootPath := strings.TrimSpace(options.RootPath)
	if len(trimmedRootPath) == 0 {
		return Result{}, ErrRootPathRequired
	}

	rootPath, absoluteError := service.fileSystem.Abs(filepath.Clean(trimmedRootPath))
	if absoluteError != nil {
		return Result{}, fmt.Errorf(resolveRootErrorTemplateConstant, trimmedRootPath, absoluteError)
	}

	suffix := strings.TrimSpace(options.TargetSuffix)
	if len(suffix) == 0 {
		suffix = defaultTargetSuffixConstant
	}
	targetPath := rootPath + suffix

	repositoryPaths, discoveryError := service.discoverer.DiscoverRepositories([]string{rootPath})
	if discoveryError != nil {
		return Result{}, fmt.Errorf(discoveryErrorTemplateConstant, discoveryError)
	}

	plans, planError := buildPlans(rootPath, repositoryPaths)
	if planError != nil {
		return Result{}, fmt.Errorf(planErrorTemplateConstant, planError)
	}

	if options.DryRun {
		for _, plan := range plans {
			service.reporter.Printf(planLineTemplateConstant, plan.Alias.String(), plan.Path.String())
		}
		return Result{TargetPath: targetPath, DryRun: true, Planned: plans, Repositories: []MergedRepository{}, Excluded: []string{}}, nil
	}

	branchResolver, resolverError := NewBranchResolver(service.executor, service.logger, options.BranchName)
	if resolverError != nil {
		return Result{}, resolverError
	}

	service.logger.Info(
		joinStartedMessageConstant,
		zap.String(logFieldRootPathConstant, rootPath),
		zap.String(logFieldTargetPathConstant, targetPath),
		zap.Int(logFieldRepositoryCountConstant, len(plans)),
	)

	if initializeError := service.initializer.Initialize(executionContext, targetPath); initializeError != nil {
		return Result{}, fmt.Errorf(initializeTargetErrorTemplateConstant, initializeError)
	}

	exclusions := NewExclusionSet()
	result := Result{TargetPath: targetPath, Planned: plans, Repositories: make([]MergedRepository, 0, len(plans))}
	for _, plan := range plans {
		mergedRepository, mergeError := service.mergeRepository(executionContext, targetPath, plan, branchResolver, exclusions)
		if mergeError != nil {
			result.Excluded = exclusions.Values()
			return result, fmt.Errorf(mergeRepositoriesErrorTemplateConstant, plan.Alias.String(), mergeError)
		}
		result.Repositories = append(result.Repositories, mergedRepository)
	}

	result.Excluded = exclusions.Values()
	return result, nil
}

func (service *Service) mergeRepository(executionContext context.Context, targetPath string, plan RepositoryPlan, branchResolver BranchResolver, exclusions *ExclusionSet) (MergedRepository, error) {
	alias := plan.Alias.String()
	repositoryPath := plan.Path.String()

	resolution, resolveError := branchResolver.Resolve(executionContext, repositoryPath)
	if resolveError != nil {
		return MergedRepository{}, fmt.Errorf(resolveBranchErrorTemplateConstant, resolveError)
	}

	sourceHead := service.describeSourceHead(repositoryPath)

	if addError := service.runTargetGit(executionContext, targetPath, gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, alias, repositoryPath); addError != nil {
		return MergedRepository{}, fmt.Errorf(addRemoteErrorTemplateConstant, alias, addError)
	}

	if fetchError := service.runTargetGit(executionContext, targetPath, gitFetchSubcommandConstant, alias); fetchError != nil {
		return MergedRepository{}, fmt.Errorf(fetchRemoteErrorTemplateConstant, alias, fetchError)
	}

	mergeReference := fmt.Sprintf(mergeReferenceTemplateConstant, alias, resolution.Reference)
	if mergeError := service.runTargetGit(executionContext, targetPath, gitMergeSubcommandConstant, mergeReference, gitAllowUnrelatedHistoriesFlagConstant); mergeError != nil {
		return MergedRepository{}, fmt.Errorf(mergeReferenceErrorTemplateConstant, mergeReference, mergeError)
	}

	if relocateError := service.relocator.Relocate(executionContext, targetPath, alias, exclusions); relocateError != nil {
		return MergedRepository{}, fmt.Errorf(relocateErrorTemplateConstant, relocateError)
	}

	exclusions.Add(plan.Alias.FirstSegment())

	service.logger.Info(
		repositoryMergedMessageConstant,
		zap.String(logFieldAliasConstant, alias),
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldReferenceConstant, resolution.Reference),
		zap.String(logFieldReferenceKindConstant, string(resolution.Kind)),
		zap.String(logFieldSourceHeadConstant, sourceHead),
	)
	service.reporter.Printf(mergedLineTemplateConstant, alias, repositoryPath, resolution.Reference)

	return MergedRepository{Alias: alias, Path: repositoryPath, Reference: resolution.Reference, SourceHead: sourceHead}, nil
}

func (service *Service) describeSourceHead(repositoryPath string) string {
	if service.inspector == nil {
		return ""
	}
	description, inspectError := service.inspector.DescribeHead(repositoryPath)
	if inspectError != nil {
		service.logger.Warn(
			sourceHeadUnavailableMessageConstant,
			zap.String(logFieldRepositoryPathConstant, repositoryPath),
			zap.Error(inspectError),
		)
		return ""
	}
	return description.String()
}

func (service *Service) runTargetGit(executionContext context.Context, targetPath string, arguments ...string) error {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     targetPath,
		EnvironmentVariables: nonInteractiveEnvironment(),
	})
	return executionError
}

func buildPlans(rootPath string, repositoryPaths []string) ([]RepositoryPlan, error) {
	plans := make([]RepositoryPlan, 0, len(repositoryPaths))
	pathsByAlias := make(map[string]string, len(repositoryPaths))

	for _, candidatePath := range repositoryPaths {
		repositoryPath, pathError := shared.NewRepositoryPath(candidatePath)
		if pathError != nil {
			return nil, pathError
		}

		alias, aliasError := shared.NewRepositoryAlias(rootPath, repositoryPath)
		if aliasError != nil {
			return nil, aliasError
		}

		if existingPath, duplicate := pathsByAlias[alias.String()]; duplicate {
			return nil, fmt.Errorf(duplicateAliasTemplateConstant, ErrDuplicateAlias, alias.String(), existingPath, repositoryPath.String())
		}
		pathsByAlias[alias.String()] = repositoryPath.String()

		plans = append(plans, RepositoryPlan{Path: repositoryPath, Alias: alias})
	}

	return plans, nil
}
