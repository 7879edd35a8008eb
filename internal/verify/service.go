package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	checkNameSourceExistsConstant     = "source repository exists"
	checkNameSourceIntegrityConstant  = "source repository integrity"
	checkNameTargetExistsConstant     = "target repository exists"
	checkNameTargetValidityConstant   = "target repository validity"
	checkNameCompletenessConstant     = "migration completeness"
	checkNameContentParityConstant    = "content parity"
	checkNameTargetMarkerFileConstant = "target marker file"
	checkNameSourceMarkerFileConstant = "source marker file"
	checkNameLocalBranchesConstant    = "local branches"
	checkNameServerReadinessConstant  = "server write access"
	checkNameSourceOwnershipConstant  = "source ownership"
	checkNameTargetOwnershipConstant  = "target ownership"

	workspaceSideGitConstant                 = "git"
	workspaceSideSubversionConstant          = "svn"
	gitMetadataDirectoryNameConstant         = ".git"
	subversionMetadataDirectoryNameConstant  = ".svn"
	serverConfigEnabledValueConstant         = "true"
	serverConfigUnsetDisplayValueConstant    = "unset"
	branchListJoinSeparatorConstant          = ", "
	notADirectoryMessageTemplateConstant     = "%s is not a directory"
	notARegularFileMessageTemplateConstant   = "%s is not a regular file"
	completenessDetailTemplateConstant       = "target=%d source=%d"
	parityCloneFailureDetailTemplateConstant = "clone failed: %s"
	parityCheckoutFailureDetailTemplate      = "trunk checkout failed: %s"
	parityEqualDetailTemplateConstant        = "%d files on each side"
	parityMismatchDetailTemplateConstant     = "target=%d source=%d"
	branchesEmptyDetailConstant              = "no local branches found"
	serverConfigDetailTemplateConstant       = "%s=%s"
	ownershipDetailTemplateConstant          = "owned by %s"
	ownershipMismatchDetailTemplateConstant  = "owner=%s expected=%s"
	sourceRevisionsDisplayTemplateConstant   = "source revisions: %d"
	targetCommitsDisplayTemplateConstant     = "target commits: %d"
	branchNamesDisplayTemplateConstant       = "branches: %s"

	repositoryListerMissingMessageConstant   = "repository lister not configured"
	sourceInspectorMissingMessageConstant    = "source inspector not configured"
	targetInspectorMissingMessageConstant    = "target inspector not configured"
	ownershipInspectorMissingMessageConst    = "ownership inspector not configured"
	noRepositoriesMessageConstant            = "no repositories discovered under source root"
	validationFailedMessageConstant          = "one or more validation checks failed"
	workspaceReleaseWarningMessageConstant   = "scratch workspace release failed"
	revisionQueryFailedDebugMessageConstant  = "source revision query failed, defaulting to 0"
	commitCountQueryFailedDebugMessageConst  = "target commit count query failed, defaulting to 0"
	branchListFailedDebugMessageConstant     = "target branch listing failed, treating as empty"
	logFieldRepositoryConstant               = "repository"
	logFieldWorkspacePathConstant            = "workspace_path"
	noRepositoriesErrorTemplateConstant      = "%w: %s"
	repositoryValidationStartedDebugMessage  = "repository validation started"
	repositoryValidationFinishedDebugMessage = "repository validation finished"
)

// Sentinel errors reported by the validation service.
var (
	ErrRepositoryListerMissing   = errors.New(repositoryListerMissingMessageConstant)
	ErrSourceInspectorMissing    = errors.New(sourceInspectorMissingMessageConstant)
	ErrTargetInspectorMissing    = errors.New(targetInspectorMissingMessageConstant)
	ErrOwnershipInspectorMissing = errors.New(ownershipInspectorMissingMessageConst)
	ErrNoRepositoriesDiscovered  = errors.New(noRepositoriesMessageConstant)
	ErrValidationFailed          = errors.New(validationFailedMessageConstant)
)

// ServiceDependencies describes the collaborators required by the validator runner.
type ServiceDependencies struct {
	Logger                 *zap.Logger
	RepositoryLister       RepositoryLister
	SourceInspector        SourceInspector
	TargetInspector        TargetInspector
	OwnershipInspector     OwnershipInspector
	OutputWriter           io.Writer
	Clock                  Clock
	WorkspaceBaseDirectory string
}

// Service runs the fixed validation battery against every discovered repository pair.
type Service struct {
	logger                 *zap.Logger
	repositoryLister       RepositoryLister
	sourceInspector        SourceInspector
	targetInspector        TargetInspector
	ownershipInspector     OwnershipInspector
	reporter               *ConsoleReporter
	clock                  Clock
	workspaceBaseDirectory string
}

// NewService constructs a Service validating its dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RepositoryLister == nil {
		return nil, ErrRepositoryListerMissing
	}
	if dependencies.SourceInspector == nil {
		return nil, ErrSourceInspectorMissing
	}
	if dependencies.TargetInspector == nil {
		return nil, ErrTargetInspectorMissing
	}
	if dependencies.OwnershipInspector == nil {
		return nil, ErrOwnershipInspectorMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	service := &Service{
		logger:                 logger,
		repositoryLister:       dependencies.RepositoryLister,
		sourceInspector:        dependencies.SourceInspector,
		targetInspector:        dependencies.TargetInspector,
		ownershipInspector:     dependencies.OwnershipInspector,
		reporter:               NewConsoleReporter(dependencies.OutputWriter),
		clock:                  clock,
		workspaceBaseDirectory: dependencies.WorkspaceBaseDirectory,
	}

	return service, nil
}

// Run discovers repository pairs, executes the validation battery for each,
// prints the aggregate summary, and reports ErrValidationFailed when any hard
// check failed.
func (service *Service) Run(executionContext context.Context, options RunOptions) (RunTotals, error) {
	repositoryNames, discoveryError := service.repositoryLister.ListRepositories(options.SourceRoot)
	if discoveryError != nil {
		return RunTotals{}, discoveryError
	}
	if len(repositoryNames) == 0 {
		return RunTotals{}, fmt.Errorf(noRepositoriesErrorTemplateConstant, ErrNoRepositoriesDiscovered, options.SourceRoot)
	}

	service.reporter.DiscoveredRepositories(options.SourceRoot, repositoryNames)

	workspace, workspaceError := AcquireScratchWorkspace(service.workspaceBaseDirectory)
	if workspaceError != nil {
		return RunTotals{}, workspaceError
	}
	defer func() {
		if releaseError := workspace.Release(); releaseError != nil {
			service.logger.Warn(
				workspaceReleaseWarningMessageConstant,
				zap.String(logFieldWorkspacePathConstant, workspace.RootPath()),
				zap.Error(releaseError),
			)
		}
	}()

	totals := RunTotals{}
	runReport := RunReport{
		GeneratedAt: service.clock.Now().UTC(),
		SourceRoot:  options.SourceRoot,
		TargetRoot:  options.TargetRoot,
	}

	for _, repositoryName := range repositoryNames {
		repositoryPair := NewRepositoryPair(repositoryName, options.SourceRoot, options.TargetRoot, options.TargetSuffix)
		service.logger.Debug(repositoryValidationStartedDebugMessage, zap.String(logFieldRepositoryConstant, repositoryPair.Name))

		service.reporter.RepositoryHeader(repositoryPair)
		checkResults := service.validateRepositoryPair(executionContext, repositoryPair, options, workspace, &totals)
		service.reporter.RepositorySeparator()

		runReport.Repositories = append(runReport.Repositories, buildRepositoryReport(repositoryPair, checkResults))
		service.logger.Debug(repositoryValidationFinishedDebugMessage, zap.String(logFieldRepositoryConstant, repositoryPair.Name))
	}

	service.reporter.Summary(totals)
	runReport.Totals = RunTotalsReport{Total: totals.Total, Passed: totals.Passed, Failed: totals.Failed}

	if len(options.ReportPath) > 0 {
		if reportError := WriteRunReport(options.ReportPath, runReport); reportError != nil {
			return totals, reportError
		}
	}

	if totals.Failed > 0 {
		return totals, ErrValidationFailed
	}
	return totals, nil
}

// pairValidation tracks the check results recorded while validating one repository pair.
type pairValidation struct {
	service *Service
	totals  *RunTotals
	results []CheckResult
}

func (validation *pairValidation) record(checkName string, status CheckStatus, detail string) {
	result := CheckResult{Name: checkName, Status: status, Detail: detail}
	validation.totals.Record(status)
	validation.service.reporter.CheckLine(result)
	validation.results = append(validation.results, result)
}

// runCheck executes the boolean check primitive: any error classifies as FAIL.
func (validation *pairValidation) runCheck(checkName string, action func() error) {
	if actionError := action(); actionError != nil {
		validation.record(checkName, CheckStatusFail, actionError.Error())
		return
	}
	validation.record(checkName, CheckStatusPass, "")
}

func (service *Service) validateRepositoryPair(executionContext context.Context, pair RepositoryPair, options RunOptions, workspace *ScratchWorkspace, totals *RunTotals) []CheckResult {
	validation := &pairValidation{service: service, totals: totals}

	validation.runCheck(checkNameSourceExistsConstant, func() error {
		return directoryExists(pair.SourcePath)
	})
	validation.runCheck(checkNameSourceIntegrityConstant, func() error {
		return service.sourceInspector.Verify(executionContext, pair.SourcePath)
	})
	validation.runCheck(checkNameTargetExistsConstant, func() error {
		return directoryExists(pair.TargetPath)
	})
	validation.runCheck(checkNameTargetValidityConstant, func() error {
		return service.targetInspector.IsRepository(pair.TargetPath)
	})

	sourceRevisionCount := service.querySourceRevisionCount(executionContext, pair)
	service.reporter.DisplayLine(sourceRevisionsDisplayTemplateConstant, sourceRevisionCount)

	targetCommitCount := service.queryTargetCommitCount(pair)
	service.reporter.DisplayLine(targetCommitsDisplayTemplateConstant, targetCommitCount)

	completenessDetail := fmt.Sprintf(completenessDetailTemplateConstant, targetCommitCount, sourceRevisionCount)
	if targetCommitCount >= sourceRevisionCount {
		validation.record(checkNameCompletenessConstant, CheckStatusPass, completenessDetail)
	} else {
		validation.record(checkNameCompletenessConstant, CheckStatusFail, completenessDetail)
	}

	cloneDirectory := workspace.RepositoryDirectory(pair.Name, workspaceSideGitConstant)
	checkoutDirectory := workspace.RepositoryDirectory(pair.Name, workspaceSideSubversionConstant)
	service.validateContentParity(executionContext, pair, options, validation, cloneDirectory, checkoutDirectory)

	validation.runCheck(checkNameTargetMarkerFileConstant, func() error {
		return regularFileExists(filepath.Join(cloneDirectory, options.MarkerFileName))
	})
	validation.runCheck(checkNameSourceMarkerFileConstant, func() error {
		return regularFileExists(filepath.Join(checkoutDirectory, options.MarkerFileName))
	})

	service.validateLocalBranches(pair, validation)
	service.validateServerReadiness(pair, options, validation)

	validation.runOwnershipCheck(checkNameSourceOwnershipConstant, pair.SourcePath, options.ExpectedOwner)
	validation.runOwnershipCheck(checkNameTargetOwnershipConstant, pair.TargetPath, options.ExpectedOwner)

	return validation.results
}

func (service *Service) querySourceRevisionCount(executionContext context.Context, pair RepositoryPair) int {
	revisionCount, revisionError := service.sourceInspector.YoungestRevision(executionContext, pair.SourcePath)
	if revisionError != nil {
		service.logger.Debug(
			revisionQueryFailedDebugMessageConstant,
			zap.String(logFieldRepositoryConstant, pair.Name),
			zap.Error(revisionError),
		)
		return 0
	}
	return revisionCount
}

func (service *Service) queryTargetCommitCount(pair RepositoryPair) int {
	commitCount, commitError := service.targetInspector.CountCommits(pair.TargetPath)
	if commitError != nil {
		service.logger.Debug(
			commitCountQueryFailedDebugMessageConst,
			zap.String(logFieldRepositoryConstant, pair.Name),
			zap.Error(commitError),
		)
		return 0
	}
	return commitCount
}

func (service *Service) validateContentParity(executionContext context.Context, pair RepositoryPair, options RunOptions, validation *pairValidation, cloneDirectory string, checkoutDirectory string) {
	cloneError := service.targetInspector.Clone(executionContext, pair.TargetPath, cloneDirectory)
	checkoutError := service.sourceInspector.CheckoutTrunk(executionContext, pair.SourcePath, options.TrunkName, checkoutDirectory)

	if cloneError != nil {
		validation.record(checkNameContentParityConstant, CheckStatusFail, fmt.Sprintf(parityCloneFailureDetailTemplateConstant, cloneError))
		return
	}
	if checkoutError != nil {
		validation.record(checkNameContentParityConstant, CheckStatusFail, fmt.Sprintf(parityCheckoutFailureDetailTemplate, checkoutError))
		return
	}

	cloneFileCount, cloneCountError := CountRegularFiles(cloneDirectory, gitMetadataDirectoryNameConstant)
	if cloneCountError != nil {
		validation.record(checkNameContentParityConstant, CheckStatusFail, cloneCountError.Error())
		return
	}
	checkoutFileCount, checkoutCountError := CountRegularFiles(checkoutDirectory, subversionMetadataDirectoryNameConstant)
	if checkoutCountError != nil {
		validation.record(checkNameContentParityConstant, CheckStatusFail, checkoutCountError.Error())
		return
	}

	if cloneFileCount == checkoutFileCount {
		validation.record(checkNameContentParityConstant, CheckStatusPass, fmt.Sprintf(parityEqualDetailTemplateConstant, cloneFileCount))
		return
	}
	validation.record(checkNameContentParityConstant, CheckStatusWarn, fmt.Sprintf(parityMismatchDetailTemplateConstant, cloneFileCount, checkoutFileCount))
}

func (service *Service) validateLocalBranches(pair RepositoryPair, validation *pairValidation) {
	branchNames, branchError := service.targetInspector.ListLocalBranches(pair.TargetPath)
	if branchError != nil {
		service.logger.Debug(
			branchListFailedDebugMessageConstant,
			zap.String(logFieldRepositoryConstant, pair.Name),
			zap.Error(branchError),
		)
		branchNames = nil
	}

	if len(branchNames) == 0 {
		validation.record(checkNameLocalBranchesConstant, CheckStatusWarn, branchesEmptyDetailConstant)
		return
	}

	service.reporter.DisplayLine(branchNamesDisplayTemplateConstant, strings.Join(branchNames, branchListJoinSeparatorConstant))
	validation.record(checkNameLocalBranchesConstant, CheckStatusPass, "")
}

func (service *Service) validateServerReadiness(pair RepositoryPair, options RunOptions, validation *pairValidation) {
	configuredValue, lookupError := service.targetInspector.ServerConfigValue(pair.TargetPath, options.ServerConfigKey)
	if lookupError != nil {
		validation.record(checkNameServerReadinessConstant, CheckStatusFail, lookupError.Error())
		return
	}

	if configuredValue == serverConfigEnabledValueConstant {
		validation.record(checkNameServerReadinessConstant, CheckStatusPass, fmt.Sprintf(serverConfigDetailTemplateConstant, options.ServerConfigKey, configuredValue))
		return
	}

	displayValue := configuredValue
	if len(displayValue) == 0 {
		displayValue = serverConfigUnsetDisplayValueConstant
	}
	validation.record(checkNameServerReadinessConstant, CheckStatusFail, fmt.Sprintf(serverConfigDetailTemplateConstant, options.ServerConfigKey, displayValue))
}

func (validation *pairValidation) runOwnershipCheck(checkName string, path string, expectedOwner string) {
	ownerAccount, ownershipError := validation.service.ownershipInspector.Owner(path)
	if ownershipError != nil {
		validation.record(checkName, CheckStatusFail, ownershipError.Error())
		return
	}
	if ownerAccount == expectedOwner {
		validation.record(checkName, CheckStatusPass, fmt.Sprintf(ownershipDetailTemplateConstant, ownerAccount))
		return
	}
	validation.record(checkName, CheckStatusFail, fmt.Sprintf(ownershipMismatchDetailTemplateConstant, ownerAccount, expectedOwner))
}

func buildRepositoryReport(pair RepositoryPair, results []CheckResult) RepositoryReport {
	repositoryReport := RepositoryReport{
		Name:       pair.Name,
		SourcePath: pair.SourcePath,
		TargetPath: pair.TargetPath,
	}
	for _, result := range results {
		repositoryReport.Checks = append(repositoryReport.Checks, CheckReport{
			Name:   result.Name,
			Status: string(result.Status),
			Detail: result.Detail,
		})
	}
	return repositoryReport
}

func directoryExists(path string) error {
	pathInformation, statError := os.Stat(path)
	if statError != nil {
		return statError
	}
	if !pathInformation.IsDir() {
		return fmt.Errorf(notADirectoryMessageTemplateConstant, path)
	}
	return nil
}

func regularFileExists(path string) error {
	pathInformation, statError := os.Stat(path)
	if statError != nil {
		return statError
	}
	if !pathInformation.Mode().IsRegular() {
		return fmt.Errorf(notARegularFileMessageTemplateConstant, path)
	}
	return nil
}
