package verify_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/migv/internal/verify"
)

const (
	serviceTestRepositoryNameConstant     = "sample"
	serviceTestMarkerFileNameConstant     = "README.md"
	serviceTestExpectedOwnerConstant      = "git"
	serviceTestMismatchedOwnerConstant    = "root"
	serviceTestGitMetadataDirConstant     = ".git"
	serviceTestSvnMetadataDirConstant     = ".svn"
	serviceTestServerEnabledConstant      = "true"
	serviceTestExpectedCheckCountConstant = 12
	serviceTestReportFileNameConstant     = "report.yaml"
)

type stubRepositoryLister struct {
	repositoryNames []string
	listError       error
}

func (lister stubRepositoryLister) ListRepositories(string) ([]string, error) {
	if lister.listError != nil {
		return nil, lister.listError
	}
	return lister.repositoryNames, nil
}

type stubSourceInspector struct {
	verifyError   error
	revisionCount int
	revisionError error
	checkoutError error
	checkoutFiles int
}

func (inspector stubSourceInspector) Verify(context.Context, string) error {
	return inspector.verifyError
}

func (inspector stubSourceInspector) YoungestRevision(context.Context, string) (int, error) {
	if inspector.revisionError != nil {
		return 0, inspector.revisionError
	}
	return inspector.revisionCount, nil
}

func (inspector stubSourceInspector) CheckoutTrunk(_ context.Context, _ string, _ string, destinationPath string) error {
	if inspector.checkoutError != nil {
		return inspector.checkoutError
	}
	return populateWorkingTree(destinationPath, inspector.checkoutFiles, serviceTestSvnMetadataDirConstant)
}

type stubTargetInspector struct {
	repositoryError error
	commitCount     int
	commitError     error
	branchNames     []string
	branchError     error
	serverValue     string
	serverError     error
	cloneError      error
	cloneFiles      int
}

func (inspector stubTargetInspector) IsRepository(string) error {
	return inspector.repositoryError
}

func (inspector stubTargetInspector) CountCommits(string) (int, error) {
	if inspector.commitError != nil {
		return 0, inspector.commitError
	}
	return inspector.commitCount, nil
}

func (inspector stubTargetInspector) ListLocalBranches(string) ([]string, error) {
	if inspector.branchError != nil {
		return nil, inspector.branchError
	}
	return inspector.branchNames, nil
}

func (inspector stubTargetInspector) ServerConfigValue(string, string) (string, error) {
	if inspector.serverError != nil {
		return "", inspector.serverError
	}
	return inspector.serverValue, nil
}

func (inspector stubTargetInspector) Clone(_ context.Context, _ string, destinationPath string) error {
	if inspector.cloneError != nil {
		return inspector.cloneError
	}
	return populateWorkingTree(destinationPath, inspector.cloneFiles, serviceTestGitMetadataDirConstant)
}

type stubOwnershipInspector struct {
	ownerAccount   string
	ownershipError error
}

func (inspector stubOwnershipInspector) Owner(string) (string, error) {
	if inspector.ownershipError != nil {
		return "", inspector.ownershipError
	}
	return inspector.ownerAccount, nil
}

// populateWorkingTree lays out a scratch working tree with the requested number
// of regular files plus an excluded metadata directory. The first regular file
// is the marker file.
func populateWorkingTree(rootPath string, regularFileCount int, metadataDirectoryName string) error {
	metadataPath := filepath.Join(rootPath, metadataDirectoryName)
	if directoryError := os.MkdirAll(metadataPath, 0o755); directoryError != nil {
		return directoryError
	}
	if writeError := os.WriteFile(filepath.Join(metadataPath, "metadata"), []byte("metadata"), 0o644); writeError != nil {
		return writeError
	}
	for fileIndex := 0; fileIndex < regularFileCount; fileIndex++ {
		fileName := serviceTestMarkerFileNameConstant
		if fileIndex > 0 {
			fileName = fmt.Sprintf("file-%02d.txt", fileIndex)
		}
		if writeError := os.WriteFile(filepath.Join(rootPath, fileName), []byte("content"), 0o644); writeError != nil {
			return writeError
		}
	}
	return nil
}

type serviceTestFixture struct {
	sourceRoot         string
	targetRoot         string
	workspaceBase      string
	reportPath         string
	outputBuffer       *bytes.Buffer
	repositoryLister   verify.RepositoryLister
	sourceInspector    verify.SourceInspector
	targetInspector    verify.TargetInspector
	ownershipInspector verify.OwnershipInspector
}

func newServiceTestFixture(testInstance *testing.T, repositoryNames []string) *serviceTestFixture {
	fixture := &serviceTestFixture{
		sourceRoot:    testInstance.TempDir(),
		targetRoot:    testInstance.TempDir(),
		workspaceBase: testInstance.TempDir(),
		outputBuffer:  &bytes.Buffer{},
	}
	fixture.reportPath = filepath.Join(testInstance.TempDir(), serviceTestReportFileNameConstant)
	fixture.repositoryLister = stubRepositoryLister{repositoryNames: repositoryNames}

	for _, repositoryName := range repositoryNames {
		require.NoError(testInstance, os.Mkdir(filepath.Join(fixture.sourceRoot, repositoryName), 0o755))
		require.NoError(testInstance, os.Mkdir(filepath.Join(fixture.targetRoot, repositoryName+serviceTestGitMetadataDirConstant), 0o755))
	}

	return fixture
}

func (fixture *serviceTestFixture) buildService(testInstance *testing.T) *verify.Service {
	service, serviceError := verify.NewService(verify.ServiceDependencies{
		Logger:                 zap.NewNop(),
		RepositoryLister:       fixture.repositoryLister,
		SourceInspector:        fixture.sourceInspector,
		TargetInspector:        fixture.targetInspector,
		OwnershipInspector:     fixture.ownershipInspector,
		OutputWriter:           fixture.outputBuffer,
		WorkspaceBaseDirectory: fixture.workspaceBase,
	})
	require.NoError(testInstance, serviceError)
	return service
}

func (fixture *serviceTestFixture) buildRunOptions() verify.RunOptions {
	configuration := verify.DefaultCommandConfiguration()
	configuration.SourceRoot = fixture.sourceRoot
	configuration.TargetRoot = fixture.targetRoot
	configuration.ReportPath = fixture.reportPath
	return verify.RunOptionsFromConfiguration(configuration)
}

func (fixture *serviceTestFixture) readRunReport(testInstance *testing.T) verify.RunReport {
	reportContent, readError := os.ReadFile(fixture.reportPath)
	require.NoError(testInstance, readError)

	runReport := verify.RunReport{}
	require.NoError(testInstance, yaml.Unmarshal(reportContent, &runReport))
	return runReport
}

func checkStatusesByName(testInstance *testing.T, runReport verify.RunReport, repositoryName string) map[string]string {
	for _, repositoryReport := range runReport.Repositories {
		if repositoryReport.Name != repositoryName {
			continue
		}
		statuses := map[string]string{}
		for _, checkReport := range repositoryReport.Checks {
			statuses[checkReport.Name] = checkReport.Status
		}
		return statuses
	}
	testInstance.Fatalf("repository %s not present in report", repositoryName)
	return nil
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	completeDependencies := func() verify.ServiceDependencies {
		return verify.ServiceDependencies{
			RepositoryLister:   stubRepositoryLister{},
			SourceInspector:    stubSourceInspector{},
			TargetInspector:    stubTargetInspector{},
			OwnershipInspector: stubOwnershipInspector{},
		}
	}

	testCases := []struct {
		name          string
		mutate        func(dependencies *verify.ServiceDependencies)
		expectedError error
	}{
		{
			name:          "missing_repository_lister",
			mutate:        func(dependencies *verify.ServiceDependencies) { dependencies.RepositoryLister = nil },
			expectedError: verify.ErrRepositoryListerMissing,
		},
		{
			name:          "missing_source_inspector",
			mutate:        func(dependencies *verify.ServiceDependencies) { dependencies.SourceInspector = nil },
			expectedError: verify.ErrSourceInspectorMissing,
		},
		{
			name:          "missing_target_inspector",
			mutate:        func(dependencies *verify.ServiceDependencies) { dependencies.TargetInspector = nil },
			expectedError: verify.ErrTargetInspectorMissing,
		},
		{
			name:          "missing_ownership_inspector",
			mutate:        func(dependencies *verify.ServiceDependencies) { dependencies.OwnershipInspector = nil },
			expectedError: verify.ErrOwnershipInspectorMissing,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			dependencies := completeDependencies()
			testCase.mutate(&dependencies)

			service, constructionError := verify.NewService(dependencies)
			require.Nil(testInstance, service)
			require.ErrorIs(testInstance, constructionError, testCase.expectedError)
		})
	}
}

func TestServiceRunScenarios(testInstance *testing.T) {
	healthySourceInspector := stubSourceInspector{revisionCount: 10, checkoutFiles: 5}
	healthyTargetInspector := stubTargetInspector{
		commitCount: 12,
		cloneFiles:  5,
		branchNames: []string{"master"},
		serverValue: serviceTestServerEnabledConstant,
	}

	testCases := []struct {
		name             string
		sourceInspector  stubSourceInspector
		targetInspector  stubTargetInspector
		ownerAccount     string
		expectedFailed   int
		expectedStatuses map[string]string
	}{
		{
			name:            "all_checks_pass",
			sourceInspector: healthySourceInspector,
			targetInspector: healthyTargetInspector,
			ownerAccount:    serviceTestExpectedOwnerConstant,
			expectedFailed:  0,
			expectedStatuses: map[string]string{
				"migration completeness": "PASS",
				"content parity":         "PASS",
				"target marker file":     "PASS",
				"source marker file":     "PASS",
				"local branches":         "PASS",
				"server write access":    "PASS",
			},
		},
		{
			name:            "missing_history_fails_completeness",
			sourceInspector: healthySourceInspector,
			targetInspector: func() stubTargetInspector {
				inspector := healthyTargetInspector
				inspector.commitCount = 9
				return inspector
			}(),
			ownerAccount:   serviceTestExpectedOwnerConstant,
			expectedFailed: 1,
			expectedStatuses: map[string]string{
				"migration completeness": "FAIL",
			},
		},
		{
			name:            "equal_counts_pass_completeness",
			sourceInspector: healthySourceInspector,
			targetInspector: func() stubTargetInspector {
				inspector := healthyTargetInspector
				inspector.commitCount = 10
				return inspector
			}(),
			ownerAccount:   serviceTestExpectedOwnerConstant,
			expectedFailed: 0,
			expectedStatuses: map[string]string{
				"migration completeness": "PASS",
			},
		},
		{
			name: "empty_histories_pass_completeness",
			sourceInspector: func() stubSourceInspector {
				inspector := healthySourceInspector
				inspector.revisionCount = 0
				return inspector
			}(),
			targetInspector: func() stubTargetInspector {
				inspector := healthyTargetInspector
				inspector.commitCount = 0
				return inspector
			}(),
			ownerAccount:   serviceTestExpectedOwnerConstant,
			expectedFailed: 0,
			expectedStatuses: map[string]string{
				"migration completeness": "PASS",
			},
		},
		{
			name: "revision_query_failure_defaults_to_zero",
			sourceInspector: func() stubSourceInspector {
				inspector := healthySourceInspector
				inspector.revisionError = errors.New("svnlook: repository format unreadable")
				return inspector
			}(),
			targetInspector: healthyTargetInspector,
			ownerAccount:    serviceTestExpectedOwnerConstant,
			expectedFailed:  0,
			expectedStatuses: map[string]string{
				"migration completeness": "PASS",
			},
		},
		{
			name: "broken_checkout_fails_parity_and_source_marker",
			sourceInspector: func() stubSourceInspector {
				inspector := healthySourceInspector
				inspector.checkoutError = errors.New("svn: E170013: unable to connect")
				return inspector
			}(),
			targetInspector: healthyTargetInspector,
			ownerAccount:    serviceTestExpectedOwnerConstant,
			expectedFailed:  2,
			expectedStatuses: map[string]string{
				"content parity":     "FAIL",
				"source marker file": "FAIL",
				"target marker file": "PASS",
			},
		},
		{
			name:            "file_count_drift_warns_without_failing",
			sourceInspector: healthySourceInspector,
			targetInspector: func() stubTargetInspector {
				inspector := healthyTargetInspector
				inspector.cloneFiles = 7
				return inspector
			}(),
			ownerAccount:   serviceTestExpectedOwnerConstant,
			expectedFailed: 0,
			expectedStatuses: map[string]string{
				"content parity": "WARN",
			},
		},
		{
			name:            "unset_server_configuration_fails",
			sourceInspector: healthySourceInspector,
			targetInspector: func() stubTargetInspector {
				inspector := healthyTargetInspector
				inspector.serverValue = ""
				return inspector
			}(),
			ownerAccount:   serviceTestExpectedOwnerConstant,
			expectedFailed: 1,
			expectedStatuses: map[string]string{
				"server write access": "FAIL",
			},
		},
		{
			name:            "missing_branches_warn_without_failing",
			sourceInspector: healthySourceInspector,
			targetInspector: func() stubTargetInspector {
				inspector := healthyTargetInspector
				inspector.branchNames = nil
				return inspector
			}(),
			ownerAccount:   serviceTestExpectedOwnerConstant,
			expectedFailed: 0,
			expectedStatuses: map[string]string{
				"local branches": "WARN",
			},
		},
		{
			name:             "owner_mismatch_fails_both_ownership_checks",
			sourceInspector:  healthySourceInspector,
			targetInspector:  healthyTargetInspector,
			ownerAccount:     serviceTestMismatchedOwnerConstant,
			expectedFailed:   2,
			expectedStatuses: map[string]string{"source ownership": "FAIL", "target ownership": "FAIL"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newServiceTestFixture(testInstance, []string{serviceTestRepositoryNameConstant})
			fixture.sourceInspector = testCase.sourceInspector
			fixture.targetInspector = testCase.targetInspector
			fixture.ownershipInspector = stubOwnershipInspector{ownerAccount: testCase.ownerAccount}

			service := fixture.buildService(testInstance)
			totals, runError := service.Run(context.Background(), fixture.buildRunOptions())

			require.Equal(testInstance, serviceTestExpectedCheckCountConstant, totals.Total)
			require.Equal(testInstance, totals.Total, totals.Passed+totals.Failed)
			require.Equal(testInstance, testCase.expectedFailed, totals.Failed)

			if testCase.expectedFailed > 0 {
				require.ErrorIs(testInstance, runError, verify.ErrValidationFailed)
			} else {
				require.NoError(testInstance, runError)
			}

			runReport := fixture.readRunReport(testInstance)
			require.Equal(testInstance, totals.Total, runReport.Totals.Total)
			require.Equal(testInstance, totals.Failed, runReport.Totals.Failed)

			recordedStatuses := checkStatusesByName(testInstance, runReport, serviceTestRepositoryNameConstant)
			require.Len(testInstance, recordedStatuses, serviceTestExpectedCheckCountConstant)
			for checkName, expectedStatus := range testCase.expectedStatuses {
				require.Equal(testInstance, expectedStatus, recordedStatuses[checkName], "check %q", checkName)
			}
		})
	}
}

func TestServiceRunPropagatesDiscoveryFailure(testInstance *testing.T) {
	fixture := newServiceTestFixture(testInstance, nil)
	discoveryFailure := errors.New("source root unreadable")
	fixture.repositoryLister = stubRepositoryLister{listError: discoveryFailure}
	fixture.sourceInspector = stubSourceInspector{}
	fixture.targetInspector = stubTargetInspector{}
	fixture.ownershipInspector = stubOwnershipInspector{ownerAccount: serviceTestExpectedOwnerConstant}

	service := fixture.buildService(testInstance)
	totals, runError := service.Run(context.Background(), fixture.buildRunOptions())

	require.ErrorIs(testInstance, runError, discoveryFailure)
	require.Zero(testInstance, totals.Total)
}

func TestServiceRunRequiresDiscoveredRepositories(testInstance *testing.T) {
	fixture := newServiceTestFixture(testInstance, nil)
	fixture.sourceInspector = stubSourceInspector{}
	fixture.targetInspector = stubTargetInspector{}
	fixture.ownershipInspector = stubOwnershipInspector{ownerAccount: serviceTestExpectedOwnerConstant}

	service := fixture.buildService(testInstance)
	totals, runError := service.Run(context.Background(), fixture.buildRunOptions())

	require.ErrorIs(testInstance, runError, verify.ErrNoRepositoriesDiscovered)
	require.Zero(testInstance, totals.Total)
}

func TestServiceRunReleasesScratchWorkspace(testInstance *testing.T) {
	fixture := newServiceTestFixture(testInstance, []string{serviceTestRepositoryNameConstant})
	fixture.sourceInspector = stubSourceInspector{revisionCount: 1, checkoutFiles: 1}
	fixture.targetInspector = stubTargetInspector{
		commitCount: 1,
		cloneFiles:  1,
		branchNames: []string{"master"},
		serverValue: serviceTestServerEnabledConstant,
	}
	fixture.ownershipInspector = stubOwnershipInspector{ownerAccount: serviceTestExpectedOwnerConstant}

	service := fixture.buildService(testInstance)
	_, runError := service.Run(context.Background(), fixture.buildRunOptions())
	require.NoError(testInstance, runError)

	remainingEntries, readError := os.ReadDir(fixture.workspaceBase)
	require.NoError(testInstance, readError)
	require.Empty(testInstance, remainingEntries)
}

func TestServiceRunPrintsSummaryAndFailureBanner(testInstance *testing.T) {
	fixture := newServiceTestFixture(testInstance, []string{serviceTestRepositoryNameConstant})
	fixture.sourceInspector = stubSourceInspector{revisionCount: 10, checkoutFiles: 2}
	fixture.targetInspector = stubTargetInspector{
		commitCount: 4,
		cloneFiles:  2,
		branchNames: []string{"master"},
		serverValue: serviceTestServerEnabledConstant,
	}
	fixture.ownershipInspector = stubOwnershipInspector{ownerAccount: serviceTestExpectedOwnerConstant}

	service := fixture.buildService(testInstance)
	_, runError := service.Run(context.Background(), fixture.buildRunOptions())
	require.ErrorIs(testInstance, runError, verify.ErrValidationFailed)

	renderedOutput := fixture.outputBuffer.String()
	require.Contains(testInstance, renderedOutput, "Discovered 1 repositories under "+fixture.sourceRoot)
	require.Contains(testInstance, renderedOutput, "Validating "+serviceTestRepositoryNameConstant)
	require.Contains(testInstance, renderedOutput, "Summary")
	require.Contains(testInstance, renderedOutput, "WARNING: one or more migration validation checks failed")
}
