package svnrepo_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/migv/internal/execshell"
	"github.com/temirov/migv/internal/svnrepo"
)

const (
	testRepositoryPathConstant            = "/var/svn/sample"
	testTrunkNameConstant                 = "trunk"
	testDestinationPathConstant           = "/tmp/scratch/sample-trunk"
	testYoungestPlainCaseNameConstant     = "plain_number"
	testYoungestPaddedCaseNameConstant    = "padded_number"
	testYoungestGarbageCaseNameConstant   = "garbage_output"
	testYoungestCommandFailedCaseConstant = "command_failure"
)

type scriptedSubversionExecutor struct {
	subversionResult      execshell.ExecutionResult
	subversionError       error
	subversionAdminError  error
	subversionLookResult  execshell.ExecutionResult
	subversionLookError   error
	recordedSubversion    []execshell.CommandDetails
	recordedAdmin         []execshell.CommandDetails
	recordedLookInvokings []execshell.CommandDetails
}

func (executor *scriptedSubversionExecutor) ExecuteSubversion(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedSubversion = append(executor.recordedSubversion, details)
	return executor.subversionResult, executor.subversionError
}

func (executor *scriptedSubversionExecutor) ExecuteSubversionAdmin(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedAdmin = append(executor.recordedAdmin, details)
	return execshell.ExecutionResult{}, executor.subversionAdminError
}

func (executor *scriptedSubversionExecutor) ExecuteSubversionLook(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedLookInvokings = append(executor.recordedLookInvokings, details)
	return executor.subversionLookResult, executor.subversionLookError
}

func TestNewInspectorRequiresExecutor(testInstance *testing.T) {
	inspector, creationError := svnrepo.NewInspector(nil)
	require.Nil(testInstance, inspector)
	require.ErrorIs(testInstance, creationError, svnrepo.ErrExecutorNotConfigured)
}

func TestInspectorVerifyBuildsExpectedCommand(testInstance *testing.T) {
	executor := &scriptedSubversionExecutor{}
	inspector, creationError := svnrepo.NewInspector(executor)
	require.NoError(testInstance, creationError)

	verificationError := inspector.Verify(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, verificationError)
	require.Len(testInstance, executor.recordedAdmin, 1)
	require.Equal(testInstance, []string{"verify", "--quiet", testRepositoryPathConstant}, executor.recordedAdmin[0].Arguments)
}

func TestInspectorVerifyWrapsFailures(testInstance *testing.T) {
	executor := &scriptedSubversionExecutor{
		subversionAdminError: execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandSubversionAdmin},
			Result:  execshell.ExecutionResult{ExitCode: 1, StandardError: "svnadmin: E160004: corrupt node"},
		},
	}
	inspector, creationError := svnrepo.NewInspector(executor)
	require.NoError(testInstance, creationError)

	verificationError := inspector.Verify(context.Background(), testRepositoryPathConstant)
	require.Error(testInstance, verificationError)
	require.Contains(testInstance, verificationError.Error(), testRepositoryPathConstant)
}

func TestInspectorYoungestRevision(testInstance *testing.T) {
	testCases := []struct {
		name             string
		lookOutput       string
		lookError        error
		expectedRevision int
		expectError      bool
	}{
		{
			name:             testYoungestPlainCaseNameConstant,
			lookOutput:       "42\n",
			expectedRevision: 42,
		},
		{
			name:             testYoungestPaddedCaseNameConstant,
			lookOutput:       "  107  \n",
			expectedRevision: 107,
		},
		{
			name:        testYoungestGarbageCaseNameConstant,
			lookOutput:  "not-a-number\n",
			expectError: true,
		},
		{
			name:        testYoungestCommandFailedCaseConstant,
			lookError:   fmt.Errorf("svnlook unavailable"),
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedSubversionExecutor{
				subversionLookResult: execshell.ExecutionResult{StandardOutput: testCase.lookOutput},
				subversionLookError:  testCase.lookError,
			}
			inspector, creationError := svnrepo.NewInspector(executor)
			require.NoError(testInstance, creationError)

			revisionNumber, revisionError := inspector.YoungestRevision(context.Background(), testRepositoryPathConstant)
			if testCase.expectError {
				require.Error(testInstance, revisionError)
				require.Zero(testInstance, revisionNumber)
				return
			}

			require.NoError(testInstance, revisionError)
			require.Equal(testInstance, testCase.expectedRevision, revisionNumber)
			require.Len(testInstance, executor.recordedLookInvokings, 1)
			require.Equal(testInstance, []string{"youngest", testRepositoryPathConstant}, executor.recordedLookInvokings[0].Arguments)
		})
	}
}

func TestInspectorCheckoutTrunkBuildsFileURL(testInstance *testing.T) {
	executor := &scriptedSubversionExecutor{}
	inspector, creationError := svnrepo.NewInspector(executor)
	require.NoError(testInstance, creationError)

	checkoutError := inspector.CheckoutTrunk(context.Background(), testRepositoryPathConstant, testTrunkNameConstant, testDestinationPathConstant)
	require.NoError(testInstance, checkoutError)
	require.Len(testInstance, executor.recordedSubversion, 1)

	absoluteRepositoryPath, absoluteError := filepath.Abs(testRepositoryPathConstant)
	require.NoError(testInstance, absoluteError)
	expectedTrunkURL := "file://" + filepath.ToSlash(absoluteRepositoryPath) + "/" + testTrunkNameConstant
	require.Equal(testInstance, []string{"checkout", "--non-interactive", "--quiet", expectedTrunkURL, testDestinationPathConstant}, executor.recordedSubversion[0].Arguments)
}
