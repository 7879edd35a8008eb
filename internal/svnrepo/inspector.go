package svnrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/temirov/migv/internal/execshell"
)

const (
	verifySubcommandNameConstant           = "verify"
	youngestSubcommandNameConstant         = "youngest"
	checkoutSubcommandNameConstant         = "checkout"
	nonInteractiveFlagConstant             = "--non-interactive"
	quietFlagConstant                      = "--quiet"
	fileURLSchemePrefixConstant            = "file://"
	repositoryURLPathSeparatorConstant     = "/"
	executorNotConfiguredMessageConstant   = "subversion executor not configured"
	youngestRevisionParseTemplateConstant  = "unable to parse youngest revision %q: %w"
	repositoryPathResolveTemplateConstant  = "unable to resolve repository path %s: %w"
	repositoryVerificationTemplateConstant = "repository verification failed for %s: %w"
	trunkCheckoutTemplateConstant          = "trunk checkout from %s failed: %w"
)

// ErrExecutorNotConfigured indicates the inspector was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// CommandExecutor exposes the Subversion toolchain invocations required by the inspector.
type CommandExecutor interface {
	ExecuteSubversion(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteSubversionAdmin(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteSubversionLook(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Inspector answers questions about on-disk Subversion repositories via the native toolchain.
type Inspector struct {
	executor CommandExecutor
}

// NewInspector constructs an Inspector validating its executor dependency.
func NewInspector(executor CommandExecutor) (*Inspector, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Inspector{executor: executor}, nil
}

// Verify runs svnadmin verify against the repository and reports integrity failures.
func (inspector *Inspector) Verify(executionContext context.Context, repositoryPath string) error {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{verifySubcommandNameConstant, quietFlagConstant, repositoryPath},
	}

	_, executionError := inspector.executor.ExecuteSubversionAdmin(executionContext, commandDetails)
	if executionError != nil {
		return fmt.Errorf(repositoryVerificationTemplateConstant, repositoryPath, executionError)
	}
	return nil
}

// YoungestRevision returns the highest committed revision number reported by svnlook youngest.
func (inspector *Inspector) YoungestRevision(executionContext context.Context, repositoryPath string) (int, error) {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{youngestSubcommandNameConstant, repositoryPath},
	}

	executionResult, executionError := inspector.executor.ExecuteSubversionLook(executionContext, commandDetails)
	if executionError != nil {
		return 0, executionError
	}

	trimmedOutput := strings.TrimSpace(executionResult.StandardOutput)
	revisionNumber, parseError := strconv.Atoi(trimmedOutput)
	if parseError != nil {
		return 0, fmt.Errorf(youngestRevisionParseTemplateConstant, trimmedOutput, parseError)
	}
	return revisionNumber, nil
}

// CheckoutTrunk materializes the repository trunk into the destination directory via svn checkout.
func (inspector *Inspector) CheckoutTrunk(executionContext context.Context, repositoryPath string, trunkName string, destinationPath string) error {
	trunkURL, urlError := inspector.buildTrunkURL(repositoryPath, trunkName)
	if urlError != nil {
		return urlError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{checkoutSubcommandNameConstant, nonInteractiveFlagConstant, quietFlagConstant, trunkURL, destinationPath},
	}

	_, executionError := inspector.executor.ExecuteSubversion(executionContext, commandDetails)
	if executionError != nil {
		return fmt.Errorf(trunkCheckoutTemplateConstant, trunkURL, executionError)
	}
	return nil
}

func (inspector *Inspector) buildTrunkURL(repositoryPath string, trunkName string) (string, error) {
	absoluteRepositoryPath, absoluteError := filepath.Abs(repositoryPath)
	if absoluteError != nil {
		return "", fmt.Errorf(repositoryPathResolveTemplateConstant, repositoryPath, absoluteError)
	}

	urlSegments := []string{fileURLSchemePrefixConstant + filepath.ToSlash(absoluteRepositoryPath)}
	trimmedTrunkName := strings.Trim(trunkName, repositoryURLPathSeparatorConstant)
	if len(trimmedTrunkName) > 0 {
		urlSegments = append(urlSegments, trimmedTrunkName)
	}
	return strings.Join(urlSegments, repositoryURLPathSeparatorConstant), nil
}
