package execshell

import (
	"errors"
	"fmt"
	"strings"
)

const (
	subversionExecutableNameConstant          = "svn"
	subversionAdminExecutableNameConstant     = "svnadmin"
	subversionLookExecutableNameConstant      = "svnlook"
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandFailedMessageTemplateConstant      = "%s exited with code %d"
	commandFailedStderrTemplateConstant       = "%s exited with code %d: %s"
	commandExecutionMessageTemplateConstant   = "%s could not be executed: %s"
	commandLabelJoinSeparatorConstant         = " "
)

// CommandName identifies an external executable supported by the shell executor.
type CommandName string

// Executables invoked by the migration validator.
const (
	CommandSubversion      CommandName = CommandName(subversionExecutableNameConstant)
	CommandSubversionAdmin CommandName = CommandName(subversionAdminExecutableNameConstant)
	CommandSubversionLook  CommandName = CommandName(subversionLookExecutableNameConstant)
)

// CommandDetails captures the arguments and environment for a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// Label renders the command as a single human-readable string.
func (command ShellCommand) Label() string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLabelJoinSeparatorConstant)
}

// ExecutionResult captures the observable outcome of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// Sentinel errors reported during executor construction.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including trailing standard error output.
func (failedError CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedMessageTemplateConstant, failedError.Command.Label(), failedError.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedStderrTemplateConstant, failedError.Command.Label(), failedError.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a command that never produced an execution result.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionMessageTemplateConstant, executionError.Command.Label(), executionError.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As inspection.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}
