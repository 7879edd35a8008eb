package verify

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/migv/internal/execshell"
	"github.com/temirov/migv/internal/gitrepo"
	"github.com/temirov/migv/internal/svnrepo"
	"github.com/temirov/migv/internal/ui"
	"github.com/temirov/migv/internal/utils"
)

const (
	commandUseConstant              = "verify"
	commandShortDescriptionConstant = "Validate migrated repositories against their Subversion sources"
	commandLongDescriptionConstant  = "verify runs the migration validation checklist for every repository under the source root, comparing revision counts, working-tree contents, branches, server configuration, and ownership against the migrated Git repositories."
	flagSourceRootNameConstant      = "source-root"
	flagSourceRootUsageConstant     = "Directory containing the Subversion source repositories."
	flagTargetRootNameConstant      = "target-root"
	flagTargetRootUsageConstant     = "Directory containing the migrated Git repositories."
	flagExpectedOwnerNameConstant   = "expected-owner"
	flagExpectedOwnerUsageConstant  = "Account expected to own both repository trees."
	flagReportNameConstant          = "report"
	flagReportUsageConstant         = "Optional path for a YAML report of all check results."
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted verify configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the verify cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	RepositoryLister      RepositoryLister
	SourceInspector       SourceInspector
	TargetInspector       TargetInspector
	OwnershipInspector    OwnershipInspector
	CommandEventsObserver execshell.CommandEventObserver
}

// Build constructs the cobra command for the migration validation checklist.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagSourceRootNameConstant, "", flagSourceRootUsageConstant)
	command.Flags().String(flagTargetRootNameConstant, "", flagTargetRootUsageConstant)
	command.Flags().String(flagExpectedOwnerNameConstant, "", flagExpectedOwnerUsageConstant)
	command.Flags().String(flagReportNameConstant, "", flagReportUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	options := builder.resolveOptions(command)
	logger := builder.resolveLogger()

	sourceInspector, sourceError := builder.resolveSourceInspector(logger)
	if sourceError != nil {
		return sourceError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:             logger,
		RepositoryLister:   builder.resolveRepositoryLister(),
		SourceInspector:    sourceInspector,
		TargetInspector:    builder.resolveTargetInspector(),
		OwnershipInspector: builder.resolveOwnershipInspector(),
		OutputWriter:       utils.NewFlushingWriter(command.OutOrStdout()),
	})
	if serviceError != nil {
		return serviceError
	}

	executionContext, stopSignalHandling := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignalHandling()

	_, runError := service.Run(executionContext, options)
	return runError
}

func (builder *CommandBuilder) resolveOptions(command *cobra.Command) RunOptions {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command.Flags().Changed(flagSourceRootNameConstant) {
		configuration.SourceRoot, _ = command.Flags().GetString(flagSourceRootNameConstant)
	}
	if command.Flags().Changed(flagTargetRootNameConstant) {
		configuration.TargetRoot, _ = command.Flags().GetString(flagTargetRootNameConstant)
	}
	if command.Flags().Changed(flagExpectedOwnerNameConstant) {
		configuration.ExpectedOwner, _ = command.Flags().GetString(flagExpectedOwnerNameConstant)
	}
	if command.Flags().Changed(flagReportNameConstant) {
		configuration.ReportPath, _ = command.Flags().GetString(flagReportNameConstant)
	}

	return RunOptionsFromConfiguration(configuration)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveRepositoryLister() RepositoryLister {
	if builder.RepositoryLister != nil {
		return builder.RepositoryLister
	}
	return NewFilesystemRepositoryLister()
}

func (builder *CommandBuilder) resolveSourceInspector(logger *zap.Logger) (SourceInspector, error) {
	if builder.SourceInspector != nil {
		return builder.SourceInspector, nil
	}

	eventObserver := builder.CommandEventsObserver
	if eventObserver == nil {
		eventObserver = ui.NewConsoleCommandEventLogger(logger)
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), eventObserver)
	if executorError != nil {
		return nil, executorError
	}
	return svnrepo.NewInspector(shellExecutor)
}

func (builder *CommandBuilder) resolveTargetInspector() TargetInspector {
	if builder.TargetInspector != nil {
		return builder.TargetInspector
	}
	return gitrepo.NewInspector()
}

func (builder *CommandBuilder) resolveOwnershipInspector() OwnershipInspector {
	if builder.OwnershipInspector != nil {
		return builder.OwnershipInspector
	}
	return NewOSOwnershipInspector()
}
