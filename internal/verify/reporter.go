package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	discoveredRepositoriesTemplateConstant = "Discovered %d repositories under %s\n"
	discoveredRepositoryItemTemplate       = "  - %s\n"
	repositoryHeaderTemplateConstant       = "Validating %s\n"
	checkLineTemplateConstant              = "  %-28s %s\n"
	checkLineDetailTemplateConstant        = "  %-28s %s  %s\n"
	displayLineTemplateConstant            = "  %s\n"
	summaryHeaderLineConstant              = "Summary\n"
	summaryTotalsTemplateConstant          = "  total: %d  passed: %d  failed: %d\n"
	failureBannerLineConstant              = "WARNING: one or more migration validation checks failed\n"
	blankLineConstant                      = "\n"
	passColorCodeConstant                  = "2"
	failColorCodeConstant                  = "1"
	warnColorCodeConstant                  = "3"
)

var (
	passStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(passColorCodeConstant)).Bold(true)
	failStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(failColorCodeConstant)).Bold(true)
	warnStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(warnColorCodeConstant)).Bold(true)
)

// ConsoleReporter renders per-check lines, numeric displays, and the final
// summary block for one validation run.
type ConsoleReporter struct {
	writer io.Writer
}

// NewConsoleReporter constructs a reporter writing to the provided sink,
// defaulting to standard output.
func NewConsoleReporter(writer io.Writer) *ConsoleReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &ConsoleReporter{writer: writer}
}

// DiscoveredRepositories prints the repository names found under the source root.
func (reporter *ConsoleReporter) DiscoveredRepositories(sourceRoot string, repositoryNames []string) {
	fmt.Fprintf(reporter.writer, discoveredRepositoriesTemplateConstant, len(repositoryNames), sourceRoot)
	for _, repositoryName := range repositoryNames {
		fmt.Fprintf(reporter.writer, discoveredRepositoryItemTemplate, repositoryName)
	}
	fmt.Fprint(reporter.writer, blankLineConstant)
}

// RepositoryHeader prints the heading for one repository block.
func (reporter *ConsoleReporter) RepositoryHeader(pair RepositoryPair) {
	fmt.Fprintf(reporter.writer, repositoryHeaderTemplateConstant, pair.Name)
}

// CheckLine prints one check outcome with its styled status marker.
func (reporter *ConsoleReporter) CheckLine(result CheckResult) {
	styledStatus := reporter.styleStatus(result.Status)
	trimmedDetail := strings.TrimSpace(result.Detail)
	if len(trimmedDetail) == 0 {
		fmt.Fprintf(reporter.writer, checkLineTemplateConstant, result.Name, styledStatus)
		return
	}
	fmt.Fprintf(reporter.writer, checkLineDetailTemplateConstant, result.Name, styledStatus, trimmedDetail)
}

// DisplayLine prints an informational line inside a repository block.
func (reporter *ConsoleReporter) DisplayLine(format string, arguments ...any) {
	fmt.Fprintf(reporter.writer, displayLineTemplateConstant, fmt.Sprintf(format, arguments...))
}

// RepositorySeparator ends a repository block with a blank line.
func (reporter *ConsoleReporter) RepositorySeparator() {
	fmt.Fprint(reporter.writer, blankLineConstant)
}

// Summary prints the final totals block and the failure banner when needed.
func (reporter *ConsoleReporter) Summary(totals RunTotals) {
	fmt.Fprint(reporter.writer, summaryHeaderLineConstant)
	fmt.Fprintf(reporter.writer, summaryTotalsTemplateConstant, totals.Total, totals.Passed, totals.Failed)
	if totals.Failed > 0 {
		fmt.Fprint(reporter.writer, failureBannerLineConstant)
	}
}

func (reporter *ConsoleReporter) styleStatus(status CheckStatus) string {
	switch status {
	case CheckStatusPass:
		return passStatusStyle.Render(string(status))
	case CheckStatusFail:
		return failStatusStyle.Render(string(status))
	case CheckStatusWarn:
		return warnStatusStyle.Render(string(status))
	default:
		return string(status)
	}
}
