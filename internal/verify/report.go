package verify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	reportEncodeErrorTemplateConstant = "unable to encode run report: %w"
	reportWriteErrorTemplateConstant  = "unable to write run report to %s: %w"
	reportFilePermissionsConstant     = 0o644
)

// WriteRunReport serializes the run report as YAML at the provided path.
func WriteRunReport(reportPath string, report RunReport) error {
	encodedReport, encodeError := yaml.Marshal(report)
	if encodeError != nil {
		return fmt.Errorf(reportEncodeErrorTemplateConstant, encodeError)
	}

	writeError := os.WriteFile(reportPath, encodedReport, reportFilePermissionsConstant)
	if writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, reportPath, writeError)
	}
	return nil
}
