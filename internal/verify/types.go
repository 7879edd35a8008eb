package verify

import (
	"path/filepath"
	"time"
)

// CheckStatus enumerates the possible outcomes of a single validation check.
type CheckStatus string

// Supported check outcomes. Warnings count toward the passed total but are
// surfaced distinctly for human review.
const (
	CheckStatusPass CheckStatus = "PASS"
	CheckStatusFail CheckStatus = "FAIL"
	CheckStatusWarn CheckStatus = "WARN"
)

// CheckResult captures the outcome of one named validation check.
type CheckResult struct {
	Name   string
	Status CheckStatus
	Detail string
}

// RunTotals accumulates check outcomes across one validation run. The
// invariant Total == Passed + Failed holds after every Record call.
type RunTotals struct {
	Total  int
	Passed int
	Failed int
}

// Record folds a check outcome into the totals.
func (totals *RunTotals) Record(status CheckStatus) {
	totals.Total++
	if status == CheckStatusFail {
		totals.Failed++
		return
	}
	totals.Passed++
}

// RepositoryPair identifies a source repository and its migrated counterpart.
type RepositoryPair struct {
	Name       string
	SourcePath string
	TargetPath string
}

// NewRepositoryPair derives the source and target paths for a repository name
// using the fixed layout conventions of the migration hosts.
func NewRepositoryPair(repositoryName string, sourceRoot string, targetRoot string, targetSuffix string) RepositoryPair {
	return RepositoryPair{
		Name:       repositoryName,
		SourcePath: filepath.Join(sourceRoot, repositoryName),
		TargetPath: filepath.Join(targetRoot, repositoryName+targetSuffix),
	}
}

// RepositoryReport aggregates the check results recorded for one repository pair.
type RepositoryReport struct {
	Name       string        `yaml:"name"`
	SourcePath string        `yaml:"source_path"`
	TargetPath string        `yaml:"target_path"`
	Checks     []CheckReport `yaml:"checks"`
}

// CheckReport is the serializable form of a CheckResult.
type CheckReport struct {
	Name   string `yaml:"name"`
	Status string `yaml:"status"`
	Detail string `yaml:"detail,omitempty"`
}

// RunReport is the serializable summary of a full validation run.
type RunReport struct {
	GeneratedAt  time.Time          `yaml:"generated_at"`
	SourceRoot   string             `yaml:"source_root"`
	TargetRoot   string             `yaml:"target_root"`
	Repositories []RepositoryReport `yaml:"repositories"`
	Totals       RunTotalsReport    `yaml:"totals"`
}

// RunTotalsReport is the serializable form of RunTotals.
type RunTotalsReport struct {
	Total  int `yaml:"total"`
	Passed int `yaml:"passed"`
	Failed int `yaml:"failed"`
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
