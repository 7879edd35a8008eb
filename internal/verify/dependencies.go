package verify

import (
	"context"
)

// RepositoryLister enumerates repository names under a source root directory.
type RepositoryLister interface {
	ListRepositories(sourceRoot string) ([]string, error)
}

// SourceInspector exposes the Subversion capabilities consumed by the validation sequence.
type SourceInspector interface {
	Verify(executionContext context.Context, repositoryPath string) error
	YoungestRevision(executionContext context.Context, repositoryPath string) (int, error)
	CheckoutTrunk(executionContext context.Context, repositoryPath string, trunkName string, destinationPath string) error
}

// TargetInspector exposes the Git capabilities consumed by the validation sequence.
type TargetInspector interface {
	IsRepository(repositoryPath string) error
	CountCommits(repositoryPath string) (int, error)
	ListLocalBranches(repositoryPath string) ([]string, error)
	ServerConfigValue(repositoryPath string, configurationKey string) (string, error)
	Clone(executionContext context.Context, repositoryPath string, destinationPath string) error
}

// OwnershipInspector resolves the filesystem owner account of a path.
type OwnershipInspector interface {
	Owner(path string) (string, error)
}
