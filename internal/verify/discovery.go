package verify

import (
	"fmt"
	"os"
	"sort"
)

const sourceRootListErrorTemplateConstant = "unable to list source root %s: %w"

// FilesystemRepositoryLister lists repository names from the immediate
// subdirectories of the source root.
type FilesystemRepositoryLister struct{}

// NewFilesystemRepositoryLister constructs a lister backed by os.ReadDir.
func NewFilesystemRepositoryLister() *FilesystemRepositoryLister {
	return &FilesystemRepositoryLister{}
}

// ListRepositories returns the sorted names of directories directly under the source root.
func (lister *FilesystemRepositoryLister) ListRepositories(sourceRoot string) ([]string, error) {
	directoryEntries, readError := os.ReadDir(sourceRoot)
	if readError != nil {
		return nil, fmt.Errorf(sourceRootListErrorTemplateConstant, sourceRoot, readError)
	}

	var repositoryNames []string
	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		repositoryNames = append(repositoryNames, directoryEntry.Name())
	}

	sort.Strings(repositoryNames)
	return repositoryNames, nil
}
