package verify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	scratchWorkspacePatternConstant          = "migv-verify-*"
	workspaceDirectoryNameTemplateConstant   = "%s-%s"
	workspaceAcquisitionErrorTemplateConst   = "unable to create scratch workspace: %w"
	workspaceFileCountErrorTemplateConstant  = "unable to count files under %s: %w"
	workspaceReleasedPathPlaceholderConstant = ""
)

// ScratchWorkspace owns a uniquely named temporary directory holding the
// ephemeral clones and checkouts used for content comparison. Release is
// idempotent and safe to call on every exit path.
type ScratchWorkspace struct {
	rootPath     string
	releaseMutex sync.Mutex
	released     bool
}

// AcquireScratchWorkspace creates the scratch directory beneath baseDirectory,
// falling back to the system temporary directory when baseDirectory is empty.
func AcquireScratchWorkspace(baseDirectory string) (*ScratchWorkspace, error) {
	workspacePath, creationError := os.MkdirTemp(baseDirectory, scratchWorkspacePatternConstant)
	if creationError != nil {
		return nil, fmt.Errorf(workspaceAcquisitionErrorTemplateConst, creationError)
	}
	return &ScratchWorkspace{rootPath: workspacePath}, nil
}

// RootPath returns the workspace directory path, empty after release.
func (workspace *ScratchWorkspace) RootPath() string {
	workspace.releaseMutex.Lock()
	defer workspace.releaseMutex.Unlock()
	if workspace.released {
		return workspaceReleasedPathPlaceholderConstant
	}
	return workspace.rootPath
}

// RepositoryDirectory returns a workspace path unique to the repository name
// and comparison side. The directory is not created; clone and checkout
// operations expect to create their destinations themselves.
func (workspace *ScratchWorkspace) RepositoryDirectory(repositoryName string, side string) string {
	return filepath.Join(workspace.rootPath, fmt.Sprintf(workspaceDirectoryNameTemplateConstant, repositoryName, side))
}

// Release removes the workspace directory. Subsequent calls are no-ops.
func (workspace *ScratchWorkspace) Release() error {
	workspace.releaseMutex.Lock()
	defer workspace.releaseMutex.Unlock()

	if workspace.released {
		return nil
	}
	workspace.released = true
	return os.RemoveAll(workspace.rootPath)
}

// CountRegularFiles walks the directory tree rooted at rootPath and counts
// regular files, skipping any directory whose name matches the excluded
// metadata directory name.
func CountRegularFiles(rootPath string, excludedDirectoryName string) (int, error) {
	fileCount := 0
	walkError := filepath.WalkDir(rootPath, func(path string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if directoryEntry.IsDir() {
			if directoryEntry.Name() == excludedDirectoryName {
				return fs.SkipDir
			}
			return nil
		}
		if directoryEntry.Type().IsRegular() {
			fileCount++
		}
		return nil
	})
	if walkError != nil {
		return 0, fmt.Errorf(workspaceFileCountErrorTemplateConstant, rootPath, walkError)
	}
	return fileCount, nil
}
