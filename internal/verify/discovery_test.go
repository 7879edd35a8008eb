package verify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/migv/internal/verify"
)

func TestFilesystemRepositoryListerReturnsSortedDirectories(testInstance *testing.T) {
	sourceRoot := testInstance.TempDir()
	require.NoError(testInstance, os.Mkdir(filepath.Join(sourceRoot, "zeta"), 0o755))
	require.NoError(testInstance, os.Mkdir(filepath.Join(sourceRoot, "alpha"), 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(sourceRoot, "stray-file"), []byte("ignored"), 0o644))

	lister := verify.NewFilesystemRepositoryLister()
	repositoryNames, listError := lister.ListRepositories(sourceRoot)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"alpha", "zeta"}, repositoryNames)
}

func TestFilesystemRepositoryListerReportsMissingRoot(testInstance *testing.T) {
	missingRoot := filepath.Join(testInstance.TempDir(), "absent")

	lister := verify.NewFilesystemRepositoryLister()
	repositoryNames, listError := lister.ListRepositories(missingRoot)
	require.Error(testInstance, listError)
	require.Nil(testInstance, repositoryNames)
}

func TestFilesystemRepositoryListerReturnsEmptyForEmptyRoot(testInstance *testing.T) {
	lister := verify.NewFilesystemRepositoryLister()
	repositoryNames, listError := lister.ListRepositories(testInstance.TempDir())
	require.NoError(testInstance, listError)
	require.Empty(testInstance, repositoryNames)
}
