package gitrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	configurationKeySeparatorConstant       = "."
	repositoryOpenErrorTemplateConstant     = "unable to open git repository at %s: %w"
	repositoryCloneErrorTemplateConstant    = "unable to clone git repository from %s: %w"
	commitEnumerationErrorTemplateConstant  = "unable to enumerate commits in %s: %w"
	branchEnumerationErrorTemplateConstant  = "unable to enumerate branches in %s: %w"
	configurationReadErrorTemplateConstant  = "unable to read repository configuration in %s: %w"
	configurationKeyFormatTemplateConstant  = "configuration key %q must use the section.option form"
	configurationKeySegmentCountConstant    = 2
	configurationKeySubsectionSegmentsCount = 3
)

// Inspector answers questions about on-disk Git repositories using go-git, without
// requiring a git executable on the host.
type Inspector struct{}

// NewInspector constructs a go-git backed repository inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// IsRepository reports whether the path opens as a Git repository, bare or not.
func (inspector *Inspector) IsRepository(repositoryPath string) error {
	_, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}
	return nil
}

// CountCommits returns the number of unique commits reachable from any reference.
func (inspector *Inspector) CountCommits(repositoryPath string) (int, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return 0, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	commitIterator, logError := repository.Log(&git.LogOptions{All: true})
	if logError != nil {
		return 0, fmt.Errorf(commitEnumerationErrorTemplateConstant, repositoryPath, logError)
	}
	defer commitIterator.Close()

	commitCount := 0
	iterationError := commitIterator.ForEach(func(*object.Commit) error {
		commitCount++
		return nil
	})
	if iterationError != nil {
		return 0, fmt.Errorf(commitEnumerationErrorTemplateConstant, repositoryPath, iterationError)
	}

	return commitCount, nil
}

// ListLocalBranches returns the short names of all local branch references, sorted.
func (inspector *Inspector) ListLocalBranches(repositoryPath string) ([]string, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return nil, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	branchIterator, branchesError := repository.Branches()
	if branchesError != nil {
		return nil, fmt.Errorf(branchEnumerationErrorTemplateConstant, repositoryPath, branchesError)
	}
	defer branchIterator.Close()

	var branchNames []string
	iterationError := branchIterator.ForEach(func(reference *plumbing.Reference) error {
		branchNames = append(branchNames, reference.Name().Short())
		return nil
	})
	if iterationError != nil {
		return nil, fmt.Errorf(branchEnumerationErrorTemplateConstant, repositoryPath, iterationError)
	}

	sort.Strings(branchNames)
	return branchNames, nil
}

// ServerConfigValue resolves a repository configuration option given a
// section.option or section.subsection.option key, returning an empty string
// when the option is absent.
func (inspector *Inspector) ServerConfigValue(repositoryPath string, configurationKey string) (string, error) {
	keySegments := strings.Split(configurationKey, configurationKeySeparatorConstant)
	if len(keySegments) != configurationKeySegmentCountConstant && len(keySegments) != configurationKeySubsectionSegmentsCount {
		return "", fmt.Errorf(configurationKeyFormatTemplateConstant, configurationKey)
	}

	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return "", fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	repositoryConfiguration, configurationError := repository.Config()
	if configurationError != nil {
		return "", fmt.Errorf(configurationReadErrorTemplateConstant, repositoryPath, configurationError)
	}

	configurationSection := repositoryConfiguration.Raw.Section(keySegments[0])
	if len(keySegments) == configurationKeySubsectionSegmentsCount {
		return configurationSection.Subsection(keySegments[1]).Option(keySegments[2]), nil
	}
	return configurationSection.Option(keySegments[1]), nil
}

// Clone materializes a full working-tree clone of the repository at the destination path.
func (inspector *Inspector) Clone(executionContext context.Context, repositoryPath string, destinationPath string) error {
	_, cloneError := git.PlainCloneContext(executionContext, destinationPath, false, &git.CloneOptions{URL: repositoryPath})
	if cloneError != nil {
		return fmt.Errorf(repositoryCloneErrorTemplateConstant, repositoryPath, cloneError)
	}
	return nil
}
