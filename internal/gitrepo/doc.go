// Package gitrepo exposes the Git capabilities required by the migration
// validator: repository validity, commit counting across all refs, local
// branch listing, configuration lookup, and cloning. All operations run
// in-process through go-git.
package gitrepo
