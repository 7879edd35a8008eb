// Package verify implements the migration validation checklist. It discovers
// Subversion repositories under a source root, runs a fixed battery of checks
// against each migrated Git counterpart, and reports per-check PASS, FAIL, or
// WARN outcomes plus an aggregate summary suitable for automation.
package verify
