// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions used by migv to run
// the Subversion toolchain (svn, svnadmin, svnlook) in a testable manner.
package execshell
