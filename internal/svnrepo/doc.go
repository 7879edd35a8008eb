// Package svnrepo exposes the Subversion capabilities required by the
// migration validator: integrity verification, youngest revision lookup, and
// trunk checkout, all delegated to the native svn toolchain through execshell.
package svnrepo
