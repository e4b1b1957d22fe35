// Package join merges every git repository found beneath a root directory into
// a single newly created repository.
//
// Each source repository keeps its full history. The service registers it as a
// remote of the joined repository, merges the resolved branch with unrelated
// histories allowed, and then moves the merged files into a subdirectory named
// after the repository's path relative to the root. Content moves through a
// staging directory so a repository can land in a directory whose name matches
// one of its own top-level entries.
package join
