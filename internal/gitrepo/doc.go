// Package gitrepo reads the state of source repositories through go-git.
//
// HeadInspector reports the branch and commit a repository has checked out so
// the join service can log and summarize exactly which revision it merged. It
// never shells out and never mutates the inspected repository.
package gitrepo
