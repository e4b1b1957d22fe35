// Package execshell runs the git command-line client on behalf of trenza.
//
// ShellExecutor is the single mutation port of the joiner: every repository
// initialization, remote registration, fetch, merge, move, commit and checkout
// goes through it. Invocations block until git exits, are logged through
// CommandMessageFormatter, and non-zero exits are returned as
// CommandFailedError with the captured standard error.
package execshell
