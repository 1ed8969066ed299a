// Package giterror classifies failures reported by the gh command-line client
// and the GitHub API so callers can decide between retrying, aborting and
// falling back.
package giterror
