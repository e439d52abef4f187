package gitsource

import (
	"errors"
	"fmt"
)

// ErrBareRepo is returned for repositories without a working tree.
var ErrBareRepo = errors.New("Repo has no working dir - this is the sign of a bare repo")

// GitError reports a file or commit that could not be resolved.
type GitError struct {
	Message string
}

func (e *GitError) Error() string {
	return e.Message
}

// SourceNotFoundError is returned when no revision of any file matches the
// requested hash.
type SourceNotFoundError struct {
	Algorithm string
	Hash      string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("No file exists for %s hash %q", e.Algorithm, e.Hash)
}
