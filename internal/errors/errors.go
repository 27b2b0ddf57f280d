// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when no GitHub token has been configured yet.
var ErrMissingCredential = errors.New("github token is not configured")

// ErrInvalidRepoFormat is returned when a repository string is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// ErrDuplicateRepository is returned when registering a repository that is already tracked.
type ErrDuplicateRepository struct {
	Owner string
	Name  string
}

func (e *ErrDuplicateRepository) Error() string {
	return fmt.Sprintf("repository %s/%s is already tracked", e.Owner, e.Name)
}

// ErrRepositoryHasTraffic is returned when removing a repository whose traffic samples still exist.
type ErrRepositoryHasTraffic struct {
	Owner string
	Name  string
}

func (e *ErrRepositoryHasTraffic) Error() string {
	return fmt.Sprintf("repository %s/%s still has traffic data; wipe it first", e.Owner, e.Name)
}

// ErrFetch wraps a failed call to one of the traffic endpoints.
type ErrFetch struct {
	Owner  string
	Name   string
	Series string
	Err    error
}

func (e *ErrFetch) Error() string {
	return fmt.Sprintf("fetching %s traffic for %s/%s: %v", e.Series, e.Owner, e.Name, e.Err)
}

func (e *ErrFetch) Unwrap() error {
	return e.Err
}
