// Package registry keeps the set of tracked repositories.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github-traffic-tracker/internal/database"
	custom_errors "github-traffic-tracker/internal/errors"
	"github-traffic-tracker/internal/model"
)

// Registry stores tracked (owner, name) pairs.
type Registry struct {
	q      database.Querier
	logger *slog.Logger
}

// New creates a Registry backed by q.
func New(q database.Querier, logger *slog.Logger) *Registry {
	return &Registry{q: q, logger: logger}
}

// List returns every tracked repository in insertion order.
func (r *Registry) List(ctx context.Context) ([]model.Repository, error) {
	rows, err := r.q.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}
	repos := make([]model.Repository, 0, len(rows))
	for _, row := range rows {
		repos = append(repos, model.Repository{ID: row.ID, Owner: row.Owner, Name: row.Name})
	}
	return repos, nil
}

// Add starts tracking owner/name. It returns *errors.ErrDuplicateRepository
// if the pair is already tracked.
func (r *Registry) Add(ctx context.Context, owner, name string) (model.Repository, error) {
	if owner == "" || name == "" || strings.Contains(owner, "/") || strings.Contains(name, "/") {
		return model.Repository{}, &custom_errors.ErrInvalidRepoFormat{Repo: owner + "/" + name}
	}
	row, err := r.q.CreateRepository(ctx, database.CreateRepositoryParams{Owner: owner, Name: name})
	if database.IsUniqueViolation(err) {
		return model.Repository{}, &custom_errors.ErrDuplicateRepository{Owner: owner, Name: name}
	}
	if err != nil {
		return model.Repository{}, fmt.Errorf("creating repository: %w", err)
	}
	r.logger.Info("Repository registered", "owner", owner, "repo", name, "repo_id", row.ID)
	return model.Repository{ID: row.ID, Owner: row.Owner, Name: row.Name}, nil
}

// Remove stops tracking owner/name. Traffic samples are not deleted; a
// repository that still has samples yields *errors.ErrRepositoryHasTraffic.
// Removing an untracked repository is a no-op.
func (r *Registry) Remove(ctx context.Context, owner, name string) error {
	n, err := r.q.DeleteRepository(ctx, database.DeleteRepositoryParams{Owner: owner, Name: name})
	if database.IsForeignKeyViolation(err) {
		return &custom_errors.ErrRepositoryHasTraffic{Owner: owner, Name: name}
	}
	if err != nil {
		return fmt.Errorf("deleting repository: %w", err)
	}
	r.logger.Info("Repository removed", "owner", owner, "repo", name, "deleted", n)
	return nil
}

// ParseFullName splits an "owner/name" string.
func ParseFullName(s string) (owner, name string, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &custom_errors.ErrInvalidRepoFormat{Repo: s}
	}
	return parts[0], parts[1], nil
}
