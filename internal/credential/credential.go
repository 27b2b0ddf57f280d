// Package credential holds the GitHub access token in the settings table.
package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github-traffic-tracker/internal/database"
)

// TokenKey is the settings key the GitHub token is stored under.
const TokenKey = "github_token"

// Store reads and writes the single GitHub token.
type Store struct {
	q database.Querier
}

// NewStore creates a Store backed by q.
func NewStore(q database.Querier) *Store {
	return &Store{q: q}
}

// Get returns the configured token. ok is false when no token has been set.
func (s *Store) Get(ctx context.Context) (token string, ok bool, err error) {
	token, err = s.q.GetSetting(ctx, TokenKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading token: %w", err)
	}
	return token, token != "", nil
}

// Set overwrites the stored token.
func (s *Store) Set(ctx context.Context, token string) error {
	if err := s.q.UpsertSetting(ctx, database.UpsertSettingParams{Key: TokenKey, Value: token}); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	return nil
}
