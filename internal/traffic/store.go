package traffic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github-traffic-tracker/internal/database"
	"github-traffic-tracker/internal/model"
)

// DB is the subset of *pgxpool.Pool the Store needs.
type DB interface {
	database.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store persists traffic samples.
type Store struct {
	db     DB
	logger *slog.Logger
}

// NewStore creates a Store on top of db.
func NewStore(db DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Upsert writes samples for one repository in a single transaction. Existing
// rows for the same date are overwritten; either every sample is written or
// none is.
func (s *Store) Upsert(ctx context.Context, repoID int64, samples []model.TrafficSample) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	qtx := database.New(tx)
	for _, sample := range samples {
		err := qtx.UpsertTrafficSample(ctx, database.UpsertTrafficSampleParams{
			RepositoryID: repoID,
			Day:          sample.Date,
			Views:        sample.Views,
			UniqueViews:  sample.UniqueViews,
			Clones:       sample.Clones,
			UniqueClones: sample.UniqueClones,
		})
		if err != nil {
			return fmt.Errorf("upserting sample for %s: %w", sample.Date, err)
		}
	}

	return tx.Commit(ctx)
}

// Wipe deletes every traffic sample of owner/name and returns how many rows
// were removed. An untracked repository is a no-op.
func (s *Store) Wipe(ctx context.Context, owner, name string) (int64, error) {
	q := database.New(s.db)
	repo, err := q.GetRepositoryByOwnerAndName(ctx, database.GetRepositoryByOwnerAndNameParams{
		Owner: owner,
		Name:  name,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("looking up repository: %w", err)
	}

	n, err := q.DeleteTrafficForRepository(ctx, repo.ID)
	if err != nil {
		return 0, fmt.Errorf("deleting traffic: %w", err)
	}
	s.logger.Info("Traffic data wiped", "owner", owner, "repo", name, "repo_id", repo.ID, "rows", n)
	return n, nil
}
