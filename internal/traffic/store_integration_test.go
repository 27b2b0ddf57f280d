//go:build integration

package traffic

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-traffic-tracker/internal/database"
	"github-traffic-tracker/internal/model"
	"github-traffic-tracker/internal/testutil"
)

func samplesFor(ctx context.Context, t *testing.T, pool *pgxpool.Pool, repoID int64) []model.TrafficSample {
	t.Helper()
	rows, err := pool.Query(ctx, `SELECT day, views, unique_views, clones, unique_clones
		FROM traffic_samples WHERE repository_id = $1 ORDER BY day`, repoID)
	require.NoError(t, err)
	defer rows.Close()
	var out []model.TrafficSample
	for rows.Next() {
		var s model.TrafficSample
		require.NoError(t, rows.Scan(&s.Date, &s.Views, &s.UniqueViews, &s.Clones, &s.UniqueClones))
		out = append(out, s)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	pool, _ := testutil.NewPostgres(ctx, t)
	store := NewStore(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	q := database.New(pool)

	createRepo := func(t *testing.T, owner, name string) int64 {
		repo, err := q.CreateRepository(ctx, database.CreateRepositoryParams{Owner: owner, Name: name})
		require.NoError(t, err)
		return repo.ID
	}

	t.Run("upsert is idempotent", func(t *testing.T) {
		testutil.Truncate(ctx, t, pool)
		id := createRepo(t, "octo", "a")
		samples := []model.TrafficSample{
			{Date: "2026-10-01", Views: 5, UniqueViews: 2},
			{Date: "2026-10-02", Views: 1, UniqueViews: 1, Clones: 3, UniqueClones: 2},
		}

		require.NoError(t, store.Upsert(ctx, id, samples))
		require.NoError(t, store.Upsert(ctx, id, samples))

		assert.Equal(t, samples, samplesFor(ctx, t, pool, id))
	})

	t.Run("later values overwrite, even when lower", func(t *testing.T) {
		testutil.Truncate(ctx, t, pool)
		id := createRepo(t, "octo", "a")

		require.NoError(t, store.Upsert(ctx, id, []model.TrafficSample{{Date: "2026-10-01", Views: 50, UniqueViews: 10, Clones: 5, UniqueClones: 5}}))
		require.NoError(t, store.Upsert(ctx, id, []model.TrafficSample{{Date: "2026-10-01", Views: 3, UniqueViews: 1}}))

		assert.Equal(t, []model.TrafficSample{{Date: "2026-10-01", Views: 3, UniqueViews: 1}}, samplesFor(ctx, t, pool, id))
	})

	t.Run("a failing batch writes nothing", func(t *testing.T) {
		testutil.Truncate(ctx, t, pool)
		id := createRepo(t, "octo", "a")
		require.NoError(t, store.Upsert(ctx, id, []model.TrafficSample{{Date: "2026-10-01", Views: 7}}))

		err := store.Upsert(ctx, id, []model.TrafficSample{
			{Date: "2026-10-01", Views: 8},
			{Date: "not-a-date", Views: 1},
		})

		require.Error(t, err)
		assert.Equal(t, []model.TrafficSample{{Date: "2026-10-01", Views: 7}}, samplesFor(ctx, t, pool, id))
	})

	t.Run("samples must reference a repository", func(t *testing.T) {
		testutil.Truncate(ctx, t, pool)

		err := store.Upsert(ctx, 999, []model.TrafficSample{{Date: "2026-10-01"}})

		assert.True(t, database.IsForeignKeyViolation(err))
	})

	t.Run("wipe deletes only that repository's samples", func(t *testing.T) {
		testutil.Truncate(ctx, t, pool)
		a := createRepo(t, "octo", "a")
		b := createRepo(t, "octo", "b")
		require.NoError(t, store.Upsert(ctx, a, []model.TrafficSample{{Date: "2026-10-01", Views: 1}, {Date: "2026-10-02", Views: 2}}))
		require.NoError(t, store.Upsert(ctx, b, []model.TrafficSample{{Date: "2026-10-01", Views: 4}}))

		n, err := store.Wipe(ctx, "octo", "a")

		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Empty(t, samplesFor(ctx, t, pool, a))
		assert.Len(t, samplesFor(ctx, t, pool, b), 1)
	})

	t.Run("wipe of an unknown repository is a no-op", func(t *testing.T) {
		testutil.Truncate(ctx, t, pool)

		n, err := store.Wipe(ctx, "ghost", "repo")

		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
