// internal/syncer/syncer_test.go
package syncer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	custom_errors "github-traffic-tracker/internal/errors"
	"github-traffic-tracker/internal/metrics"
	"github-traffic-tracker/internal/model"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Views(ctx context.Context, owner, name string) ([]model.DailyCount, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyCount), args.Error(1)
}

func (m *mockSource) Clones(ctx context.Context, owner, name string) ([]model.DailyCount, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyCount), args.Error(1)
}

type mockRepos struct {
	mock.Mock
}

func (m *mockRepos) List(ctx context.Context) ([]model.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Repository), args.Error(1)
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) Get(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Upsert(ctx context.Context, repoID int64, samples []model.TrafficSample) error {
	args := m.Called(ctx, repoID, samples)
	return args.Error(0)
}

type fixture struct {
	source  *mockSource
	repos   *mockRepos
	tokens  *mockTokens
	writer  *mockWriter
	metrics *metrics.Metrics
	built   int32
	syncer  *Syncer
}

func newFixture(concurrency int) *fixture {
	f := &fixture{
		source:  new(mockSource),
		repos:   new(mockRepos),
		tokens:  new(mockTokens),
		writer:  new(mockWriter),
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	factory := func(token string) (TrafficSource, error) {
		atomic.AddInt32(&f.built, 1)
		return f.source, nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.syncer = NewSyncer(f.repos, f.tokens, f.writer, factory, f.metrics, logger, concurrency)
	return f
}

var (
	repoA = model.Repository{ID: 1, Owner: "octo", Name: "a"}
	repoB = model.Repository{ID: 2, Owner: "octo", Name: "b"}
)

func TestSyncer_RunCycle_MissingCredential(t *testing.T) {
	f := newFixture(1)
	f.tokens.On("Get", mock.Anything).Return("", false, nil).Once()

	report, err := f.syncer.RunCycle(context.Background())

	assert.ErrorIs(t, err, custom_errors.ErrMissingCredential)
	assert.True(t, report.CredentialMissing)
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.built), "no client should be built")
	f.repos.AssertNotCalled(t, "List", mock.Anything)
	f.source.AssertNotCalled(t, "Views", mock.Anything, mock.Anything, mock.Anything)
	f.source.AssertNotCalled(t, "Clones", mock.Anything, mock.Anything, mock.Anything)
	f.writer.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CyclesTotal.WithLabelValues(metrics.ResultSkipped)))
}

func TestSyncer_RunCycle_MergesAndStores(t *testing.T) {
	f := newFixture(1)
	f.tokens.On("Get", mock.Anything).Return("tok", true, nil).Once()
	f.repos.On("List", mock.Anything).Return([]model.Repository{repoA}, nil).Once()
	f.source.On("Views", mock.Anything, "octo", "a").Return([]model.DailyCount{
		{Date: "2026-10-01", Count: 5, Uniques: 2},
		{Date: "2026-10-02", Count: 6, Uniques: 3},
	}, nil).Once()
	f.source.On("Clones", mock.Anything, "octo", "a").Return([]model.DailyCount{
		{Date: "2026-10-02", Count: 1, Uniques: 1},
		{Date: "2026-10-03", Count: 2, Uniques: 2},
	}, nil).Once()
	f.writer.On("Upsert", mock.Anything, int64(1), []model.TrafficSample{
		{Date: "2026-10-01", Views: 5, UniqueViews: 2},
		{Date: "2026-10-02", Views: 6, UniqueViews: 3, Clones: 1, UniqueClones: 1},
		{Date: "2026-10-03", Clones: 2, UniqueClones: 2},
	}).Return(nil).Once()

	report, err := f.syncer.RunCycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Repositories)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 3, report.SamplesWritten)
	f.writer.AssertExpectations(t)
	f.source.AssertExpectations(t)
}

func TestSyncer_RunCycle_FailureIsolatedPerRepository(t *testing.T) {
	t.Run("views failure skips only that repository", func(t *testing.T) {
		f := newFixture(1)
		f.tokens.On("Get", mock.Anything).Return("tok", true, nil).Once()
		f.repos.On("List", mock.Anything).Return([]model.Repository{repoA, repoB}, nil).Once()
		f.source.On("Views", mock.Anything, "octo", "a").
			Return(nil, &custom_errors.ErrFetch{Owner: "octo", Name: "a", Series: "views", Err: errors.New("404")}).Once()
		f.source.On("Views", mock.Anything, "octo", "b").Return([]model.DailyCount{{Date: "2026-10-01", Count: 1}}, nil).Once()
		f.source.On("Clones", mock.Anything, "octo", "b").Return([]model.DailyCount{}, nil).Once()
		f.writer.On("Upsert", mock.Anything, int64(2), mock.Anything).Return(nil).Once()

		report, err := f.syncer.RunCycle(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		f.source.AssertNotCalled(t, "Clones", mock.Anything, "octo", "a")
		f.writer.AssertNotCalled(t, "Upsert", mock.Anything, int64(1), mock.Anything)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FetchErrorsTotal.WithLabelValues("views")))
	})

	t.Run("clones failure stores nothing for the repository", func(t *testing.T) {
		f := newFixture(1)
		f.tokens.On("Get", mock.Anything).Return("tok", true, nil).Once()
		f.repos.On("List", mock.Anything).Return([]model.Repository{repoA}, nil).Once()
		f.source.On("Views", mock.Anything, "octo", "a").Return([]model.DailyCount{{Date: "2026-10-01", Count: 9}}, nil).Once()
		f.source.On("Clones", mock.Anything, "octo", "a").
			Return(nil, &custom_errors.ErrFetch{Owner: "octo", Name: "a", Series: "clones", Err: errors.New("500")}).Once()

		report, err := f.syncer.RunCycle(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		f.writer.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FetchErrorsTotal.WithLabelValues("clones")))
	})

	t.Run("storage failure counts as a failed repository", func(t *testing.T) {
		f := newFixture(2)
		f.tokens.On("Get", mock.Anything).Return("tok", true, nil).Once()
		f.repos.On("List", mock.Anything).Return([]model.Repository{repoA, repoB}, nil).Once()
		f.source.On("Views", mock.Anything, "octo", mock.Anything).Return([]model.DailyCount{{Date: "2026-10-01", Count: 1}}, nil).Twice()
		f.source.On("Clones", mock.Anything, "octo", mock.Anything).Return([]model.DailyCount{}, nil).Twice()
		f.writer.On("Upsert", mock.Anything, int64(1), mock.Anything).Return(errors.New("deadlock detected")).Once()
		f.writer.On("Upsert", mock.Anything, int64(2), mock.Anything).Return(nil).Once()

		report, err := f.syncer.RunCycle(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
	})
}

func TestSyncer_RunCycle_EmptyTrafficWritesNothing(t *testing.T) {
	f := newFixture(1)
	f.tokens.On("Get", mock.Anything).Return("tok", true, nil).Once()
	f.repos.On("List", mock.Anything).Return([]model.Repository{repoA}, nil).Once()
	f.source.On("Views", mock.Anything, "octo", "a").Return([]model.DailyCount{}, nil).Once()
	f.source.On("Clones", mock.Anything, "octo", "a").Return([]model.DailyCount{}, nil).Once()

	report, err := f.syncer.RunCycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	f.writer.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncer_RunCycle_SetupErrors(t *testing.T) {
	t.Run("token lookup failure", func(t *testing.T) {
		f := newFixture(1)
		dbErr := errors.New("db down")
		f.tokens.On("Get", mock.Anything).Return("", false, dbErr).Once()

		_, err := f.syncer.RunCycle(context.Background())

		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CyclesTotal.WithLabelValues(metrics.ResultFailure)))
	})

	t.Run("repository listing failure", func(t *testing.T) {
		f := newFixture(1)
		dbErr := errors.New("db down")
		f.tokens.On("Get", mock.Anything).Return("tok", true, nil).Once()
		f.repos.On("List", mock.Anything).Return(nil, dbErr).Once()

		_, err := f.syncer.RunCycle(context.Background())

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestSyncer_RunCycle_Serialized(t *testing.T) {
	f := newFixture(1)
	f.tokens.On("Get", mock.Anything).Return("tok", true, nil)
	f.repos.On("List", mock.Anything).Return([]model.Repository{repoA}, nil)
	f.source.On("Views", mock.Anything, "octo", "a").Return([]model.DailyCount{{Date: "2026-10-01", Count: 1}}, nil)
	f.source.On("Clones", mock.Anything, "octo", "a").Return([]model.DailyCount{}, nil)

	var inFlight, maxInFlight int32
	f.writer.On("Upsert", mock.Anything, int64(1), mock.Anything).Run(func(args mock.Arguments) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
	}).Return(nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.syncer.RunCycle(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight), "cycles must not overlap")
	f.writer.AssertNumberOfCalls(t, "Upsert", 4)
}
