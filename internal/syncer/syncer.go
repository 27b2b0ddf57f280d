// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	custom_errors "github-traffic-tracker/internal/errors"
	"github-traffic-tracker/internal/metrics"
	"github-traffic-tracker/internal/model"
	"github-traffic-tracker/internal/traffic"
)

// TrafficSource fetches the two daily traffic series of a repository.
type TrafficSource interface {
	Views(ctx context.Context, owner, name string) ([]model.DailyCount, error)
	Clones(ctx context.Context, owner, name string) ([]model.DailyCount, error)
}

// SourceFactory builds a TrafficSource authenticated with token.
type SourceFactory func(token string) (TrafficSource, error)

// RepoLister lists the tracked repositories.
type RepoLister interface {
	List(ctx context.Context) ([]model.Repository, error)
}

// TokenGetter returns the configured access token, if any.
type TokenGetter interface {
	Get(ctx context.Context) (token string, ok bool, err error)
}

// SampleWriter persists one repository's samples atomically.
type SampleWriter interface {
	Upsert(ctx context.Context, repoID int64, samples []model.TrafficSample) error
}

// Syncer orchestrates the fetching and storing of traffic data.
type Syncer struct {
	// mu serializes cycles regardless of which trigger started them.
	mu sync.Mutex

	repos       RepoLister
	tokens      TokenGetter
	writer      SampleWriter
	newSource   SourceFactory
	metrics     *metrics.Metrics
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// NewSyncer creates a new Syncer instance. concurrency bounds how many
// repositories are fetched in parallel within one cycle.
func NewSyncer(repos RepoLister, tokens TokenGetter, writer SampleWriter, newSource SourceFactory, m *metrics.Metrics, logger *slog.Logger, concurrency int) *Syncer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Syncer{
		repos:       repos,
		tokens:      tokens,
		writer:      writer,
		newSource:   newSource,
		metrics:     m,
		logger:      logger,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// RunCycle performs one collection pass over every tracked repository.
// Cycles never overlap; a caller arriving during a cycle waits for it.
// Per-repository failures are logged and counted in the report, never
// returned. Without a token the cycle is a no-op that returns
// errors.ErrMissingCredential.
func (s *Syncer) RunCycle(ctx context.Context) (model.CycleReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := model.CycleReport{StartedAt: s.now()}
	report, err := s.runCycle(ctx, report)
	report.Duration = s.now().Sub(report.StartedAt)
	s.metrics.ObserveCycle(report, err)
	return report, err
}

func (s *Syncer) runCycle(ctx context.Context, report model.CycleReport) (model.CycleReport, error) {
	token, ok, err := s.tokens.Get(ctx)
	if err != nil {
		return report, err
	}
	if !ok {
		s.logger.Info("GitHub token not set, skipping collection cycle")
		report.CredentialMissing = true
		return report, custom_errors.ErrMissingCredential
	}

	source, err := s.newSource(token)
	if err != nil {
		return report, fmt.Errorf("creating GitHub client: %w", err)
	}

	repos, err := s.repos.List(ctx)
	if err != nil {
		return report, err
	}
	report.Repositories = len(repos)
	s.logger.Info("Starting new collection cycle", "repositories", len(repos), "concurrency", s.concurrency)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, repo := range repos {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			n, err := s.syncRepo(gctx, source, repo)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				if !errors.Is(err, context.Canceled) {
					s.logger.Error("Failed to collect repository traffic", "owner", repo.Owner, "repo", repo.Name, "error", err)
				}
				return nil
			}
			report.Succeeded++
			report.SamplesWritten += n
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Collection cycle finished",
		"succeeded", report.Succeeded, "failed", report.Failed, "samples", report.SamplesWritten)
	return report, ctx.Err()
}

// syncRepo fetches both series for one repository, merges them and stores
// the result. Nothing is written unless both calls succeed, so a series that
// was not re-fetched is never zeroed out.
func (s *Syncer) syncRepo(ctx context.Context, source TrafficSource, repo model.Repository) (int, error) {
	logger := s.logger.With("owner", repo.Owner, "repo", repo.Name, "repo_id", repo.ID)
	logger.Debug("Collecting repository traffic")

	views, err := source.Views(ctx, repo.Owner, repo.Name)
	if err != nil {
		s.countFetchError(err)
		return 0, err
	}
	clones, err := source.Clones(ctx, repo.Owner, repo.Name)
	if err != nil {
		s.countFetchError(err)
		return 0, err
	}

	samples := traffic.Merge(traffic.ByDate(views), traffic.ByDate(clones))
	if len(samples) == 0 {
		logger.Info("No traffic reported")
		return 0, nil
	}
	if err := s.writer.Upsert(ctx, repo.ID, samples); err != nil {
		return 0, err
	}
	logger.Info("Stored traffic samples", "count", len(samples), "first", samples[0].Date, "last", samples[len(samples)-1].Date)
	return len(samples), nil
}

func (s *Syncer) countFetchError(err error) {
	var fetchErr *custom_errors.ErrFetch
	if errors.As(err, &fetchErr) {
		s.metrics.FetchFailed(fetchErr.Series)
		return
	}
	s.metrics.FetchFailed("unknown")
}
