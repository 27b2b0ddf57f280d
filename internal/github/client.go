// internal/github/client.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "github-traffic-tracker/internal/errors"
	"github-traffic-tracker/internal/model"
)

// Series names of the two traffic endpoints.
const (
	SeriesViews  = "views"
	SeriesClones = "clones"
)

// Client is a wrapper around the go-github client that reads repository traffic.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// The provided token is sent as a bearer token on every request. An empty
// baseURL targets api.github.com.
func NewClient(token, baseURL string, logger *slog.Logger) (*Client, error) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	gh := github.NewClient(tc)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:     gh,
		logger: logger,
	}, nil
}

// Views fetches the daily page-view series GitHub keeps for the repository.
func (c *Client) Views(ctx context.Context, owner, name string) ([]model.DailyCount, error) {
	c.logger.Debug("GitHub API call", "series", SeriesViews, "owner", owner, "repo", name)
	views, resp, err := c.gh.Repositories.ListTrafficViews(ctx, owner, name, &github.TrafficBreakdownOptions{Per: "day"})
	if err != nil {
		return nil, &custom_errors.ErrFetch{Owner: owner, Name: name, Series: SeriesViews, Err: err}
	}
	c.logger.Debug("GitHub API response", "series", SeriesViews, "owner", owner, "repo", name, "status", resp.StatusCode)
	return toDailyCounts(views.Views), nil
}

// Clones fetches the daily clone series GitHub keeps for the repository.
func (c *Client) Clones(ctx context.Context, owner, name string) ([]model.DailyCount, error) {
	c.logger.Debug("GitHub API call", "series", SeriesClones, "owner", owner, "repo", name)
	clones, resp, err := c.gh.Repositories.ListTrafficClones(ctx, owner, name, &github.TrafficBreakdownOptions{Per: "day"})
	if err != nil {
		return nil, &custom_errors.ErrFetch{Owner: owner, Name: name, Series: SeriesClones, Err: err}
	}
	c.logger.Debug("GitHub API response", "series", SeriesClones, "owner", owner, "repo", name, "status", resp.StatusCode)
	return toDailyCounts(clones.Clones), nil
}

// toDailyCounts translates GitHub traffic buckets to our internal model.
// Buckets are keyed by the UTC calendar day of their timestamp.
func toDailyCounts(data []*github.TrafficData) []model.DailyCount {
	counts := make([]model.DailyCount, 0, len(data))
	for _, d := range data {
		counts = append(counts, model.DailyCount{
			Date:    d.GetTimestamp().UTC().Format(model.DateLayout),
			Count:   int64(d.GetCount()),
			Uniques: int64(d.GetUniques()),
		})
	}
	return counts
}
