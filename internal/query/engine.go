// Package query answers windowed traffic questions over the stored samples.
package query

import (
	"context"
	"fmt"
	"time"

	"github-traffic-tracker/internal/database"
	"github-traffic-tracker/internal/model"
)

// Period is a lookback window in calendar days.
type Period int

// Supported periods.
const (
	Week    Period = 7
	Month   Period = 30
	Quarter Period = 90
)

// ParsePeriod maps "7d", "30d" and "90d" to a Period. Anything else is Month.
func ParsePeriod(s string) Period {
	switch s {
	case "7d":
		return Week
	case "90d":
		return Quarter
	default:
		return Month
	}
}

func (p Period) String() string {
	return fmt.Sprintf("%dd", int(p))
}

// Engine runs read-only traffic queries.
type Engine struct {
	q   database.Querier
	now func() time.Time
}

// NewEngine creates an Engine reading from q.
func NewEngine(q database.Querier) *Engine {
	return &Engine{q: q, now: time.Now}
}

// Since returns the first date included in p, relative to the current UTC day.
func (e *Engine) Since(p Period) string {
	return e.now().UTC().AddDate(0, 0, -int(p)).Format(model.DateLayout)
}

// PerRepo returns each repository's samples in p, keyed by "owner/name" and
// ordered by date.
func (e *Engine) PerRepo(ctx context.Context, p Period) (map[string][]model.TrafficSample, error) {
	rows, err := e.q.ListTrafficSince(ctx, e.Since(p))
	if err != nil {
		return nil, fmt.Errorf("listing traffic: %w", err)
	}
	result := make(map[string][]model.TrafficSample)
	for _, row := range rows {
		key := model.Repository{Owner: row.Owner, Name: row.Name}.FullName()
		result[key] = append(result[key], model.TrafficSample{
			Date:         row.Day,
			Views:        row.Views,
			UniqueViews:  row.UniqueViews,
			Clones:       row.Clones,
			UniqueClones: row.UniqueClones,
		})
	}
	return result, nil
}

// Aggregate returns, per date in p, views and clones summed over all
// repositories. Unique counts are not summed since they don't add up across
// repositories.
func (e *Engine) Aggregate(ctx context.Context, p Period) ([]model.DailyTotal, error) {
	rows, err := e.q.AggregateTrafficSince(ctx, e.Since(p))
	if err != nil {
		return nil, fmt.Errorf("aggregating traffic: %w", err)
	}
	totals := make([]model.DailyTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, model.DailyTotal{Date: row.Day, Views: row.Views, Clones: row.Clones})
	}
	return totals, nil
}

// Totals returns the view and clone sums over p. No data yields zeros.
func (e *Engine) Totals(ctx context.Context, p Period) (model.Totals, error) {
	row, err := e.q.GetTrafficTotalsSince(ctx, e.Since(p))
	if err != nil {
		return model.Totals{}, fmt.Errorf("summing traffic: %w", err)
	}
	return model.Totals{Views: row.TotalViews, Clones: row.TotalClones}, nil
}
