// Package traffic reconciles the views and clones series and persists them.
package traffic

import (
	"sort"

	"github-traffic-tracker/internal/model"
)

// ByDate indexes a series by date. A date listed twice keeps its last entry.
func ByDate(series []model.DailyCount) map[string]model.DailyCount {
	m := make(map[string]model.DailyCount, len(series))
	for _, c := range series {
		m[c.Date] = c
	}
	return m
}

// Merge joins the two series on the union of their dates. A date missing
// from one series gets zero counts for that series only. The result is
// sorted by date.
func Merge(views, clones map[string]model.DailyCount) []model.TrafficSample {
	dates := make(map[string]struct{}, len(views)+len(clones))
	for d := range views {
		dates[d] = struct{}{}
	}
	for d := range clones {
		dates[d] = struct{}{}
	}

	samples := make([]model.TrafficSample, 0, len(dates))
	for d := range dates {
		v := views[d]
		c := clones[d]
		samples = append(samples, model.TrafficSample{
			Date:         d,
			Views:        v.Count,
			UniqueViews:  v.Uniques,
			Clones:       c.Count,
			UniqueClones: c.Uniques,
		})
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Date < samples[j].Date
	})
	return samples
}
