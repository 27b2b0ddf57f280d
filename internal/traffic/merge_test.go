package traffic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github-traffic-tracker/internal/model"
)

func TestMerge(t *testing.T) {
	testCases := []struct {
		name     string
		views    []model.DailyCount
		clones   []model.DailyCount
		expected []model.TrafficSample
	}{
		{
			name:   "union of dates with zero fill per series",
			views:  []model.DailyCount{{Date: "2026-10-01", Count: 5, Uniques: 2}, {Date: "2026-10-02", Count: 7, Uniques: 3}},
			clones: []model.DailyCount{{Date: "2026-10-02", Count: 1, Uniques: 1}, {Date: "2026-10-03", Count: 4, Uniques: 2}},
			expected: []model.TrafficSample{
				{Date: "2026-10-01", Views: 5, UniqueViews: 2, Clones: 0, UniqueClones: 0},
				{Date: "2026-10-02", Views: 7, UniqueViews: 3, Clones: 1, UniqueClones: 1},
				{Date: "2026-10-03", Views: 0, UniqueViews: 0, Clones: 4, UniqueClones: 2},
			},
		},
		{
			name:     "both empty",
			expected: []model.TrafficSample{},
		},
		{
			name:   "clones only",
			clones: []model.DailyCount{{Date: "2026-09-30", Count: 3, Uniques: 3}},
			expected: []model.TrafficSample{
				{Date: "2026-09-30", Clones: 3, UniqueClones: 3},
			},
		},
		{
			name:   "input order does not matter",
			views:  []model.DailyCount{{Date: "2026-10-05", Count: 1}, {Date: "2026-10-04", Count: 2}},
			clones: []model.DailyCount{{Date: "2026-10-06", Count: 3}},
			expected: []model.TrafficSample{
				{Date: "2026-10-04", Views: 2},
				{Date: "2026-10-05", Views: 1},
				{Date: "2026-10-06", Clones: 3},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(ByDate(tc.views), ByDate(tc.clones))
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMerge_IsSymmetricInDates(t *testing.T) {
	a := ByDate([]model.DailyCount{{Date: "2026-10-01", Count: 1}, {Date: "2026-10-02", Count: 2}})
	b := ByDate([]model.DailyCount{{Date: "2026-10-02", Count: 3}, {Date: "2026-10-03", Count: 4}})

	dates := func(samples []model.TrafficSample) []string {
		out := make([]string, 0, len(samples))
		for _, s := range samples {
			out = append(out, s.Date)
		}
		return out
	}
	assert.Equal(t, dates(Merge(a, b)), dates(Merge(b, a)))
}

func TestByDate_LastEntryWins(t *testing.T) {
	m := ByDate([]model.DailyCount{
		{Date: "2026-10-01", Count: 1},
		{Date: "2026-10-01", Count: 9},
	})
	assert.Len(t, m, 1)
	assert.Equal(t, int64(9), m["2026-10-01"].Count)
}
