// internal/model/models.go
package model

import "time"

// DateLayout is the calendar-day format used for every stored and queried date.
const DateLayout = "2006-01-02"

// Repository is a tracked GitHub repository.
type Repository struct {
	ID    int64  `json:"-"`
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the slash-joined "owner/name" key.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// DailyCount is one daily bucket of a single traffic series (views or clones).
type DailyCount struct {
	Date    string
	Count   int64
	Uniques int64
}

// TrafficSample is one calendar day of view and clone counters for a repository.
type TrafficSample struct {
	Date         string `json:"date"`
	Views        int64  `json:"views"`
	UniqueViews  int64  `json:"unique_views"`
	Clones       int64  `json:"clones"`
	UniqueClones int64  `json:"unique_clones"`
}

// DailyTotal is the cross-repository sum of views and clones for one day.
type DailyTotal struct {
	Date   string `json:"date"`
	Views  int64  `json:"views"`
	Clones int64  `json:"clones"`
}

// Totals holds the view and clone sums over a whole window.
type Totals struct {
	Views  int64 `json:"total_views"`
	Clones int64 `json:"total_clones"`
}

// CycleReport summarizes one collection cycle.
type CycleReport struct {
	StartedAt         time.Time     `json:"started_at"`
	Duration          time.Duration `json:"duration_ns"`
	CredentialMissing bool          `json:"credential_missing"`
	Repositories      int           `json:"repositories"`
	Succeeded         int           `json:"succeeded"`
	Failed            int           `json:"failed"`
	SamplesWritten    int           `json:"samples_written"`
}
