package domain

import "time"

// RunState enumerates pipeline milestones.
type RunState string

const (
	StateIdle        RunState = "idle"
	StateFetching    RunState = "fetching"
	StateScoring     RunState = "scoring"
	StateAggregating RunState = "aggregating"
	StateMerging     RunState = "merging"
	StatePersisted   RunState = "persisted"
	StateFailed      RunState = "failed"
)

// Terminal reports whether no further transitions can happen.
func (s RunState) Terminal() bool {
	return s == StatePersisted || s == StateFailed
}

// RunReport summarizes a single pipeline execution.
type RunReport struct {
	RunID        string
	Query        string
	WindowDays   int
	StartedAt    time.Time
	FinishedAt   time.Time
	State        RunState
	FailedStage  RunState
	Articles     int
	IncomingDays []DailySummaryRow
	StoredDays   int
	Err          error
	Warnings     []string
}

// Duration is the wall time of the run.
func (r RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
