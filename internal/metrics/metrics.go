// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Note metrics
	IncNoteCreated()
	IncNoteUpdated()
	IncNoteDeleted()
	ObserveNoteQueryDuration(duration time.Duration)

	// Account metrics
	IncUserRegistered()
	IncLogin(success bool)

	// Rate limiting
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
