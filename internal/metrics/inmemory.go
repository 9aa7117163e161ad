package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	NotesCreated        uint64
	NotesUpdated        uint64
	NotesDeleted        uint64
	NoteQueryCount      uint64
	NoteQueryTotalNs    int64
	UsersRegistered     uint64
	LoginsSucceeded     uint64
	LoginsFailed        uint64
	RateLimitedRequests uint64
}

// InMemoryRecorder keeps counters in memory. It backs the /metrics
// endpoint and is used directly by tests.
type InMemoryRecorder struct {
	notesCreated        atomic.Uint64
	notesUpdated        atomic.Uint64
	notesDeleted        atomic.Uint64
	noteQueryCount      atomic.Uint64
	noteQueryTotalNs    atomic.Int64
	usersRegistered     atomic.Uint64
	loginsSucceeded     atomic.Uint64
	loginsFailed        atomic.Uint64
	rateLimitedRequests atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		NotesCreated:        m.notesCreated.Load(),
		NotesUpdated:        m.notesUpdated.Load(),
		NotesDeleted:        m.notesDeleted.Load(),
		NoteQueryCount:      m.noteQueryCount.Load(),
		NoteQueryTotalNs:    m.noteQueryTotalNs.Load(),
		UsersRegistered:     m.usersRegistered.Load(),
		LoginsSucceeded:     m.loginsSucceeded.Load(),
		LoginsFailed:        m.loginsFailed.Load(),
		RateLimitedRequests: m.rateLimitedRequests.Load(),
	}
}

// IncNoteCreated increments the note created counter.
func (m *InMemoryRecorder) IncNoteCreated() {
	m.notesCreated.Add(1)
}

// IncNoteUpdated increments the note updated counter.
func (m *InMemoryRecorder) IncNoteUpdated() {
	m.notesUpdated.Add(1)
}

// IncNoteDeleted increments the note deleted counter.
func (m *InMemoryRecorder) IncNoteDeleted() {
	m.notesDeleted.Add(1)
}

// ObserveNoteQueryDuration records how long a list or search took.
func (m *InMemoryRecorder) ObserveNoteQueryDuration(duration time.Duration) {
	m.noteQueryCount.Add(1)
	m.noteQueryTotalNs.Add(duration.Nanoseconds())
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	m.usersRegistered.Add(1)
}

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(success bool) {
	if success {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncRateLimited increments the rejected request counter.
func (m *InMemoryRecorder) IncRateLimited() {
	m.rateLimitedRequests.Add(1)
}
