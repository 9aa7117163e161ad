package handler

import (
	"fmt"
	"net/http"

	"github.com/notekeep/notekeep/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "notekeep_notes_created_total %d\n", snap.NotesCreated)
	writeMetric(w, "notekeep_notes_updated_total %d\n", snap.NotesUpdated)
	writeMetric(w, "notekeep_notes_deleted_total %d\n", snap.NotesDeleted)
	writeMetric(w, "notekeep_note_query_duration_seconds_count %d\n", snap.NoteQueryCount)
	writeMetric(w, "notekeep_note_query_duration_seconds_sum %.6f\n", float64(snap.NoteQueryTotalNs)/1e9)

	writeMetric(w, "notekeep_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "notekeep_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "notekeep_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)

	writeMetric(w, "notekeep_rate_limited_requests_total %d\n", snap.RateLimitedRequests)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
