// Package model defines domain entities for the application.
package model

import (
	"sort"
	"strings"
	"time"
)

// Status represents the workflow state of a note.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
)

// ValidStatuses contains all valid status values.
var ValidStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus normalizes a client supplied status.
// Matching is case-insensitive; the returned value is always lower case.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(raw))
	if !s.IsValid() {
		return "", false
	}
	return s, true
}

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Note represents a user-owned note.
type Note struct {
	ID        string    `json:"_id" db:"id"`
	OwnerID   string    `json:"userId" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Tags      []string  `json:"tags" db:"tags"`
	Status    Status    `json:"status" db:"status"`
	IsPinned  bool      `json:"isPinned" db:"is_pinned"`
	CreatedOn time.Time `json:"createdOn" db:"created_on"`
}

// SortNotes orders notes pinned first, then newest first.
// Notes created at the same instant fall back to descending id, which for
// ULIDs keeps the later insert first.
func SortNotes(notes []*Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return noteLess(notes[i], notes[j])
	})
}

func noteLess(a, b *Note) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	if !a.CreatedOn.Equal(b.CreatedOn) {
		return a.CreatedOn.After(b.CreatedOn)
	}
	return a.ID > b.ID
}
