package dto

import (
	"time"

	"github.com/notekeep/notekeep/internal/model"
)

// AddNoteRequest represents the request body for creating a note.
type AddNoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status"`
	IsPinned bool     `json:"isPinned"`
}

// EditNoteRequest represents a partial note update.
// Absent and null fields decode to nil and are left unchanged.
type EditNoteRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	Status   *string   `json:"status"`
	IsPinned *bool     `json:"isPinned"`
}

// UpdateStatusRequest represents the body of a status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePinnedRequest represents the body of a pin change.
type UpdatePinnedRequest struct {
	IsPinned bool `json:"isPinned"`
}

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Status    string    `json:"status"`
	IsPinned  bool      `json:"isPinned"`
	UserID    string    `json:"userId"`
	CreatedOn time.Time `json:"createdOn"`
}

// NoteEnvelope wraps a single note.
type NoteEnvelope struct {
	Error   bool          `json:"error"`
	Note    *NoteResponse `json:"note"`
	Message string        `json:"message"`
}

// NotesEnvelope wraps a list of notes.
type NotesEnvelope struct {
	Error   bool           `json:"error"`
	Notes   []NoteResponse `json:"notes"`
	Message string         `json:"message"`
}

// ToNoteResponse converts a note to its API form. Tags are never null.
func ToNoteResponse(note *model.Note) *NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return &NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		Status:    string(note.Status),
		IsPinned:  note.IsPinned,
		UserID:    note.OwnerID,
		CreatedOn: note.CreatedOn,
	}
}

// ToNoteResponses converts a list of notes, preserving order.
func ToNoteResponses(notes []*model.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, *ToNoteResponse(n))
	}
	return out
}
