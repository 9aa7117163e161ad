package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/handler/dto"
	"github.com/notekeep/notekeep/internal/model"
	"github.com/notekeep/notekeep/internal/service"
)

// NoteHandler handles note CRUD and search endpoints.
// Every route requires an authenticated identity in the context.
type NoteHandler struct {
	svc    *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteHandler{svc: svc, logger: logger}
}

// AddNote handles POST /add-note.
func (h *NoteHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.AddNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	note, err := h.svc.AddNote(r.Context(), uid, service.AddNoteInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Status:   req.Status,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeNote(w, note, "Note added successfully")
}

// EditNote handles PUT /edit-note/{noteId}.
func (h *NoteHandler) EditNote(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.EditNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	note, err := h.svc.EditNote(r.Context(), uid, chi.URLParam(r, "noteId"), service.EditNoteInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Status:   req.Status,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeNote(w, note, "Note updated successfully")
}

// DeleteNote handles DELETE /delete-note/{noteId}.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteNote(r.Context(), uid, chi.URLParam(r, "noteId")); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Note deleted successfully"})
}

// GetAllNotes handles GET /get-all-notes.
func (h *NoteHandler) GetAllNotes(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	notes, err := h.svc.ListAll(r.Context(), uid)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeNotes(w, notes, "All notes retrieved successfully")
}

// SearchNotes handles GET /search-notes?query=.
func (h *NoteHandler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	notes, err := h.svc.SearchByText(r.Context(), uid, r.URL.Query().Get("query"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeNotes(w, notes, "Notes matching the search query retrieved successfully")
}

// SearchNotesByTags handles GET /search-notes-by-tags?tags=a,b.
func (h *NoteHandler) SearchNotesByTags(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	notes, err := h.svc.SearchByTags(r.Context(), uid, r.URL.Query().Get("tags"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeNotes(w, notes, "Notes matching the tags retrieved successfully")
}

// SearchNotesByStatus handles GET /search-notes-by-status?status=.
func (h *NoteHandler) SearchNotesByStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	notes, err := h.svc.SearchByStatus(r.Context(), uid, r.URL.Query().Get("status"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeNotes(w, notes, "Notes matching the status retrieved successfully")
}

// UpdateNoteStatus handles PUT /update-note-status/{noteId}.
func (h *NoteHandler) UpdateNoteStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	note, err := h.svc.SetStatus(r.Context(), uid, chi.URLParam(r, "noteId"), req.Status)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeNote(w, note, "Note status updated successfully")
}

// UpdateNotePinned handles PUT /update-note-pinned/{noteId}.
// A missing isPinned field unpins the note.
func (h *NoteHandler) UpdateNotePinned(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePinnedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	note, err := h.svc.SetPinned(r.Context(), uid, chi.URLParam(r, "noteId"), req.IsPinned)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeNote(w, note, "Note pin status updated successfully")
}

// userID returns the authenticated user id, writing a 401 when absent.
func (h *NoteHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := auth.UserIDFromContext(r.Context())
	if uid == "" {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return "", false
	}
	return uid, true
}

func writeNote(w http.ResponseWriter, note *model.Note, message string) {
	writeJSON(w, http.StatusOK, dto.NoteEnvelope{
		Note:    dto.ToNoteResponse(note),
		Message: message,
	})
}

func writeNotes(w http.ResponseWriter, notes []*model.Note, message string) {
	writeJSON(w, http.StatusOK, dto.NotesEnvelope{
		Notes:   dto.ToNoteResponses(notes),
		Message: message,
	})
}
