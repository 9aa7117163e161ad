// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/notekeep/notekeep/internal/metrics"
	"github.com/notekeep/notekeep/internal/model"
	"github.com/notekeep/notekeep/internal/repository"
)

// NoteStore persists notes. Every method is scoped to an owner.
type NoteStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, ownerID, id string) (*model.Note, error)
	FindNotes(ctx context.Context, ownerID string, filter repository.NoteFilter) ([]*model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, ownerID, id string) error
}

// NoteService handles note business logic.
type NoteService struct {
	store   NoteStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewNoteService creates a new NoteService.
func NewNoteService(store NoteStore, recorder metrics.Recorder) *NoteService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &NoteService{
		store:   store,
		metrics: recorder,
		now:     time.Now,
	}
}

// AddNoteInput defines input for creating a note.
// An empty Status means pending.
type AddNoteInput struct {
	Title    string
	Content  string
	Tags     []string
	Status   string
	IsPinned bool
}

// AddNote creates a note owned by uid.
func (s *NoteService) AddNote(ctx context.Context, uid string, input AddNoteInput) (*model.Note, error) {
	if isBlank(input.Title) {
		return nil, invalid(msgTitleRequired)
	}
	if isBlank(input.Content) {
		return nil, invalid(msgContentRequired)
	}

	status := model.StatusPending
	if input.Status != "" {
		parsed, ok := model.ParseStatus(input.Status)
		if !ok {
			return nil, invalid(msgInvalidStatusValue)
		}
		status = parsed
	}

	note := &model.Note{
		ID:        ulid.Make().String(),
		OwnerID:   uid,
		Title:     input.Title,
		Content:   input.Content,
		Tags:      normalizeTags(input.Tags),
		Status:    status,
		IsPinned:  input.IsPinned,
		CreatedOn: s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.metrics.IncNoteCreated()
	return note, nil
}

// EditNoteInput defines a partial note update. Nil fields are not supplied.
// Empty Title, Content and Status strings are ignored; a non-nil empty Tags
// slice clears the tags.
type EditNoteInput struct {
	Title    *string
	Content  *string
	Tags     *[]string
	Status   *string
	IsPinned *bool
}

func (in EditNoteInput) hasChanges() bool {
	return supplied(in.Title) || supplied(in.Content) || supplied(in.Status) ||
		in.Tags != nil || in.IsPinned != nil
}

// EditNote applies the supplied fields to a note owned by uid.
func (s *NoteService) EditNote(ctx context.Context, uid, noteID string, input EditNoteInput) (*model.Note, error) {
	if !input.hasChanges() {
		return nil, invalid(msgNoChanges)
	}

	var status model.Status
	if supplied(input.Status) {
		parsed, ok := model.ParseStatus(*input.Status)
		if !ok {
			return nil, invalid(msgInvalidStatusValue)
		}
		status = parsed
	}

	note, err := s.getNote(ctx, uid, noteID)
	if err != nil {
		return nil, err
	}

	if supplied(input.Title) {
		note.Title = *input.Title
	}
	if supplied(input.Content) {
		note.Content = *input.Content
	}
	if input.Tags != nil {
		note.Tags = normalizeTags(*input.Tags)
	}
	if status != "" {
		note.Status = status
	}
	if input.IsPinned != nil {
		note.IsPinned = *input.IsPinned
	}

	return s.updateNote(ctx, note)
}

// DeleteNote permanently removes a note owned by uid.
func (s *NoteService) DeleteNote(ctx context.Context, uid, noteID string) error {
	if err := s.store.DeleteNote(ctx, uid, noteID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.metrics.IncNoteDeleted()
	return nil
}

// SetStatus changes the workflow status of a note owned by uid.
func (s *NoteService) SetStatus(ctx context.Context, uid, noteID, status string) (*model.Note, error) {
	parsed, ok := model.ParseStatus(status)
	if !ok {
		return nil, invalid(msgInvalidStatus)
	}

	note, err := s.getNote(ctx, uid, noteID)
	if err != nil {
		return nil, err
	}

	note.Status = parsed
	return s.updateNote(ctx, note)
}

// SetPinned sets the pinned flag of a note owned by uid.
func (s *NoteService) SetPinned(ctx context.Context, uid, noteID string, pinned bool) (*model.Note, error) {
	note, err := s.getNote(ctx, uid, noteID)
	if err != nil {
		return nil, err
	}

	note.IsPinned = pinned
	return s.updateNote(ctx, note)
}

// ListAll returns every note owned by uid, pinned first then newest first.
func (s *NoteService) ListAll(ctx context.Context, uid string) ([]*model.Note, error) {
	return s.find(ctx, uid, repository.NoteFilter{OrderPinned: true})
}

// SearchByText returns notes whose title or content contains query,
// ignoring case. The query is matched literally.
func (s *NoteService) SearchByText(ctx context.Context, uid, query string) ([]*model.Note, error) {
	if query == "" {
		return nil, invalid(msgSearchQueryRequired)
	}
	return s.find(ctx, uid, repository.NoteFilter{Text: query})
}

// SearchByTags returns notes sharing at least one tag with the
// comma-separated list.
func (s *NoteService) SearchByTags(ctx context.Context, uid, tagsCSV string) ([]*model.Note, error) {
	tags := normalizeTags(strings.Split(tagsCSV, ","))
	if len(tags) == 0 {
		return nil, invalid(msgTagsRequired)
	}
	return s.find(ctx, uid, repository.NoteFilter{Tags: tags, OrderPinned: true})
}

// SearchByStatus returns notes with the given status, ignoring case.
func (s *NoteService) SearchByStatus(ctx context.Context, uid, status string) ([]*model.Note, error) {
	parsed, ok := model.ParseStatus(status)
	if !ok {
		return nil, invalid(msgStatusRequired)
	}
	return s.find(ctx, uid, repository.NoteFilter{Status: parsed, OrderPinned: true})
}

func (s *NoteService) getNote(ctx context.Context, uid, noteID string) (*model.Note, error) {
	note, err := s.store.GetNote(ctx, uid, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

func (s *NoteService) updateNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	if err := s.store.UpdateNote(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	s.metrics.IncNoteUpdated()
	return note, nil
}

func (s *NoteService) find(ctx context.Context, uid string, filter repository.NoteFilter) ([]*model.Note, error) {
	start := time.Now()
	notes, err := s.store.FindNotes(ctx, uid, filter)
	s.metrics.ObserveNoteQueryDuration(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to find notes: %w", err)
	}

	if filter.OrderPinned {
		model.SortNotes(notes)
	}
	if notes == nil {
		notes = []*model.Note{}
	}
	return notes, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func supplied(s *string) bool {
	return s != nil && !isBlank(*s)
}

// normalizeTags trims each tag and drops empty ones, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
