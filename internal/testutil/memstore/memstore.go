// Package memstore is an in-memory user and note store for tests. It follows
// the repository package's contracts, including owner scoping and errors.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/notekeep/notekeep/internal/model"
	"github.com/notekeep/notekeep/internal/repository"
)

// Store implements the service layer's UserStore and NoteStore.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*model.User
	notes     map[string]*model.Note
	noteOrder []string

	// Err, when set, is returned by every method.
	Err error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users: make(map[string]*model.User),
		notes: make(map[string]*model.Note),
	}
}

// CreateUser stores a user, rejecting duplicate emails.
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetUserByID returns a copy of the user.
func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail returns a copy of the user with that email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// DeleteUser removes a user. Used to simulate accounts that disappear.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// CreateNote stores a note.
func (s *Store) CreateNote(_ context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	s.notes[note.ID] = cloneNote(note)
	s.noteOrder = append(s.noteOrder, note.ID)
	return nil
}

// GetNote returns a copy of the note when ownerID owns it.
func (s *Store) GetNote(_ context.Context, ownerID, id string) (*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	n, ok := s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return nil, repository.ErrNoteNotFound
	}
	return cloneNote(n), nil
}

// FindNotes returns the owner's notes matching filter in insertion order.
// Ordering for OrderPinned is left to the caller.
func (s *Store) FindNotes(_ context.Context, ownerID string, filter repository.NoteFilter) ([]*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]*model.Note, 0)
	for _, id := range s.noteOrder {
		n, ok := s.notes[id]
		if !ok || n.OwnerID != ownerID || !matches(n, filter) {
			continue
		}
		out = append(out, cloneNote(n))
	}
	return out, nil
}

// UpdateNote overwrites a note's mutable fields when the owner matches.
func (s *Store) UpdateNote(_ context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	existing, ok := s.notes[note.ID]
	if !ok || existing.OwnerID != note.OwnerID {
		return repository.ErrNoteNotFound
	}

	updated := cloneNote(note)
	updated.CreatedOn = existing.CreatedOn
	s.notes[note.ID] = updated
	return nil
}

// DeleteNote removes a note when the owner matches.
func (s *Store) DeleteNote(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	n, ok := s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return repository.ErrNoteNotFound
	}
	delete(s.notes, id)
	s.noteOrder = slices.DeleteFunc(s.noteOrder, func(v string) bool { return v == id })
	return nil
}

// NoteCount returns the number of stored notes across all owners.
func (s *Store) NoteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

func matches(n *model.Note, filter repository.NoteFilter) bool {
	if filter.Text != "" {
		q := strings.ToLower(filter.Text)
		if !strings.Contains(strings.ToLower(n.Title), q) && !strings.Contains(strings.ToLower(n.Content), q) {
			return false
		}
	}
	if len(filter.Tags) > 0 && !slices.ContainsFunc(n.Tags, func(t string) bool {
		return slices.Contains(filter.Tags, t)
	}) {
		return false
	}
	if filter.Status != "" && n.Status != filter.Status {
		return false
	}
	return true
}

func cloneNote(n *model.Note) *model.Note {
	cp := *n
	cp.Tags = slices.Clone(n.Tags)
	if cp.Tags == nil {
		cp.Tags = []string{}
	}
	return &cp
}
