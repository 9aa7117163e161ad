package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/lib/pq"

	"github.com/notekeep/notekeep/internal/model"
)

// Common errors for note repository operations.
var (
	ErrNoteNotFound = errors.New("note not found")
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var noteColumns = []string{
	"id", "owner_id", "title", "content", "tags", "status", "is_pinned", "created_on",
}

// NoteFilter narrows a FindNotes query. Zero-valued fields are ignored.
type NoteFilter struct {
	// Text is matched case-insensitively as a literal substring of title or content.
	Text string
	// Tags matches notes sharing at least one tag.
	Tags []string
	// Status matches the stored (lower case) status exactly.
	Status model.Status
	// OrderPinned sorts pinned notes first, then newest first.
	OrderPinned bool
}

// CreateNote inserts a new note.
func (r *Repository) CreateNote(ctx context.Context, note *model.Note) error {
	query, args, err := psql.Insert("notes").
		Columns(noteColumns...).
		Values(
			note.ID,
			note.OwnerID,
			note.Title,
			note.Content,
			tagsArray(note.Tags),
			string(note.Status),
			note.IsPinned,
			note.CreatedOn,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetNote retrieves a note by ID, scoped to its owner.
func (r *Repository) GetNote(ctx context.Context, ownerID, id string) (*model.Note, error) {
	query, args, err := psql.Select(noteColumns...).
		From("notes").
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var note model.Note
	if err := pgxscan.Get(ctx, r.pool, &note, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return &note, nil
}

// FindNotes lists an owner's notes matching the filter.
func (r *Repository) FindNotes(ctx context.Context, ownerID string, filter NoteFilter) ([]*model.Note, error) {
	query, args, err := buildFindNotesQuery(ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	notes := make([]*model.Note, 0)
	if err := pgxscan.Select(ctx, r.pool, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find notes: %w", err)
	}

	return notes, nil
}

// UpdateNote writes a note's mutable fields.
// Both id and owner must match; the owner can never be changed.
func (r *Repository) UpdateNote(ctx context.Context, note *model.Note) error {
	query, args, err := psql.Update("notes").
		Set("title", note.Title).
		Set("content", note.Content).
		Set("tags", tagsArray(note.Tags)).
		Set("status", string(note.Status)).
		Set("is_pinned", note.IsPinned).
		Where(sq.Eq{"id": note.ID, "owner_id": note.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// DeleteNote permanently removes a note.
func (r *Repository) DeleteNote(ctx context.Context, ownerID, id string) error {
	query, args, err := psql.Delete("notes").
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// buildFindNotesQuery composes the owner-scoped select for FindNotes.
func buildFindNotesQuery(ownerID string, filter NoteFilter) (string, []any, error) {
	q := psql.Select(noteColumns...).
		From("notes").
		Where(sq.Eq{"owner_id": ownerID})

	if filter.Text != "" {
		pattern := "%" + escapeLike(filter.Text) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"content": pattern},
		})
	}

	if len(filter.Tags) > 0 {
		q = q.Where("tags && ?", pq.Array(filter.Tags))
	}

	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}

	if filter.OrderPinned {
		q = q.OrderBy("is_pinned DESC", "created_on DESC", "id DESC")
	}

	return q.ToSql()
}

// tagsArray binds tags as a TEXT[]; nil becomes an empty array, not NULL.
func tagsArray(tags []string) any {
	if tags == nil {
		tags = []string{}
	}
	return pq.Array(tags)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input safe for a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
