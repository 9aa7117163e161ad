package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/handler/dto"
	"github.com/notekeep/notekeep/internal/metrics"
	"github.com/notekeep/notekeep/internal/middleware"
	"github.com/notekeep/notekeep/internal/service"
	"github.com/notekeep/notekeep/internal/testutil/memstore"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testAPI struct {
	t        *testing.T
	router   http.Handler
	store    *memstore.Store
	recorder *metrics.InMemoryRecorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	sessions, err := auth.NewSessionIssuer(testSecret, "notekeep", time.Hour)
	require.NoError(t, err)

	logger := discardLogger()
	store := memstore.New()
	recorder := metrics.NewInMemory()
	hasher := auth.NewPasswordHasher(auth.AlgorithmBcrypt, bcrypt.MinCost)

	h := New(logger)
	accounts := NewAccountHandler(service.NewAccountService(store, hasher, sessions, recorder), logger)
	notes := NewNoteHandler(service.NewNoteService(store, recorder), logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.StripSlashes)
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/", h.Hello)
	r.Post("/create-account", accounts.CreateAccount)
	r.Post("/login", accounts.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{Logger: logger, Verifier: sessions}))
		r.Get("/get-user", accounts.GetUser)
		r.Post("/add-note", notes.AddNote)
		r.Put("/edit-note/{noteId}", notes.EditNote)
		r.Delete("/delete-note/{noteId}", notes.DeleteNote)
		r.Get("/get-all-notes", notes.GetAllNotes)
		r.Get("/search-notes", notes.SearchNotes)
		r.Get("/search-notes-by-tags", notes.SearchNotesByTags)
		r.Get("/search-notes-by-status", notes.SearchNotesByStatus)
		r.Put("/update-note-status/{noteId}", notes.UpdateNoteStatus)
		r.Put("/update-note-pinned/{noteId}", notes.UpdateNotePinned)
	})

	return &testAPI{t: t, router: r, store: store, recorder: recorder}
}

// do sends a request. A string body is sent verbatim; anything else is
// JSON encoded.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its access token and user.
func (a *testAPI) register(email string) (string, *dto.UserResponse) {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/create-account", "", dto.CreateAccountRequest{
		FullName: "Test User",
		Email:    email,
		Password: "correct horse",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dto.CreateAccountResponse](a.t, rec)
	require.False(a.t, res.Error)
	return res.AccessToken, res.User
}

func (a *testAPI) addNote(token string, req dto.AddNoteRequest) *dto.NoteResponse {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/add-note", token, req)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[dto.NoteEnvelope](a.t, rec).Note
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func noteIDs(notes []dto.NoteResponse) []string {
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	return ids
}

// =============================================================================
// Accounts
// =============================================================================

func TestAPI_CreateAccount(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/create-account", "", dto.CreateAccountRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "analytical",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "analytical")
	assert.NotContains(t, rec.Body.String(), "password")

	res := decode[dto.CreateAccountResponse](t, rec)
	assert.False(t, res.Error)
	assert.Equal(t, "Registration Successful", res.Message)
	assert.NotEmpty(t, res.AccessToken)
	require.NotNil(t, res.User)
	assert.Equal(t, "Ada Lovelace", res.User.FullName)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.NotEmpty(t, res.User.ID)
}

func TestAPI_CreateAccount_Validation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"missing name", dto.CreateAccountRequest{Email: "a@b.co", Password: "pw"}, "All fields are required"},
		{"missing password", dto.CreateAccountRequest{FullName: "A", Email: "a@b.co"}, "All fields are required"},
		{"empty body", nil, "All fields are required"},
		{"bad email", dto.CreateAccountRequest{FullName: "A", Email: "not-an-email", Password: "pw"}, "Please enter a valid email"},
		{"malformed json", `{"fullName":`, msgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/create-account", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			res := decode[dto.MessageResponse](t, rec)
			assert.True(t, res.Error)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestAPI_CreateAccount_DuplicateReturns200WithErrorFlag(t *testing.T) {
	api := newTestAPI(t)
	api.register("dup@example.com")

	rec := api.do(http.MethodPost, "/create-account", "", dto.CreateAccountRequest{
		FullName: "Someone Else",
		Email:    "DUP@example.com",
		Password: "another",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.MessageResponse](t, rec)
	assert.True(t, res.Error)
	assert.Equal(t, "User already exists", res.Message)
}

func TestAPI_Login(t *testing.T) {
	api := newTestAPI(t)
	api.register("login@example.com")

	rec := api.do(http.MethodPost, "/login", "", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.LoginResponse](t, rec)
	assert.False(t, res.Error)
	assert.Equal(t, "Login successful", res.Message)
	assert.Equal(t, "login@example.com", res.Email)
	assert.NotEmpty(t, res.AccessToken)

	// The fresh token authenticates.
	rec = api.do(http.MethodGet, "/get-user", res.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_Login_Failures(t *testing.T) {
	api := newTestAPI(t)
	api.register("login@example.com")

	wrongPassword := api.do(http.MethodPost, "/login", "", dto.LoginRequest{Email: "login@example.com", Password: "nope"})
	unknownEmail := api.do(http.MethodPost, "/login", "", dto.LoginRequest{Email: "ghost@example.com", Password: "nope"})

	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownEmail} {
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		res := decode[dto.LoginResponse](t, rec)
		assert.True(t, res.Error)
		assert.Equal(t, "Invalid credentials", res.Message)
		assert.Empty(t, res.AccessToken)
	}

	rec := api.do(http.MethodPost, "/login", "", dto.LoginRequest{Email: "login@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email and password are required", decode[dto.MessageResponse](t, rec).Message)

	snap := api.recorder.Snapshot()
	assert.Equal(t, uint64(2), snap.LoginsFailed)
}

func TestAPI_GetUser(t *testing.T) {
	api := newTestAPI(t)
	token, user := api.register("me@example.com")

	rec := api.do(http.MethodGet, "/get-user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.GetUserResponse](t, rec)
	assert.Equal(t, "", res.Message)
	require.NotNil(t, res.User)
	assert.Equal(t, user.ID, res.User.ID)
	assert.Equal(t, "me@example.com", res.User.Email)
	assert.Equal(t, "Test User", res.User.FullName)
}

func TestAPI_GetUser_Unauthorized(t *testing.T) {
	api := newTestAPI(t)
	token, user := api.register("gone@example.com")

	rec := api.do(http.MethodGet, "/get-user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, decode[dto.MessageResponse](t, rec).Error)

	rec = api.do(http.MethodGet, "/get-user", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A valid token for a deleted account no longer resolves.
	api.store.DeleteUser(user.ID)
	rec = api.do(http.MethodGet, "/get-user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =============================================================================
// Notes
// =============================================================================

func TestAPI_AddNote(t *testing.T) {
	api := newTestAPI(t)
	token, user := api.register("notes@example.com")

	rec := api.do(http.MethodPost, "/add-note", token, dto.AddNoteRequest{
		Title:   "Groceries",
		Content: "milk, eggs",
		Tags:    []string{" food ", "", "home"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.NoteEnvelope](t, rec)
	assert.False(t, res.Error)
	assert.Equal(t, "Note added successfully", res.Message)
	require.NotNil(t, res.Note)
	assert.NotEmpty(t, res.Note.ID)
	assert.Equal(t, user.ID, res.Note.UserID)
	assert.Equal(t, []string{"food", "home"}, res.Note.Tags)
	assert.Equal(t, "pending", res.Note.Status)
	assert.False(t, res.Note.IsPinned)
	assert.False(t, res.Note.CreatedOn.IsZero())
}

func TestAPI_AddNote_WireFormat(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("wire@example.com")

	rec := api.do(http.MethodPost, "/add-note", token, `{"title":"t","content":"c"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Note map[string]json.RawMessage `json:"note"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	for _, key := range []string{"_id", "title", "content", "tags", "status", "isPinned", "userId", "createdOn"} {
		assert.Contains(t, raw.Note, key)
	}
	assert.JSONEq(t, `[]`, string(raw.Note["tags"]))
}

func TestAPI_AddNote_Validation(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("v@example.com")

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"missing title", dto.AddNoteRequest{Content: "c"}, "Title is required!"},
		{"blank title", dto.AddNoteRequest{Title: "   ", Content: "c"}, "Title is required!"},
		{"missing content", dto.AddNoteRequest{Title: "t"}, "Content is required"},
		{"bad status", dto.AddNoteRequest{Title: "t", Content: "c", Status: "done"}, "Invalid status value"},
		{"malformed json", `{"title":1}`, msgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/add-note", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decode[dto.MessageResponse](t, rec).Message)
		})
	}
	assert.Equal(t, 0, api.store.NoteCount())
}

func TestAPI_NoteRoutesRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/add-note"},
		{http.MethodPut, "/edit-note/x"},
		{http.MethodDelete, "/delete-note/x"},
		{http.MethodGet, "/get-all-notes"},
		{http.MethodGet, "/search-notes?query=a"},
		{http.MethodGet, "/search-notes-by-tags?tags=a"},
		{http.MethodGet, "/search-notes-by-status?status=pending"},
		{http.MethodPut, "/update-note-status/x"},
		{http.MethodPut, "/update-note-pinned/x"},
	}

	for _, rt := range routes {
		rec := api.do(rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.path)
	}
}

func TestAPI_EditNote(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("edit@example.com")
	note := api.addNote(token, dto.AddNoteRequest{Title: "old", Content: "body", Tags: []string{"a"}})

	rec := api.do(http.MethodPut, "/edit-note/"+note.ID, token, `{"title":"new","status":"In Progress"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.NoteEnvelope](t, rec)
	assert.Equal(t, "Note updated successfully", res.Message)
	assert.Equal(t, "new", res.Note.Title)
	assert.Equal(t, "body", res.Note.Content)
	assert.Equal(t, []string{"a"}, res.Note.Tags)
	assert.Equal(t, "in progress", res.Note.Status)
	assert.Equal(t, note.CreatedOn, res.Note.CreatedOn)

	// An explicit empty array clears the tags.
	rec = api.do(http.MethodPut, "/edit-note/"+note.ID, token, `{"tags":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[dto.NoteEnvelope](t, rec).Note.Tags)
}

func TestAPI_EditNote_Errors(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("owner@example.com")
	otherToken, _ := api.register("other@example.com")
	note := api.addNote(token, dto.AddNoteRequest{Title: "t", Content: "c"})

	rec := api.do(http.MethodPut, "/edit-note/"+note.ID, token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No changes provided", decode[dto.MessageResponse](t, rec).Message)

	rec = api.do(http.MethodPut, "/edit-note/"+note.ID, token, `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status value", decode[dto.MessageResponse](t, rec).Message)

	rec = api.do(http.MethodPut, "/edit-note/missing", token, `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Note not found", decode[dto.MessageResponse](t, rec).Message)

	// Another user's note is indistinguishable from a missing one.
	rec = api.do(http.MethodPut, "/edit-note/"+note.ID, otherToken, `{"title":"hijack"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_DeleteNote(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("del@example.com")
	otherToken, _ := api.register("other@example.com")
	note := api.addNote(token, dto.AddNoteRequest{Title: "t", Content: "c"})

	rec := api.do(http.MethodDelete, "/delete-note/"+note.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, api.store.NoteCount())

	rec = api.do(http.MethodDelete, "/delete-note/"+note.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.MessageResponse](t, rec)
	assert.False(t, res.Error)
	assert.Equal(t, "Note deleted successfully", res.Message)

	rec = api.do(http.MethodDelete, "/delete-note/"+note.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_GetAllNotes_PinnedFirstThenNewest(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("list@example.com")
	otherToken, _ := api.register("other@example.com")

	first := api.addNote(token, dto.AddNoteRequest{Title: "first", Content: "c"})
	pinned := api.addNote(token, dto.AddNoteRequest{Title: "pinned", Content: "c", IsPinned: true})
	last := api.addNote(token, dto.AddNoteRequest{Title: "last", Content: "c"})
	api.addNote(otherToken, dto.AddNoteRequest{Title: "foreign", Content: "c"})

	rec := api.do(http.MethodGet, "/get-all-notes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.NotesEnvelope](t, rec)
	assert.Equal(t, "All notes retrieved successfully", res.Message)
	assert.Equal(t, []string{pinned.ID, last.ID, first.ID}, noteIDs(res.Notes))
}

func TestAPI_GetAllNotes_EmptyIsArray(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("empty@example.com")

	rec := api.do(http.MethodGet, "/get-all-notes/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":false,"notes":[],"message":"All notes retrieved successfully"}`, rec.Body.String())
}

func TestAPI_SearchNotes(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("search@example.com")
	hit := api.addNote(token, dto.AddNoteRequest{Title: "Meeting notes", Content: "agenda"})
	api.addNote(token, dto.AddNoteRequest{Title: "Shopping", Content: "bread"})

	rec := api.do(http.MethodGet, "/search-notes?query=MEETING", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.NotesEnvelope](t, rec)
	assert.Equal(t, "Notes matching the search query retrieved successfully", res.Message)
	assert.Equal(t, []string{hit.ID}, noteIDs(res.Notes))

	rec = api.do(http.MethodGet, "/search-notes/?query=(", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[dto.NotesEnvelope](t, rec).Notes)

	rec = api.do(http.MethodGet, "/search-notes", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search query is required", decode[dto.MessageResponse](t, rec).Message)
}

func TestAPI_SearchNotesByTags(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("tags@example.com")
	work := api.addNote(token, dto.AddNoteRequest{Title: "w", Content: "c", Tags: []string{"work"}})
	home := api.addNote(token, dto.AddNoteRequest{Title: "h", Content: "c", Tags: []string{"home"}})
	api.addNote(token, dto.AddNoteRequest{Title: "x", Content: "c", Tags: []string{"misc"}})

	rec := api.do(http.MethodGet, "/search-notes-by-tags?tags=work,%20home", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.NotesEnvelope](t, rec)
	assert.Equal(t, "Notes matching the tags retrieved successfully", res.Message)
	assert.ElementsMatch(t, []string{work.ID, home.ID}, noteIDs(res.Notes))

	rec = api.do(http.MethodGet, "/search-notes-by-tags?tags=,", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Tags are required for search", decode[dto.MessageResponse](t, rec).Message)
}

func TestAPI_SearchNotesByStatus(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("status@example.com")
	done := api.addNote(token, dto.AddNoteRequest{Title: "d", Content: "c", Status: "completed"})
	api.addNote(token, dto.AddNoteRequest{Title: "p", Content: "c"})

	rec := api.do(http.MethodGet, "/search-notes-by-status?status=Completed", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.NotesEnvelope](t, rec)
	assert.Equal(t, "Notes matching the status retrieved successfully", res.Message)
	assert.Equal(t, []string{done.ID}, noteIDs(res.Notes))

	rec = api.do(http.MethodGet, "/search-notes-by-status?status=done", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Valid status is required for search", decode[dto.MessageResponse](t, rec).Message)
}

func TestAPI_UpdateNoteStatus(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("st@example.com")
	note := api.addNote(token, dto.AddNoteRequest{Title: "t", Content: "c"})

	rec := api.do(http.MethodPut, "/update-note-status/"+note.ID, token, dto.UpdateStatusRequest{Status: "IN PROGRESS"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.NoteEnvelope](t, rec)
	assert.Equal(t, "Note status updated successfully", res.Message)
	assert.Equal(t, "in progress", res.Note.Status)

	rec = api.do(http.MethodPut, "/update-note-status/"+note.ID, token, dto.UpdateStatusRequest{Status: "later"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", decode[dto.MessageResponse](t, rec).Message)

	rec = api.do(http.MethodPut, "/update-note-status/missing", token, dto.UpdateStatusRequest{Status: "completed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_UpdateNotePinned(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("pin@example.com")
	note := api.addNote(token, dto.AddNoteRequest{Title: "t", Content: "c"})

	rec := api.do(http.MethodPut, "/update-note-pinned/"+note.ID, token, dto.UpdatePinnedRequest{IsPinned: true})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.NoteEnvelope](t, rec)
	assert.Equal(t, "Note pin status updated successfully", res.Message)
	assert.True(t, res.Note.IsPinned)

	// A missing field unpins.
	rec = api.do(http.MethodPut, "/update-note-pinned/"+note.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[dto.NoteEnvelope](t, rec).Note.IsPinned)

	rec = api.do(http.MethodPut, "/update-note-pinned/missing", token, dto.UpdatePinnedRequest{IsPinned: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_StoreFailureIsGeneric500(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("boom@example.com")
	api.store.Err = errors.New("connection refused to db-primary")

	rec := api.do(http.MethodGet, "/get-all-notes", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	res := decode[dto.MessageResponse](t, rec)
	assert.True(t, res.Error)
	assert.Equal(t, "Internal Server Error", res.Message)
}

func TestAPI_UnknownRouteAndMethod(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, decode[dto.MessageResponse](t, rec).Error)

	rec = api.do(http.MethodDelete, "/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.True(t, decode[dto.MessageResponse](t, rec).Error)
}
