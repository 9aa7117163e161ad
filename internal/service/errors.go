package service

import "errors"

// Service errors.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNoteNotFound       = errors.New("note not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError carries a message that is safe to show to the client.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// Client-facing validation messages.
const (
	msgAllFieldsRequired   = "All fields are required"
	msgInvalidEmail        = "Please enter a valid email"
	msgPasswordTooLong     = "Password must be at most 72 bytes"
	msgCredentialsRequired = "Email and password are required"
	msgTitleRequired       = "Title is required!"
	msgContentRequired     = "Content is required"
	msgInvalidStatusValue  = "Invalid status value"
	msgNoChanges           = "No changes provided"
	msgInvalidStatus       = "Invalid status"
	msgSearchQueryRequired = "Search query is required"
	msgTagsRequired        = "Tags are required for search"
	msgStatusRequired      = "Valid status is required for search"
)
