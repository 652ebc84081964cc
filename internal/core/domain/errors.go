package domain

import "errors"

// Error kinds. The HTTP layer maps each kind to one status code.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Validation(msg string) *Error   { return &Error{Kind: ErrValidation, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: ErrConflict, Message: msg} }

var (
	ErrCredentialsRequired = Validation("Username and password are required.")
	ErrInvalidEmail        = Validation("Email must be a valid address.")
	ErrPasswordTooLong     = Validation("Password must be at most 72 bytes.")
	ErrUserExists          = Conflict("Username already exists.")
	ErrInvalidCredentials  = Unauthorized("Invalid username or password.")
	ErrMissingToken        = Unauthorized("Access denied. No token provided.")
	ErrInvalidToken        = Unauthorized("Invalid or expired token.")
	ErrUserNotFound        = Unauthorized("User not found.")
	ErrAdminRequired       = Forbidden("Access denied. Admin privileges required.")

	ErrMovieNotFound       = NotFound("Movie not found.")
	ErrMovieFieldsRequired = Validation("Title and source_url are required.")
	ErrNoFieldsToUpdate    = Validation("No fields to update.")
	ErrEmptyTitle          = Validation("Title cannot be empty.")
	ErrEmptySourceURL      = Validation("source_url cannot be empty.")
)
