// Package dto provides Data Transfer Objects for the application layer.
package dto

// Validation errors for DTOs

var (
	// ErrEmptyCommand is returned when an input line holds no command.
	ErrEmptyCommand = NewValidationError("command cannot be empty")

	// ErrUnterminatedQuote is returned when a double quote is opened but never closed.
	ErrUnterminatedQuote = NewValidationError("unterminated quote")

	// ErrUnknownCommand is returned when the command name matches no command.
	ErrUnknownCommand = NewValidationError("unknown command")

	// ErrMissingArguments is returned when a command is given fewer arguments than it needs.
	ErrMissingArguments = NewValidationError("missing arguments")

	// ErrTooManyArguments is returned when a command is given more arguments than it accepts.
	ErrTooManyArguments = NewValidationError("too many arguments")
)

// ValidationError represents a validation error in the application layer.
type ValidationError struct {
	Message string // The validation error message
}

// NewValidationError creates a new ValidationError.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation error: " + e.Message
}
