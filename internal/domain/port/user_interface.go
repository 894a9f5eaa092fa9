package port

import (
	"context"
	"errors"
	"file-explorer/internal/domain/entity"
)

var (
	ErrInvalidPrompt = errors.New("invalid prompt")
	ErrInvalidColor  = errors.New("invalid color scheme")
)

// ColorScheme defines the color configuration for the user interface.
type ColorScheme struct {
	Message   string `json:"message"`   // Color for regular command output
	System    string `json:"system"`    // Color for banners and status lines
	Error     string `json:"error"`     // Color for error messages
	Warning   string `json:"warning"`   // Color for warnings
	Directory string `json:"directory"` // Color for directory names in listings
	Prompt    string `json:"prompt"`    // Color for the input prompt
}

// Completion is one candidate offered by interactive line completion.
type Completion struct {
	Text        string `json:"text"`        // Replacement for the word before the cursor
	Description string `json:"description"` // Short hint shown next to the candidate
}

// UserInterface defines the interface for CLI interactions.
// This port represents the inbound dependency for user interactions and follows
// hexagonal architecture principles by abstracting user interface implementations.
type UserInterface interface {
	// GetUserInput gets a command line from the user with context support.
	// Returns the input string and a boolean indicating if the session should continue.
	GetUserInput(ctx context.Context) (string, bool)

	// DisplayMessage displays one line of command output.
	DisplayMessage(message string) error

	// DisplayLines displays file content lines.
	DisplayLines(lines []string) error

	// DisplayListing displays directory entries in aligned columns.
	DisplayListing(entries []entity.DirectoryEntry) error

	// DisplayError displays an error message.
	DisplayError(err error) error

	// DisplayWarning displays a non-fatal problem.
	DisplayWarning(message string) error

	// DisplaySystemMessage displays a system message.
	DisplaySystemMessage(message string) error

	// SetPrompt sets the user input prompt.
	SetPrompt(prompt string) error

	// ClearScreen clears the terminal screen.
	ClearScreen() error

	// SetColorScheme sets the color scheme for the interface.
	SetColorScheme(scheme ColorScheme) error
}
