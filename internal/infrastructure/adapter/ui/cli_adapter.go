// Package ui provides user interface adapters for the file explorer.
package ui

import (
	"bufio"
	"context"
	"file-explorer/internal/domain/entity"
	"file-explorer/internal/domain/port"
	"fmt"
	"io"
	"os"
	"strings"
)

const colorReset = "\x1b[0m"

// CLIAdapter implements the UserInterface port on plain line-oriented I/O.
// It is used when stdin is not a terminal and as the output half of PromptAdapter.
type CLIAdapter struct {
	input            io.Reader
	output           io.Writer
	prompt           string
	colors           port.ColorScheme
	colorEnabled     bool
	scanner          *bufio.Scanner
	truncationConfig TruncationConfig
}

// defaultColorScheme returns the default ANSI color scheme for CLI output.
func defaultColorScheme() port.ColorScheme {
	return port.ColorScheme{
		Message:   "",           // Terminal default
		System:    "\x1b[96m",   // Cyan
		Error:     "\x1b[91m",   // Red
		Warning:   "\x1b[93m",   // Yellow
		Directory: "\x1b[1;94m", // Bold blue
		Prompt:    "\x1b[92m",   // Green
	}
}

// NewCLIAdapter creates a new CLIAdapter with default I/O (stdin/stdout).
func NewCLIAdapter() *CLIAdapter {
	return NewCLIAdapterWithIO(os.Stdin, os.Stdout)
}

// NewCLIAdapterWithIO creates a new CLIAdapter with custom I/O for testing.
func NewCLIAdapterWithIO(input io.Reader, output io.Writer) *CLIAdapter {
	return &CLIAdapter{
		input:            input,
		output:           output,
		prompt:           "> ",
		colors:           defaultColorScheme(),
		colorEnabled:     true,
		truncationConfig: DefaultTruncationConfig(),
	}
}

// GetUserInput prints the prompt and reads one line.
// It returns false at end of input or when ctx is already cancelled.
func (c *CLIAdapter) GetUserInput(ctx context.Context) (string, bool) {
	if c.scanner == nil {
		c.scanner = bufio.NewScanner(c.input)
	}

	select {
	case <-ctx.Done():
		return "", false
	default:
	}

	if _, err := fmt.Fprint(c.output, c.paint(c.colors.Prompt, c.prompt)); err != nil {
		return "", false
	}

	if !c.scanner.Scan() {
		return "", false
	}
	return c.scanner.Text(), true
}

// DisplayMessage displays one line of command output.
func (c *CLIAdapter) DisplayMessage(message string) error {
	_, err := fmt.Fprintln(c.output, c.paint(c.colors.Message, message))
	return err
}

// DisplayLines displays file content. Long content is cut down to its head and
// tail when truncation is enabled.
func (c *CLIAdapter) DisplayLines(lines []string) error {
	shown, _ := TruncateLines(lines, c.truncationConfig)
	for _, line := range shown {
		if _, err := fmt.Fprintln(c.output, line); err != nil {
			return err
		}
	}
	return nil
}

// DisplayListing displays directory entries in aligned columns.
func (c *CLIAdapter) DisplayListing(entries []entity.DirectoryEntry) error {
	if len(entries) == 0 {
		return c.DisplaySystemMessage("(empty)")
	}
	_, err := io.WriteString(c.output, FormatListing(entries, c.entryName))
	return err
}

func (c *CLIAdapter) entryName(e entity.DirectoryEntry) string {
	switch e.Kind {
	case entity.KindDirectory:
		return c.paint(c.colors.Directory, e.Name+"/")
	case entity.KindSymlink:
		return e.Name + "@"
	default:
		return e.Name
	}
}

// DisplayError displays an error message.
func (c *CLIAdapter) DisplayError(err error) error {
	if err == nil {
		return nil
	}
	_, writeErr := fmt.Fprintln(c.output, c.paint(c.colors.Error, "Error: "+err.Error()))
	return writeErr
}

// DisplayWarning displays a non-fatal problem.
func (c *CLIAdapter) DisplayWarning(message string) error {
	_, err := fmt.Fprintln(c.output, c.paint(c.colors.Warning, "Warning: "+message))
	return err
}

// DisplaySystemMessage displays a system message.
func (c *CLIAdapter) DisplaySystemMessage(message string) error {
	_, err := fmt.Fprintln(c.output, c.paint(c.colors.System, message))
	return err
}

// SetPrompt sets the user input prompt.
func (c *CLIAdapter) SetPrompt(prompt string) error {
	if prompt == "" {
		return port.ErrInvalidPrompt
	}
	c.prompt = prompt
	return nil
}

// Prompt returns the current input prompt.
func (c *CLIAdapter) Prompt() string {
	return c.prompt
}

// ClearScreen clears the terminal screen.
func (c *CLIAdapter) ClearScreen() error {
	// ANSI clear screen and move cursor to top-left
	_, err := fmt.Fprint(c.output, "\x1b[2J\x1b[H")
	return err
}

// SetColorScheme sets the color scheme for the interface.
func (c *CLIAdapter) SetColorScheme(scheme port.ColorScheme) error {
	if scheme == (port.ColorScheme{}) {
		return port.ErrInvalidColor
	}

	// Only set non-empty fields (partial scheme support)
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&c.colors.Message, scheme.Message)
	set(&c.colors.System, scheme.System)
	set(&c.colors.Error, scheme.Error)
	set(&c.colors.Warning, scheme.Warning)
	set(&c.colors.Directory, scheme.Directory)
	set(&c.colors.Prompt, scheme.Prompt)
	return nil
}

// SetColorEnabled turns ANSI colors on or off.
func (c *CLIAdapter) SetColorEnabled(enabled bool) {
	c.colorEnabled = enabled
}

// SetTruncationConfig sets how DisplayLines shortens long file content.
// Pass a config with Enabled=false to print everything.
func (c *CLIAdapter) SetTruncationConfig(config TruncationConfig) {
	c.truncationConfig = config
}

// GetTruncationConfig returns the current truncation configuration.
func (c *CLIAdapter) GetTruncationConfig() TruncationConfig {
	return c.truncationConfig
}

func (c *CLIAdapter) paint(color, text string) string {
	if !c.colorEnabled || color == "" || text == "" {
		return text
	}
	if strings.HasSuffix(text, colorReset) {
		return color + text
	}
	return color + text + colorReset
}

var _ port.UserInterface = (*CLIAdapter)(nil)
