package ui

import (
	"context"
	"file-explorer/internal/domain/port"
	"strings"

	"github.com/c-bata/go-prompt"
)

// CompleteFunc returns completion candidates for the text before the cursor.
type CompleteFunc func(textBeforeCursor string) []port.Completion

// lineHooks are the key bindings and exit check installed for one read.
type lineHooks struct {
	keyBinds []prompt.KeyBind
	exit     prompt.ExitChecker
}

// readLineFunc reads one line from the terminal.
type readLineFunc func(prefix string, completer prompt.Completer, hooks lineHooks, opts ...prompt.Option) string

func promptInput(prefix string, completer prompt.Completer, hooks lineHooks, opts ...prompt.Option) string {
	opts = append(opts,
		prompt.OptionAddKeyBind(hooks.keyBinds...),
		prompt.OptionSetExitCheckerOnInput(hooks.exit),
	)
	return prompt.Input(prefix, completer, opts...)
}

// PromptAdapter is the interactive terminal front end. Input is read with go-prompt,
// which adds line editing, history navigation and tab completion; output goes through
// the embedded CLIAdapter.
//
// go-prompt keeps the terminal in raw mode while reading, so Ctrl+C arrives as a key
// rather than SIGINT. It is handed to the function set with SetInterruptFunc.
type PromptAdapter struct {
	*CLIAdapter
	history     *HistoryManager
	complete    CompleteFunc
	colored     bool
	onInterrupt func()
	readLine    readLineFunc
}

// NewPromptAdapter creates a PromptAdapter writing through out. history may be nil.
func NewPromptAdapter(out *CLIAdapter, history *HistoryManager) *PromptAdapter {
	return &PromptAdapter{
		CLIAdapter: out,
		history:    history,
		colored:    out.colorEnabled,
		readLine:   promptInput,
	}
}

// SetCompleter installs the completion source used on tab.
func (p *PromptAdapter) SetCompleter(complete CompleteFunc) {
	p.complete = complete
}

// SetColorEnabled turns colors on or off for both the prompt and the output.
func (p *PromptAdapter) SetColorEnabled(enabled bool) {
	p.colored = enabled
	p.CLIAdapter.SetColorEnabled(enabled)
}

// SetInterruptFunc sets the function called for each Ctrl+C typed at the prompt.
func (p *PromptAdapter) SetInterruptFunc(fn func()) {
	p.onInterrupt = fn
}

// GetUserInput reads one line with completion and history. It returns false on
// Ctrl+D at an empty prompt and when ctx is cancelled while reading.
func (p *PromptAdapter) GetUserInput(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	default:
	}

	opts := []prompt.Option{
		prompt.OptionTitle("file-explorer"),
		prompt.OptionMaxSuggestion(12),
	}
	if p.history != nil {
		opts = append(opts, prompt.OptionHistory(p.history.History()))
	}
	if p.colored {
		opts = append(opts, prompt.OptionPrefixTextColor(prompt.Green))
	}

	submitted := false
	line := p.readLine(p.prompt, p.completer, p.hooks(ctx, &submitted), opts...)
	if ctx.Err() != nil {
		return "", false
	}
	// go-prompt returns an empty line for Ctrl+D too; only Enter submits.
	if !submitted {
		return "", false
	}
	if p.history != nil {
		// Empty lines and repeats are rejected by the history itself.
		_ = p.history.Add(line)
	}
	return line, true
}

// hooks builds the key bindings for one read. submitted is set when the line is
// entered with Enter. The read ends early once ctx is cancelled, which the second
// Ctrl+C of a pair does.
func (p *PromptAdapter) hooks(ctx context.Context, submitted *bool) lineHooks {
	enter := func(*prompt.Buffer) { *submitted = true }
	return lineHooks{
		keyBinds: []prompt.KeyBind{
			{Key: prompt.Enter, Fn: enter},
			{Key: prompt.ControlJ, Fn: enter},
			{Key: prompt.ControlM, Fn: enter},
			{Key: prompt.ControlC, Fn: func(*prompt.Buffer) {
				if p.onInterrupt != nil {
					p.onInterrupt()
				}
			}},
		},
		exit: func(string, bool) bool {
			return ctx.Err() != nil
		},
	}
}

// completer adapts the completion source to go-prompt.
func (p *PromptAdapter) completer(d prompt.Document) []prompt.Suggest {
	if p.complete == nil {
		return nil
	}
	text := d.TextBeforeCursor()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	candidates := p.complete(text)
	suggests := make([]prompt.Suggest, 0, len(candidates))
	for _, c := range candidates {
		suggests = append(suggests, prompt.Suggest{Text: c.Text, Description: c.Description})
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), false)
}

var _ port.UserInterface = (*PromptAdapter)(nil)
