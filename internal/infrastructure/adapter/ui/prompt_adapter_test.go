package ui

import (
	"bytes"
	"context"
	"file-explorer/internal/domain/port"
	"strings"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRead is one simulated prompt.Input call: the keys typed and the line returned.
type scriptedRead struct {
	keys []prompt.Key
	line string
}

func entered(line string) scriptedRead {
	return scriptedRead{keys: []prompt.Key{prompt.Enter}, line: line}
}

// press runs the bindings for key and reports whether the read would end.
func press(hooks lineHooks, key prompt.Key) bool {
	for _, kb := range hooks.keyBinds {
		if kb.Key == key {
			kb.Fn(prompt.NewBuffer())
		}
	}
	return hooks.exit("", false)
}

func newTestPromptAdapter(reads ...scriptedRead) (*PromptAdapter, *[]string) {
	history := NewHistoryManager(afero.NewMemMapFs(), "", 0)
	adapter := NewPromptAdapter(NewCLIAdapterWithIO(strings.NewReader(""), &bytes.Buffer{}), history)

	var prefixes []string
	adapter.readLine = func(prefix string, _ prompt.Completer, hooks lineHooks, _ ...prompt.Option) string {
		prefixes = append(prefixes, prefix)
		if len(reads) == 0 {
			// Ctrl+D at an empty prompt
			return ""
		}
		read := reads[0]
		reads = reads[1:]
		for _, key := range read.keys {
			if press(hooks, key) {
				return ""
			}
		}
		return read.line
	}
	return adapter, &prefixes
}

func TestPromptAdapter_GetUserInput(t *testing.T) {
	t.Run("returns lines and records history", func(t *testing.T) {
		adapter, prefixes := newTestPromptAdapter(entered("ls"), entered(""), entered("pwd"))
		require.NoError(t, adapter.SetPrompt("/srv> "))

		for _, want := range []string{"ls", "", "pwd"} {
			line, ok := adapter.GetUserInput(context.Background())
			assert.True(t, ok)
			assert.Equal(t, want, line)
		}

		assert.Equal(t, []string{"ls", "pwd"}, adapter.history.History())
		assert.Equal(t, []string{"/srv> ", "/srv> ", "/srv> "}, *prefixes)
	})

	t.Run("ctrl+d at an empty prompt ends input", func(t *testing.T) {
		adapter, _ := newTestPromptAdapter(entered("ls"))

		_, ok := adapter.GetUserInput(context.Background())
		require.True(t, ok)

		line, ok := adapter.GetUserInput(context.Background())
		assert.False(t, ok)
		assert.Empty(t, line)
	})

	t.Run("ctrl+c is passed to the interrupt function", func(t *testing.T) {
		adapter, _ := newTestPromptAdapter(scriptedRead{
			keys: []prompt.Key{prompt.ControlC, prompt.Enter},
			line: "pwd",
		})
		presses := 0
		adapter.SetInterruptFunc(func() { presses++ })

		line, ok := adapter.GetUserInput(context.Background())
		assert.True(t, ok)
		assert.Equal(t, "pwd", line)
		assert.Equal(t, 1, presses)
	})

	t.Run("read ends when ctrl+c cancels the context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		adapter, _ := newTestPromptAdapter(scriptedRead{
			keys: []prompt.Key{prompt.ControlC, prompt.ControlC, prompt.Enter},
			line: "pwd",
		})
		presses := 0
		adapter.SetInterruptFunc(func() {
			presses++
			if presses == 2 {
				cancel()
			}
		})

		line, ok := adapter.GetUserInput(ctx)
		assert.False(t, ok)
		assert.Empty(t, line)
		assert.Equal(t, 2, presses)
		assert.Empty(t, adapter.history.History())
	})

	t.Run("ctrl+c without an interrupt function is harmless", func(t *testing.T) {
		adapter, _ := newTestPromptAdapter(scriptedRead{
			keys: []prompt.Key{prompt.ControlC, prompt.Enter},
			line: "ls",
		})

		line, ok := adapter.GetUserInput(context.Background())
		assert.True(t, ok)
		assert.Equal(t, "ls", line)
	})

	t.Run("cancelled context ends the session", func(t *testing.T) {
		adapter, prefixes := newTestPromptAdapter(entered("ls"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, ok := adapter.GetUserInput(ctx)
		assert.False(t, ok)
		assert.Empty(t, *prefixes)
	})
}

func TestPromptAdapter_Completer(t *testing.T) {
	adapter, _ := newTestPromptAdapter()
	adapter.SetCompleter(func(text string) []port.Completion {
		if strings.HasPrefix(text, "cd ") {
			return []port.Completion{{Text: "docs/"}, {Text: "downloads/"}, {Text: "music/"}}
		}
		return []port.Completion{{Text: "cat", Description: "print a file"}, {Text: "cd"}, {Text: "ls"}}
	})

	document := func(text string) prompt.Document {
		buf := prompt.NewBuffer()
		buf.InsertText(text, false, true)
		return *buf.Document()
	}

	t.Run("filters commands by the typed word", func(t *testing.T) {
		got := adapter.completer(document("c"))
		assert.Equal(t, []prompt.Suggest{{Text: "cat", Description: "print a file"}, {Text: "cd"}}, got)
	})

	t.Run("filters paths by the word before the cursor", func(t *testing.T) {
		got := adapter.completer(document("cd do"))
		assert.Equal(t, []prompt.Suggest{{Text: "docs/"}, {Text: "downloads/"}}, got)
	})

	t.Run("blank line offers nothing", func(t *testing.T) {
		assert.Empty(t, adapter.completer(document("")))
	})

	t.Run("no completer offers nothing", func(t *testing.T) {
		bare, _ := newTestPromptAdapter()
		assert.Empty(t, bare.completer(document("c")))
	})
}
