package cmd

import (
	"bytes"
	"context"
	"errors"
	"file-explorer/internal/infrastructure/adapter/file"
	"file-explorer/internal/infrastructure/config"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, input string) (*shell, *bytes.Buffer) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Backend = file.BackendMemory
	cfg.WorkingDir = "/"
	cfg.Color = false
	cfg.Interactive = config.InteractiveNever

	var out bytes.Buffer
	container, err := config.NewContainerWithIO(cfg, strings.NewReader(input), &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	return &shell{
		svc:     container.ExplorerService(),
		ui:      container.UIAdapter(),
		out:     &out,
		welcome: "hello",
		goodbye: "bye",
	}, &out
}

func TestShell_Run(t *testing.T) {
	t.Run("runs commands until exit", func(t *testing.T) {
		sh, out := newTestShell(t, "mkdir a\nbogus\nls\nexit\npwd\n")

		require.NoError(t, sh.run(context.Background()))

		text := out.String()
		assert.True(t, strings.HasPrefix(text, "hello\n"))
		assert.Contains(t, text, "Created directory /a")
		assert.Contains(t, text, `unknown command "bogus"`, "errors do not end the session")
		assert.Contains(t, text, "a/")
		assert.True(t, strings.HasSuffix(text, "bye\n"))
		assert.Equal(t, 1, strings.Count(text, "bye"), "input after exit is not read")
	})

	t.Run("end of input ends the session", func(t *testing.T) {
		sh, out := newTestShell(t, "pwd\n")

		require.NoError(t, sh.run(context.Background()))
		assert.True(t, strings.HasSuffix(out.String(), "bye\n"))
	})

	t.Run("cancelled context ends the session", func(t *testing.T) {
		sh, out := newTestShell(t, "pwd\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.NoError(t, sh.run(ctx))
		assert.Contains(t, out.String(), "bye")
		assert.NotContains(t, out.String(), "/\n/")
	})
}

func TestShell_Reload(t *testing.T) {
	t.Run("pending reload is applied before the next command", func(t *testing.T) {
		sh, out := newTestShell(t, "pwd\nexit\n")
		reloads := make(chan struct{}, 1)
		reloads <- struct{}{}
		calls := 0
		sh.reloads = reloads
		sh.reload = func() error {
			calls++
			return nil
		}

		require.NoError(t, sh.run(context.Background()))
		assert.Equal(t, 1, calls)
		assert.Contains(t, out.String(), "Configuration reloaded")
	})

	t.Run("failed reload is reported and the session continues", func(t *testing.T) {
		sh, out := newTestShell(t, "pwd\nexit\n")
		reloads := make(chan struct{}, 1)
		reloads <- struct{}{}
		sh.reloads = reloads
		sh.reload = func() error { return errors.New("bad file") }

		require.NoError(t, sh.run(context.Background()))
		assert.Contains(t, out.String(), "Error: reload failed: bad file")
		assert.Contains(t, out.String(), "/\n")
	})

	t.Run("no reload without a request", func(t *testing.T) {
		sh, _ := newTestShell(t, "pwd\nexit\n")
		calls := 0
		sh.reloads = make(chan struct{}, 1)
		sh.reload = func() error {
			calls++
			return nil
		}

		require.NoError(t, sh.run(context.Background()))
		assert.Zero(t, calls)
	})
}
