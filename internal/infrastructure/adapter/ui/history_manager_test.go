package ui_test

import (
	"file-explorer/internal/infrastructure/adapter/ui"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyPath = "/home/user/.file-explorer-history"

func readHistoryFile(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	data, err := afero.ReadFile(fs, historyPath)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestNewHistoryManager(t *testing.T) {
	t.Run("empty file path keeps history in memory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		hm := ui.NewHistoryManager(fs, "", 100)

		require.NoError(t, hm.Add("ls"))
		assert.Equal(t, []string{"ls"}, hm.History())

		entries, err := afero.ReadDir(fs, "/")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("loads existing entries skipping blank lines", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, historyPath, []byte("ls\n\n  cd /tmp  \npwd\n"), 0o600))

		hm := ui.NewHistoryManager(fs, historyPath, 0)

		assert.Equal(t, []string{"ls", "cd /tmp", "pwd"}, hm.History())
	})

	t.Run("loading applies the entry limit", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, historyPath, []byte("one\ntwo\nthree\n"), 0o600))

		hm := ui.NewHistoryManager(fs, historyPath, 2)

		assert.Equal(t, []string{"two", "three"}, hm.History())
	})
}

func TestHistoryManager_Add(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		wantErr error
	}{
		{name: "empty entry", entries: []string{""}, wantErr: ui.ErrEmptyEntry},
		{name: "whitespace entry", entries: []string{"   \t"}, wantErr: ui.ErrEmptyEntry},
		{name: "embedded newline", entries: []string{"ls\npwd"}, wantErr: ui.ErrEmbeddedNewline},
		{name: "consecutive duplicate", entries: []string{"ls", " ls "}, wantErr: ui.ErrConsecutiveDuplicate},
		{name: "non consecutive duplicate", entries: []string{"ls", "pwd", "ls"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm := ui.NewHistoryManager(afero.NewMemMapFs(), "", 0)

			var err error
			for _, entry := range tt.entries {
				err = hm.Add(entry)
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, len(tt.entries), hm.Size())
		})
	}
}

func TestHistoryManager_Persistence(t *testing.T) {
	t.Run("entries are appended to the file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		hm := ui.NewHistoryManager(fs, historyPath, 0)

		require.NoError(t, hm.Add("ls"))
		require.NoError(t, hm.Add("cd docs"))

		assert.Equal(t, []string{"ls", "cd docs"}, readHistoryFile(t, fs))

		info, err := fs.Stat(historyPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("trimming rewrites the file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		hm := ui.NewHistoryManager(fs, historyPath, 2)

		for _, entry := range []string{"a", "b", "c"} {
			require.NoError(t, hm.Add(entry))
		}

		assert.Equal(t, []string{"b", "c"}, hm.History())
		assert.Equal(t, []string{"b", "c"}, readHistoryFile(t, fs))
	})

	t.Run("history survives a restart", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		first := ui.NewHistoryManager(fs, historyPath, 10)
		require.NoError(t, first.Add("mkdir build"))

		second := ui.NewHistoryManager(fs, historyPath, 10)
		last, ok := second.Last()
		assert.True(t, ok)
		assert.Equal(t, "mkdir build", last)
	})

	t.Run("clear empties memory and file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		hm := ui.NewHistoryManager(fs, historyPath, 0)
		require.NoError(t, hm.Add("ls"))

		hm.Clear()

		assert.Zero(t, hm.Size())
		_, ok := hm.Last()
		assert.False(t, ok)
		data, err := afero.ReadFile(fs, historyPath)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("unwritable location keeps working in memory", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		hm := ui.NewHistoryManager(fs, historyPath, 0)

		require.NoError(t, hm.Add("ls"))
		assert.Equal(t, []string{"ls"}, hm.History())
	})
}

func TestHistoryManager_HistoryReturnsCopy(t *testing.T) {
	hm := ui.NewHistoryManager(afero.NewMemMapFs(), "", 0)
	require.NoError(t, hm.Add("ls"))

	history := hm.History()
	history[0] = "changed"

	assert.Equal(t, []string{"ls"}, hm.History())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/.file-explorer-history", filepath.Join(home, ".file-explorer-history")},
		{"/abs/path", "/abs/path"},
		{"relative/path", "relative/path"},
		{"~other/path", "~other/path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ui.ExpandPath(tt.input))
		})
	}
}
