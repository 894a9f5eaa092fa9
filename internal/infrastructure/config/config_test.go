package config

import (
	"file-explorer/internal/infrastructure/adapter/file"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

// TestConfig_Defaults verifies the values used when nothing is configured.
func TestConfig_Defaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, ".", cfg.WorkingDir)
	assert.Equal(t, file.BackendOS, cfg.Backend)
	assert.Equal(t, "~/.file-explorer-history", cfg.HistoryFile)
	assert.Equal(t, 1000, cfg.HistoryMaxEntries)
	assert.False(t, cfg.OverwriteOnCreate)
	assert.False(t, cfg.FollowSymlinks)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.False(t, cfg.CatTruncate)
	assert.Equal(t, 40, cfg.CatHeadLines)
	assert.Equal(t, 20, cfg.CatTailLines)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "stderr", cfg.LogFile)
	assert.True(t, cfg.Color)
	assert.Equal(t, InteractiveAuto, cfg.Interactive)
	assert.Equal(t, 22, cfg.SFTP.Port)
	assert.NoError(t, cfg.Validate())
}

// TestConfig_EnvironmentVariables verifies EXPLORER_ overrides.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Run("string, int and bool keys", func(t *testing.T) {
		resetViper(t)
		t.Setenv("EXPLORER_WORKING_DIR", "/srv/data")
		t.Setenv("EXPLORER_BACKEND", "Memory")
		t.Setenv("EXPLORER_MAX_DEPTH", "8")
		t.Setenv("EXPLORER_FOLLOW_SYMLINKS", "true")
		t.Setenv("EXPLORER_COLOR", "false")
		t.Setenv("EXPLORER_CAT_TRUNCATE", "1")

		cfg, err := LoadConfig("")
		require.NoError(t, err)

		assert.Equal(t, "/srv/data", cfg.WorkingDir)
		assert.Equal(t, file.BackendMemory, cfg.Backend, "backend names are normalised")
		assert.Equal(t, 8, cfg.MaxDepth)
		assert.True(t, cfg.FollowSymlinks)
		assert.False(t, cfg.Color)
		assert.True(t, cfg.CatTruncate)
	})

	t.Run("sftp settings", func(t *testing.T) {
		resetViper(t)
		t.Setenv("EXPLORER_SFTP_HOST", "files.example.com")
		t.Setenv("EXPLORER_SFTP_PORT", "2222")
		t.Setenv("EXPLORER_SFTP_USER", "alice")
		t.Setenv("EXPLORER_SFTP_KEY_FILE", "/keys/id_ed25519")

		cfg, err := LoadConfig("")
		require.NoError(t, err)

		assert.Equal(t, file.SFTPConfig{
			Host:    "files.example.com",
			Port:    2222,
			User:    "alice",
			KeyFile: "/keys/id_ed25519",
		}, cfg.SFTP)
	})

	t.Run("EXPLORER_HISTORY_MAX_ENTRIES overrides default", func(t *testing.T) {
		resetViper(t)
		t.Setenv("EXPLORER_HISTORY_MAX_ENTRIES", "250")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 250, cfg.HistoryMaxEntries)
	})

	t.Run("zero or negative max entries uses default of 1000", func(t *testing.T) {
		for _, v := range []string{"0", "-100"} {
			resetViper(t)
			t.Setenv("EXPLORER_HISTORY_MAX_ENTRIES", v)

			cfg, err := LoadConfig("")
			require.NoError(t, err)
			assert.Equal(t, 1000, cfg.HistoryMaxEntries, v)
		}
	})

	t.Run("empty history file is valid for in-memory only mode", func(t *testing.T) {
		resetViper(t)
		t.Setenv("EXPLORER_HISTORY_FILE", "")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Empty(t, cfg.HistoryFile)
	})
}

// TestConfig_ConfigFile verifies loading from a file and its priority against
// environment variables and explicit values.
func TestConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explorer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: memory
workingDir: /projects
maxDepth: 10
overwriteOnCreate: true
welcomeMessage: hello
sftp:
  host: files.example.com
  user: bob
  knownHosts: /etc/ssh/known_hosts
`), 0o600))

	t.Run("values are read from the file", func(t *testing.T) {
		resetViper(t)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, file.BackendMemory, cfg.Backend)
		assert.Equal(t, "/projects", cfg.WorkingDir)
		assert.Equal(t, 10, cfg.MaxDepth)
		assert.True(t, cfg.OverwriteOnCreate)
		assert.Equal(t, "hello", cfg.WelcomeMessage)
		assert.Equal(t, "files.example.com", cfg.SFTP.Host)
		assert.Equal(t, "bob", cfg.SFTP.User)
		assert.Equal(t, "/etc/ssh/known_hosts", cfg.SFTP.KnownHosts)
		assert.Equal(t, 22, cfg.SFTP.Port, "unset keys keep their defaults")
	})

	t.Run("environment beats the file", func(t *testing.T) {
		resetViper(t)
		t.Setenv("EXPLORER_MAX_DEPTH", "5")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.MaxDepth)
	})

	t.Run("explicit values beat the environment", func(t *testing.T) {
		resetViper(t)
		t.Setenv("EXPLORER_MAX_DEPTH", "5")
		viper.Set("maxDepth", 3)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.MaxDepth)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		resetViper(t)

		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

// TestConfig_Validate covers the rejected combinations.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Backend = "ftp" },
			wantErr: file.ErrUnknownBackend,
		},
		{
			name:    "sftp without host",
			mutate:  func(c *Config) { c.Backend = file.BackendSFTP; c.SFTP.User = "alice" },
			wantErr: ErrIncompleteSFTP,
		},
		{
			name:    "sftp without user",
			mutate:  func(c *Config) { c.Backend = file.BackendSFTP; c.SFTP.Host = "example.com" },
			wantErr: ErrIncompleteSFTP,
		},
		{
			name:    "bad interactive mode",
			mutate:  func(c *Config) { c.Interactive = "sometimes" },
			wantErr: ErrInvalidInteractive,
		},
		{
			name:    "negative depth",
			mutate:  func(c *Config) { c.MaxDepth = -1 },
			wantErr: ErrNegativeLimit,
		},
		{
			name:    "negative tail",
			mutate:  func(c *Config) { c.CatTailLines = -5 },
			wantErr: ErrNegativeLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}

	t.Run("bad log level", func(t *testing.T) {
		cfg := Defaults()
		cfg.LogLevel = "loud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("complete sftp settings pass", func(t *testing.T) {
		cfg := Defaults()
		cfg.Backend = file.BackendSFTP
		cfg.SFTP.Host = "example.com"
		cfg.SFTP.User = "alice"
		assert.NoError(t, cfg.Validate())
	})
}
