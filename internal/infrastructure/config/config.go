// Package config provides configuration management for the file explorer.
// It uses viper for loading configuration from command-line flags, environment variables,
// and optionally a config file.
//
// Configuration priority (highest to lowest):
// 1. Command-line flags
// 2. Environment variables (with EXPLORER_ prefix)
// 3. Config file (if specified)
// 4. Defaults
package config

import (
	"errors"
	"file-explorer/internal/infrastructure/adapter/file"
	"file-explorer/internal/infrastructure/logging"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Interactive modes.
const (
	InteractiveAuto   = "auto"
	InteractiveAlways = "always"
	InteractiveNever  = "never"
)

var (
	ErrInvalidInteractive = errors.New("interactive must be auto, always or never")
	ErrNegativeLimit      = errors.New("limit cannot be negative")
	ErrIncompleteSFTP     = errors.New("sftp backend needs sftp.host and sftp.user")
)

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"workingDir":        "WORKING_DIR",
	"backend":           "BACKEND",
	"historyFile":       "HISTORY_FILE",
	"historyMaxEntries": "HISTORY_MAX_ENTRIES",
	"overwriteOnCreate": "OVERWRITE_ON_CREATE",
	"followSymlinks":    "FOLLOW_SYMLINKS",
	"maxDepth":          "MAX_DEPTH",
	"catTruncate":       "CAT_TRUNCATE",
	"catHeadLines":      "CAT_HEAD_LINES",
	"catTailLines":      "CAT_TAIL_LINES",
	"logLevel":          "LOG_LEVEL",
	"logFile":           "LOG_FILE",
	"logJSON":           "LOG_JSON",
	"color":             "COLOR",
	"interactive":       "INTERACTIVE",
	"welcomeMessage":    "WELCOME_MESSAGE",
	"goodbyeMessage":    "GOODBYE_MESSAGE",
	"sftp.host":         "SFTP_HOST",
	"sftp.port":         "SFTP_PORT",
	"sftp.user":         "SFTP_USER",
	"sftp.password":     "SFTP_PASSWORD",
	"sftp.keyFile":      "SFTP_KEY_FILE",
	"sftp.knownHosts":   "SFTP_KNOWN_HOSTS",
}

// Config holds all configuration values for the application.
type Config struct {
	// WorkingDir is the directory the session starts in.
	// Defaults to "." (current directory)
	WorkingDir string

	// Backend selects the filesystem: os, memory or sftp.
	// Defaults to "os"
	Backend string

	// HistoryFile is where interactive input history is kept.
	// Empty keeps history in memory only.
	// Defaults to "~/.file-explorer-history"
	HistoryFile string

	// HistoryMaxEntries caps the number of remembered lines.
	// Defaults to 1000
	HistoryMaxEntries int

	// OverwriteOnCreate makes touch truncate existing files without -f.
	OverwriteOnCreate bool

	// FollowSymlinks makes search and find descend into linked directories.
	FollowSymlinks bool

	// MaxDepth bounds recursive traversal. Defaults to 64
	MaxDepth int

	// CatTruncate shortens long cat output to CatHeadLines and CatTailLines.
	CatTruncate  bool
	CatHeadLines int
	CatTailLines int

	// LogLevel is one of debug, info, warn, error. Defaults to "error"
	LogLevel string

	// LogFile is a path, "stderr" or "stdout". Defaults to "stderr"
	LogFile string

	// LogJSON switches log encoding from console to JSON.
	LogJSON bool

	// Color enables ANSI colors in output. Defaults to true
	Color bool

	// Interactive selects the line editor: auto uses it on a terminal.
	// Defaults to "auto"
	Interactive string

	// WelcomeMessage is displayed when the session starts.
	WelcomeMessage string

	// GoodbyeMessage is displayed when the session ends.
	GoodbyeMessage string

	SFTP file.SFTPConfig
}

// Defaults returns a Config struct with all default values set.
func Defaults() *Config {
	return &Config{
		WorkingDir:        ".",
		Backend:           file.BackendOS,
		HistoryFile:       "~/.file-explorer-history",
		HistoryMaxEntries: 1000,
		MaxDepth:          64,
		CatHeadLines:      40,
		CatTailLines:      20,
		LogLevel:          "error",
		LogFile:           "stderr",
		Color:             true,
		Interactive:       InteractiveAuto,
		WelcomeMessage:    "File explorer (type 'help' for commands, 'exit' or ctrl+c to quit)",
		GoodbyeMessage:    "Bye!",
		SFTP:              file.SFTPConfig{Port: 22},
	}
}

// LoadConfig loads the configuration from viper. It binds the EXPLORER_
// environment variables and, when configFile is not empty, reads that file
// (yaml, toml or json by extension).
//
// The caller is expected to have set up viper with BindPFlag() calls
// for command-line flags before calling this function.
func LoadConfig(configFile string) (*Config, error) {
	cfg := Defaults()

	viper.SetEnvPrefix("EXPLORER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AllowEmptyEnv(true)
	for key, env := range envBindings {
		if err := viper.BindEnv(key, "EXPLORER_"+env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	setString(&cfg.WorkingDir, "workingDir")
	setString(&cfg.Backend, "backend")
	setString(&cfg.HistoryFile, "historyFile")
	setInt(&cfg.HistoryMaxEntries, "historyMaxEntries")
	setBool(&cfg.OverwriteOnCreate, "overwriteOnCreate")
	setBool(&cfg.FollowSymlinks, "followSymlinks")
	setInt(&cfg.MaxDepth, "maxDepth")
	setBool(&cfg.CatTruncate, "catTruncate")
	setInt(&cfg.CatHeadLines, "catHeadLines")
	setInt(&cfg.CatTailLines, "catTailLines")
	setString(&cfg.LogLevel, "logLevel")
	setString(&cfg.LogFile, "logFile")
	setBool(&cfg.LogJSON, "logJSON")
	setBool(&cfg.Color, "color")
	setString(&cfg.Interactive, "interactive")
	setString(&cfg.WelcomeMessage, "welcomeMessage")
	setString(&cfg.GoodbyeMessage, "goodbyeMessage")
	setString(&cfg.SFTP.Host, "sftp.host")
	setInt(&cfg.SFTP.Port, "sftp.port")
	setString(&cfg.SFTP.User, "sftp.user")
	setString(&cfg.SFTP.Password, "sftp.password")
	setString(&cfg.SFTP.KeyFile, "sftp.keyFile")
	setString(&cfg.SFTP.KnownHosts, "sftp.knownHosts")

	// Zero or negative history size falls back to the default
	if cfg.HistoryMaxEntries <= 0 {
		cfg.HistoryMaxEntries = Defaults().HistoryMaxEntries
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Interactive = strings.ToLower(strings.TrimSpace(cfg.Interactive))

	return cfg, nil
}

func setString(dst *string, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetString(key)
	}
}

func setInt(dst *int, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetInt(key)
	}
}

func setBool(dst *bool, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetBool(key)
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Backend {
	case file.BackendOS, file.BackendMemory:
	case file.BackendSFTP:
		if c.SFTP.Host == "" || c.SFTP.User == "" {
			return ErrIncompleteSFTP
		}
		if c.SFTP.Port < 0 {
			return fmt.Errorf("sftp.port: %w", ErrNegativeLimit)
		}
	default:
		return fmt.Errorf("%w: %q", file.ErrUnknownBackend, c.Backend)
	}

	switch c.Interactive {
	case InteractiveAuto, InteractiveAlways, InteractiveNever:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidInteractive, c.Interactive)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	limits := []struct {
		name  string
		value int
	}{
		{"maxDepth", c.MaxDepth},
		{"catHeadLines", c.CatHeadLines},
		{"catTailLines", c.CatTailLines},
	}
	for _, l := range limits {
		if l.value < 0 {
			return fmt.Errorf("%s: %w", l.name, ErrNegativeLimit)
		}
	}
	return nil
}
