package cmd

import (
	"context"
	"errors"
	"file-explorer/internal/infrastructure/config"
	"file-explorer/internal/infrastructure/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrCommandFailed marks a failure that was already reported to the user.
var ErrCommandFailed = errors.New("command failed")

// cfgFile is the --config flag value.
var cfgFile string

type configKey struct{}

func contextWithConfig(ctx context.Context, c *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, c)
}

func configFromContext(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return nil
}

// flagBindings maps persistent flags to config keys.
var flagBindings = map[string]string{
	"dir":             "workingDir",
	"backend":         "backend",
	"log-level":       "logLevel",
	"follow-symlinks": "followSymlinks",
	"interactive":     "interactive",
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "file-explorer",
	Short: "Interactive file browser",
	Long: `File Explorer is an interactive shell for browsing and managing files.

It lists, creates, copies, moves, searches and inspects files on the local
disk, an in-memory filesystem, or a remote host over SFTP.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runShell,
}

// loadConfig binds the flags to viper and stores the loaded configuration in the
// command context.
func loadConfig(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	for flag, key := range flagBindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		viper.Set("color", false)
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cmd.SetContext(contextWithConfig(cmd.Context(), cfg))
	return nil
}

// Execute runs the root command. This is called by main.main(). The first Ctrl+C
// asks for confirmation, the second or a SIGTERM cancels the command context.
func Execute() error {
	handler := signal.NewInterruptHandler(context.Background(), signal.DefaultInterruptTimeout)
	handler.Start()
	defer handler.Stop()

	ctx := signal.WithInterruptHandler(handler.Context(), handler)
	return rootCmd.ExecuteContext(ctx)
}

// GetConfig retrieves the configuration from the command context.
func GetConfig(cmd *cobra.Command) *config.Config {
	if c := configFromContext(cmd.Context()); c != nil {
		return c
	}
	return config.Defaults()
}

func init() {
	defaults := config.Defaults()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (yaml, toml or json)")
	flags.StringP("dir", "d", defaults.WorkingDir, "Starting directory")
	flags.String("backend", defaults.Backend, "Filesystem backend: os, memory or sftp")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("follow-symlinks", defaults.FollowSymlinks, "Follow symbolic links during search and find")
	flags.String("interactive", defaults.Interactive, "Line editor: auto, always or never")
}
