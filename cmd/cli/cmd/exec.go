package cmd

import (
	"file-explorer/internal/infrastructure/config"
	"fmt"

	"github.com/spf13/cobra"
)

// execCmd runs a single explorer command
var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Run one explorer command and exit",
	Long: `Run one explorer command in the configured directory and exit.
The exit status is non-zero when the command fails.

Example:
  file-explorer exec find . "**/*.go"
  file-explorer --backend sftp exec ls /var/log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	// Everything after the command name belongs to it, including -f
	execCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg := *GetConfig(cmd)
	// Never prompt or open the line editor for a one-shot command
	cfg.Interactive = config.InteractiveNever

	container, err := config.NewContainerWithIO(&cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer func() { _ = container.Close() }()

	if _, err := container.ExplorerService().ExecuteArgs(cmd.Context(), args); err != nil {
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}
	return nil
}
