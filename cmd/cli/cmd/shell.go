package cmd

import (
	"context"
	"errors"
	"file-explorer/internal/application/service"
	"file-explorer/internal/domain/port"
	"file-explorer/internal/infrastructure/config"
	"file-explorer/internal/infrastructure/signal"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive explorer session",
	Long: `Start an interactive explorer session in the configured directory.
Type help for the list of commands.

Type exit or press Ctrl+C twice to leave. Send SIGHUP to reload colors,
cat truncation and the overwrite policy from the config file.`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// inputResult holds the result from the async input goroutine
type inputResult struct {
	text string
	ok   bool
}

// shell is one interactive session over a wired explorer.
type shell struct {
	svc     *service.ExplorerService
	ui      port.UserInterface
	out     io.Writer
	welcome string
	goodbye string
	// reloads delivers SIGHUP requests; reload applies one.
	reloads <-chan struct{}
	reload  func() error
}

// runShell executes the shell command
func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(cmd)

	// Initialize the dependency container
	container, err := config.NewContainerWithIO(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer func() { _ = container.Close() }()

	if handler := signal.InterruptHandlerFromContext(ctx); handler != nil {
		container.SetInterruptFunc(handler.Press)
	}

	reloadHandler := signal.NewReloadHandler()
	reloadHandler.Start()
	defer reloadHandler.Stop()

	sh := &shell{
		svc:     container.ExplorerService(),
		ui:      container.UIAdapter(),
		out:     cmd.OutOrStdout(),
		welcome: cfg.WelcomeMessage,
		goodbye: cfg.GoodbyeMessage,
		reloads: reloadHandler.Reloads(),
		reload: func() error {
			next, err := config.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			return container.Apply(next)
		},
	}
	return sh.run(ctx)
}

// run reads and executes commands until exit, end of input or cancellation.
func (s *shell) run(ctx context.Context) error {
	if s.welcome != "" {
		_ = s.ui.DisplaySystemMessage(s.welcome)
	}

	// Get interrupt handler from context for the double Ctrl+C exit
	handler := signal.InterruptHandlerFromContext(ctx)

	for {
		// Get the first press channel each iteration (resets after timeout)
		var firstPressCh <-chan struct{}
		if handler != nil {
			firstPressCh = handler.FirstPress()
		}
		inputCh := make(chan inputResult, 1)
		go func() {
			text, ok := s.ui.GetUserInput(ctx)
			inputCh <- inputResult{text, ok}
		}()

	waitLoop:
		for {
			select {
			case <-ctx.Done():
				// Second Ctrl+C, SIGTERM or external cancellation
				fmt.Fprintln(s.out)
				s.sayGoodbye()
				return nil
			case <-firstPressCh:
				fmt.Fprintf(s.out, "\nPress Ctrl+C again to exit\n")
				firstPressCh = nil
				continue
			case result := <-inputCh:
				if !result.ok {
					// End of input
					s.sayGoodbye()
					return nil
				}

				s.applyPendingReload()

				done, err := s.svc.Execute(ctx, result.text)
				if done {
					s.sayGoodbye()
					return nil
				}
				if errors.Is(err, context.Canceled) {
					fmt.Fprintf(s.out, "\nOperation cancelled. Type 'exit' to quit or continue.\n")
				}
				// Command errors were already shown; the session goes on
				break waitLoop
			}
		}
	}
}

// applyPendingReload applies a reload requested since the last command.
func (s *shell) applyPendingReload() {
	select {
	case <-s.reloads:
	default:
		return
	}
	if s.reload == nil {
		return
	}
	if err := s.reload(); err != nil {
		_ = s.ui.DisplayError(fmt.Errorf("reload failed: %w", err))
		return
	}
	_ = s.ui.DisplaySystemMessage("Configuration reloaded")
}

func (s *shell) sayGoodbye() {
	if s.goodbye != "" {
		_ = s.ui.DisplaySystemMessage(s.goodbye)
	}
}
