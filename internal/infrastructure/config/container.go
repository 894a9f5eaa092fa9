// Package config provides a dependency injection container for wiring together
// all the components of the application following hexagonal architecture principles.
package config

import (
	"errors"
	"file-explorer/internal/domain/entity"
	"file-explorer/internal/domain/port"
	"file-explorer/internal/infrastructure/adapter/file"
	"file-explorer/internal/infrastructure/adapter/ui"
	"file-explorer/internal/infrastructure/logging"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	appsvc "file-explorer/internal/application/service"
)

// Container holds all application dependencies wired together.
// It provides a single point of access to all services and ports,
// following the dependency injection pattern for clean architecture.
//
// The container is responsible for:
// - Opening the filesystem backend and building the logger
// - Creating the file manager and the user interface (infrastructure layer)
// - Creating the explorer service (application layer)
// - Releasing the backend connection on Close.
type Container struct {
	config          *Config
	backend         *file.Backend
	logger          *zap.Logger
	fileManager     port.FileManager
	output          *ui.CLIAdapter
	editor          *ui.PromptAdapter
	uiAdapter       port.UserInterface
	explorerService *appsvc.ExplorerService
	lineEditor      bool
}

// NewContainer creates a new DI container on stdin and stdout.
func NewContainer(cfg *Config) (*Container, error) {
	return NewContainerWithIO(cfg, os.Stdin, os.Stdout)
}

// NewContainerWithIO creates a new DI container reading commands from in and
// writing output to out.
//
// The wiring order is:
// 1. Validate the configuration and build the logger
// 2. Open the backend and create the file manager
// 3. Create the user interface, with the line editor on a terminal
// 4. Create the explorer service and hook completion into the line editor
func NewContainerWithIO(cfg *Config, in io.Reader, out io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Step 1: Logger
	logger := logging.NewOrNop(logging.Config{
		Level:      cfg.LogLevel,
		Output:     cfg.LogFile,
		Structured: cfg.LogJSON,
	})

	// Step 2: Backend and file manager
	backend, err := file.NewBackend(cfg.Backend, cfg.WorkingDir, cfg.SFTP)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("backend opened",
		zap.String("backend", backend.Name),
		zap.String("dir", backend.WorkingDir))

	fileManager := file.NewLocalFileManager(backend.Fs,
		file.WithLogger(logger.Named("file")),
		file.WithFollowSymlinks(cfg.FollowSymlinks),
		file.WithMaxDepth(cfg.MaxDepth),
	)

	// Step 3: User interface
	output := ui.NewCLIAdapterWithIO(in, out)
	lineEditor := useLineEditor(cfg.Interactive, in, out)
	var (
		uiAdapter port.UserInterface = output
		editor    *ui.PromptAdapter
	)
	if lineEditor {
		// History lives on the local machine whatever backend is browsed
		history := ui.NewHistoryManager(afero.NewOsFs(), cfg.HistoryFile, cfg.HistoryMaxEntries)
		editor = ui.NewPromptAdapter(output, history)
		uiAdapter = editor
	}
	applyOutput(cfg, output, editor)

	// Step 4: Application service
	explorerService, err := appsvc.NewExplorerService(
		fileManager,
		uiAdapter,
		entity.NewSession(backend.WorkingDir),
		appsvc.WithLogger(logger.Named("service")),
		appsvc.WithOverwriteOnCreate(cfg.OverwriteOnCreate),
		appsvc.WithArgumentPrompts(lineEditor),
	)
	if err != nil {
		_ = backend.Close()
		_ = logger.Sync()
		return nil, err
	}
	if editor != nil {
		editor.SetCompleter(explorerService.Complete)
	}
	if err := uiAdapter.SetPrompt(explorerService.Prompt()); err != nil {
		_ = backend.Close()
		_ = logger.Sync()
		return nil, err
	}

	return &Container{
		config:          cfg,
		backend:         backend,
		logger:          logger,
		fileManager:     fileManager,
		output:          output,
		editor:          editor,
		uiAdapter:       uiAdapter,
		explorerService: explorerService,
		lineEditor:      lineEditor,
	}, nil
}

// Apply updates the settings that may change during a session: colors, cat
// truncation and the overwrite policy. The backend, working directory, traversal
// limits and logging stay as they were opened.
func (c *Container) Apply(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	applyOutput(cfg, c.output, c.editor)
	c.explorerService.Configure(appsvc.WithOverwriteOnCreate(cfg.OverwriteOnCreate))

	next := *c.config
	next.Color = cfg.Color
	next.CatTruncate = cfg.CatTruncate
	next.CatHeadLines = cfg.CatHeadLines
	next.CatTailLines = cfg.CatTailLines
	next.OverwriteOnCreate = cfg.OverwriteOnCreate
	c.config = &next

	c.logger.Debug("settings applied",
		zap.Bool("color", cfg.Color),
		zap.Bool("catTruncate", cfg.CatTruncate),
		zap.Bool("overwriteOnCreate", cfg.OverwriteOnCreate))
	return nil
}

func applyOutput(cfg *Config, output *ui.CLIAdapter, editor *ui.PromptAdapter) {
	if editor != nil {
		editor.SetColorEnabled(cfg.Color)
	} else {
		output.SetColorEnabled(cfg.Color)
	}
	output.SetTruncationConfig(ui.TruncationConfig{
		HeadLines: cfg.CatHeadLines,
		TailLines: cfg.CatTailLines,
		Enabled:   cfg.CatTruncate,
	})
}

// useLineEditor decides between go-prompt and the plain line reader.
// In auto mode the line editor is used only when both ends are a terminal.
func useLineEditor(mode string, in io.Reader, out io.Writer) bool {
	switch mode {
	case InteractiveAlways:
		return true
	case InteractiveNever:
		return false
	}
	return isTerminal(in) && isTerminal(out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Close flushes the logger and releases the backend.
func (c *Container) Close() error {
	_ = c.logger.Sync()
	return c.backend.Close()
}

// ExplorerService returns the application explorer service.
// This is the main entry point for running commands.
func (c *Container) ExplorerService() *appsvc.ExplorerService {
	return c.explorerService
}

// Config returns the application configuration.
func (c *Container) Config() *Config {
	return c.config
}

// Backend returns the opened filesystem backend.
func (c *Container) Backend() *file.Backend {
	return c.backend
}

// Logger returns the application logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// FileManager returns the file manager port implementation.
// Useful for direct file operations outside of the command loop.
func (c *Container) FileManager() port.FileManager {
	return c.fileManager
}

// UIAdapter returns the user interface port implementation.
// Useful for direct UI operations.
func (c *Container) UIAdapter() port.UserInterface {
	return c.uiAdapter
}

// SetInterruptFunc routes Ctrl+C typed at the line editor to fn. It does nothing
// when input is read without the line editor, where Ctrl+C raises SIGINT.
func (c *Container) SetInterruptFunc(fn func()) {
	if c.editor != nil {
		c.editor.SetInterruptFunc(fn)
	}
}

// Interactive reports whether input goes through the line editor.
func (c *Container) Interactive() bool {
	return c.lineEditor
}
