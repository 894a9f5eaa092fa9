// Package service provides application-level services that orchestrate
// the use cases and provide high-level interfaces for the application.
package service

import (
	"context"
	"errors"
	"file-explorer/internal/application/dto"
	"file-explorer/internal/application/usecase"
	"file-explorer/internal/domain/entity"
	"file-explorer/internal/domain/port"
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrFileManagerRequired is returned when the FileManager is nil.
	ErrFileManagerRequired = errors.New("file manager is required")

	// ErrUserInterfaceRequired is returned when the UserInterface is nil.
	ErrUserInterfaceRequired = errors.New("user interface is required")

	// ErrInputClosed is returned when input ends while arguments are being asked for.
	ErrInputClosed = errors.New("input closed")
)

// Option configures an ExplorerService.
type Option func(*ExplorerService)

// WithLogger sets the logger used for command tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(s *ExplorerService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOverwriteOnCreate makes touch truncate existing files without -f.
func WithOverwriteOnCreate(overwrite bool) Option {
	return func(s *ExplorerService) {
		s.overwriteOnCreate = overwrite
	}
}

// WithArgumentPrompts makes commands given too few arguments ask for the rest
// through the user interface instead of failing.
func WithArgumentPrompts(enabled bool) Option {
	return func(s *ExplorerService) {
		s.promptForArgs = enabled
	}
}

// ExplorerService runs explorer commands against a FileManager and reports the
// outcome through a UserInterface. It owns the session, so the current directory
// changes only through cd.
//
// It is not safe for concurrent use.
type ExplorerService struct {
	fileManager       port.FileManager
	userInterface     port.UserInterface
	logger            *zap.Logger
	session           entity.Session
	overwriteOnCreate bool
	promptForArgs     bool
}

// NewExplorerService creates an ExplorerService starting in session.
func NewExplorerService(
	fm port.FileManager,
	ui port.UserInterface,
	session entity.Session,
	opts ...Option,
) (*ExplorerService, error) {
	if fm == nil {
		return nil, ErrFileManagerRequired
	}
	if ui == nil {
		return nil, ErrUserInterfaceRequired
	}

	s := &ExplorerService{
		fileManager:   fm,
		userInterface: ui,
		logger:        zap.NewNop(),
		session:       session,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Configure applies opts to a running service, for settings reloaded mid-session.
func (s *ExplorerService) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(s)
	}
}

// Session returns the current session.
func (s *ExplorerService) Session() entity.Session {
	return s.session
}

// Prompt returns the input prompt for the current directory.
func (s *ExplorerService) Prompt() string {
	return s.session.Dir() + "> "
}

// Execute parses and runs one input line. It returns done when the line asks to
// leave the explorer. Failures are shown through the user interface and returned.
func (s *ExplorerService) Execute(ctx context.Context, line string) (bool, error) {
	req, err := usecase.ParseCommand(line)
	if err != nil {
		req, err = s.recoverParse(ctx, req, err)
	}
	if err != nil {
		if errors.Is(err, dto.ErrEmptyCommand) {
			return false, nil
		}
		return false, s.report(err)
	}
	return s.Run(ctx, req)
}

// ExecuteArgs runs a command given as already split words, as from a process command line.
func (s *ExplorerService) ExecuteArgs(ctx context.Context, words []string) (bool, error) {
	req, err := usecase.ParseArgs(words)
	if err != nil {
		return false, s.report(err)
	}
	return s.Run(ctx, req)
}

// recoverParse asks for missing arguments when prompting is enabled.
func (s *ExplorerService) recoverParse(ctx context.Context, req *dto.CommandRequest, err error) (*dto.CommandRequest, error) {
	var argErr *usecase.ArgumentError
	if !s.promptForArgs || !errors.As(err, &argErr) || !argErr.Missing() {
		return req, err
	}
	defer func() { _ = s.userInterface.SetPrompt(s.Prompt()) }()

	for i := len(req.Args); i < argErr.Spec.MinArgs; i++ {
		if err := s.userInterface.SetPrompt(argErr.Spec.ArgPrompts[i] + ": "); err != nil {
			return req, err
		}
		value, ok := s.userInterface.GetUserInput(ctx)
		if !ok {
			return req, ErrInputClosed
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return req, err
		}
		req.Args = append(req.Args, value)
	}
	return req, nil
}

// Run executes a parsed request.
func (s *ExplorerService) Run(ctx context.Context, req *dto.CommandRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, s.report(err)
	}
	s.logger.Debug("executing command", zap.String("command", req.Name), zap.Strings("args", req.Args))

	if req.ID == dto.CommandExit {
		return true, nil
	}

	handler, ok := s.handlers()[req.ID]
	if !ok {
		return false, s.report(fmt.Errorf("%w: %s", dto.ErrUnknownCommand, req.Name))
	}
	if err := handler(ctx, req); err != nil {
		s.logger.Debug("command failed", zap.String("command", req.Name), zap.Error(err))
		return false, s.report(err)
	}
	return false, nil
}

type handlerFunc func(ctx context.Context, req *dto.CommandRequest) error

func (s *ExplorerService) handlers() map[dto.CommandID]handlerFunc {
	return map[dto.CommandID]handlerFunc{
		dto.CommandList:   s.list,
		dto.CommandPwd:    s.pwd,
		dto.CommandCd:     s.cd,
		dto.CommandTouch:  s.touch,
		dto.CommandDelete: s.delete,
		dto.CommandMove:   s.move,
		dto.CommandSearch: s.search,
		dto.CommandPerms:  s.perms,
		dto.CommandChmod:  s.chmod,
		dto.CommandCat:    s.cat,
		dto.CommandCopy:   s.copy,
		dto.CommandMkdir:  s.mkdir,
		dto.CommandFind:   s.find,
		dto.CommandInfo:   s.info,
		dto.CommandRename: s.rename,
		dto.CommandHelp:   s.help,
		dto.CommandClear:  s.clear,
	}
}

// report shows err to the user and returns it.
func (s *ExplorerService) report(err error) error {
	if displayErr := s.userInterface.DisplayError(err); displayErr != nil {
		s.logger.Error("failed to display error", zap.Error(displayErr))
	}
	return err
}

func (s *ExplorerService) resolve(path string) string {
	return s.session.Resolve(path)
}

func (s *ExplorerService) list(_ context.Context, req *dto.CommandRequest) error {
	entries, err := s.fileManager.List(s.resolve(req.Arg(0, "")))
	if err != nil {
		return err
	}
	return s.userInterface.DisplayListing(entries)
}

func (s *ExplorerService) pwd(_ context.Context, _ *dto.CommandRequest) error {
	dir, err := s.fileManager.CurrentDirectory(s.session)
	if err != nil {
		return err
	}
	return s.userInterface.DisplayMessage(dir)
}

func (s *ExplorerService) cd(_ context.Context, req *dto.CommandRequest) error {
	next, err := s.fileManager.ChangeDirectory(s.session, req.Args[0])
	if err != nil {
		return err
	}
	s.session = next
	return s.userInterface.SetPrompt(s.Prompt())
}

func (s *ExplorerService) touch(_ context.Context, req *dto.CommandRequest) error {
	path := s.resolve(req.Args[0])
	if err := s.fileManager.CreateFile(path, req.Force || s.overwriteOnCreate); err != nil {
		return err
	}
	return s.userInterface.DisplayMessage("Created file " + path)
}

func (s *ExplorerService) delete(_ context.Context, req *dto.CommandRequest) error {
	path := s.resolve(req.Args[0])
	if err := s.fileManager.Delete(path); err != nil {
		return err
	}
	return s.userInterface.DisplayMessage("Deleted " + path)
}

func (s *ExplorerService) move(_ context.Context, req *dto.CommandRequest) error {
	result, err := s.fileManager.Move(s.resolve(req.Args[0]), s.resolve(req.Args[1]))
	if err != nil {
		return err
	}
	if result.Method == port.MoveCopied {
		if err := s.userInterface.DisplayWarning(
			"source and destination are on different devices, moved by copy and delete"); err != nil {
			return err
		}
	}
	if result.Warning != "" {
		if err := s.userInterface.DisplayWarning(result.Warning); err != nil {
			return err
		}
	}
	return s.userInterface.DisplayMessage(fmt.Sprintf("Moved %s -> %s", result.Source, result.Destination))
}

func (s *ExplorerService) search(ctx context.Context, req *dto.CommandRequest) error {
	return s.showHits(ctx, s.fileManager.Search(s.resolve(req.Args[0]), req.Args[1]))
}

func (s *ExplorerService) find(ctx context.Context, req *dto.CommandRequest) error {
	return s.showHits(ctx, s.fileManager.Glob(s.resolve(req.Args[0]), req.Args[1]))
}

// showHits prints every hit and warning of a search. A fatal error ends the search.
func (s *ExplorerService) showHits(ctx context.Context, hits iter.Seq2[port.SearchHit, error]) error {
	count := 0
	for hit, err := range hits {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("search interrupted: %w", ctxErr)
		}
		if err != nil {
			var warning *port.TraversalWarning
			if !errors.As(err, &warning) {
				return err
			}
			if err := s.userInterface.DisplayWarning(warning.Error()); err != nil {
				return err
			}
			continue
		}
		count++
		if err := s.userInterface.DisplayMessage(hit.Path); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d matches", count)
	if count == 1 {
		summary = "1 match"
	}
	return s.userInterface.DisplaySystemMessage(summary)
}

func (s *ExplorerService) perms(_ context.Context, req *dto.CommandRequest) error {
	path := s.resolve(req.Args[0])
	perms, err := s.fileManager.ShowPermissions(path)
	if err != nil {
		return err
	}
	return s.userInterface.DisplayMessage(fmt.Sprintf("%s %s %s", perms, perms.Octal(), path))
}

func (s *ExplorerService) chmod(_ context.Context, req *dto.CommandRequest) error {
	path := s.resolve(req.Args[0])
	perms, err := s.fileManager.ChangePermissions(path, req.Args[1])
	if err != nil {
		return err
	}
	return s.userInterface.DisplayMessage(fmt.Sprintf("Permissions of %s set to %s (%s)", path, perms, perms.Octal()))
}

func (s *ExplorerService) cat(_ context.Context, req *dto.CommandRequest) error {
	lines, err := s.fileManager.ReadLines(s.resolve(req.Args[0]))
	if err != nil {
		return err
	}
	return s.userInterface.DisplayLines(lines)
}

func (s *ExplorerService) copy(_ context.Context, req *dto.CommandRequest) error {
	result, err := s.fileManager.Copy(s.resolve(req.Args[0]), s.resolve(req.Args[1]))
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		if err := s.userInterface.DisplayWarning(warning); err != nil {
			return err
		}
	}
	return s.userInterface.DisplayMessage(fmt.Sprintf("Copied to %s (%d files, %d directories)",
		result.Destination, result.Files, result.Directories))
}

func (s *ExplorerService) mkdir(_ context.Context, req *dto.CommandRequest) error {
	path := s.resolve(req.Args[0])
	if err := s.fileManager.CreateDirectory(path); err != nil {
		return err
	}
	return s.userInterface.DisplayMessage("Created directory " + path)
}

func (s *ExplorerService) info(_ context.Context, req *dto.CommandRequest) error {
	details, err := s.fileManager.Info(s.resolve(req.Args[0]))
	if err != nil {
		return err
	}

	lines := []string{
		"Name:        " + details.Name,
		"Path:        " + details.Path,
		"Type:        " + details.Kind.String(),
		fmt.Sprintf("Size:        %d", details.Size),
		fmt.Sprintf("Permissions: %s (%s)", details.Permissions, details.Permissions.Octal()),
		"Modified:    " + details.Modified.Format("2006-01-02 15:04:05"),
	}
	if details.MIMEType != "" {
		lines = append(lines, "Content:     "+details.MIMEType)
	}
	return s.userInterface.DisplayLines(lines)
}

func (s *ExplorerService) rename(_ context.Context, req *dto.CommandRequest) error {
	path := s.resolve(req.Args[0])
	renamed, err := s.fileManager.Rename(path, req.Args[1])
	if err != nil {
		return err
	}
	return s.userInterface.DisplayMessage(fmt.Sprintf("Renamed %s -> %s", path, renamed))
}

func (s *ExplorerService) help(_ context.Context, _ *dto.CommandRequest) error {
	lines := make([]string, 0, len(usecase.Commands()))
	for _, spec := range usecase.Commands() {
		names := spec.Usage
		if len(spec.Aliases) > 0 {
			names += " (" + strings.Join(spec.Aliases, ", ") + ")"
		}
		lines = append(lines, fmt.Sprintf("%2d  %-40s %s", spec.ID, names, spec.Summary))
	}
	return s.userInterface.DisplayLines(lines)
}

func (s *ExplorerService) clear(_ context.Context, _ *dto.CommandRequest) error {
	return s.userInterface.ClearScreen()
}
