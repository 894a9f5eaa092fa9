// Package usecase turns raw input lines into validated command requests.
package usecase

import (
	"file-explorer/internal/application/dto"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// CommandSpec describes one command of the explorer.
type CommandSpec struct {
	ID      dto.CommandID
	Name    string
	Aliases []string
	Usage   string
	Summary string
	MinArgs int
	MaxArgs int
	// ArgPrompts label each positional argument when it is asked for interactively.
	ArgPrompts []string
	// Force is set when the command accepts -f.
	Force bool
}

var commandTable = []CommandSpec{
	{ID: dto.CommandList, Name: "ls", Aliases: []string{"list"}, Usage: "ls [path]",
		Summary: "list a directory", MaxArgs: 1},
	{ID: dto.CommandPwd, Name: "pwd", Usage: "pwd",
		Summary: "print the current directory"},
	{ID: dto.CommandCd, Name: "cd", Usage: "cd <path>",
		Summary: "change directory", MinArgs: 1, MaxArgs: 1,
		ArgPrompts: []string{"Enter directory name to navigate"}},
	{ID: dto.CommandTouch, Name: "touch", Aliases: []string{"create"}, Usage: "touch [-f] [--] <path>",
		Summary: "create an empty file", MinArgs: 1, MaxArgs: 1, Force: true,
		ArgPrompts: []string{"Enter filename to create"}},
	{ID: dto.CommandDelete, Name: "delete", Aliases: []string{"rm"}, Usage: "delete <path>",
		Summary: "remove a file or directory tree", MinArgs: 1, MaxArgs: 1,
		ArgPrompts: []string{"Enter filename to delete"}},
	{ID: dto.CommandMove, Name: "move", Aliases: []string{"mv"}, Usage: "move <src> <dst>",
		Summary: "rename or move", MinArgs: 2, MaxArgs: 2,
		ArgPrompts: []string{"Enter existing filename", "Enter new filename or path"}},
	{ID: dto.CommandSearch, Name: "search", Usage: "search <root> <fragment>",
		Summary: "find entries whose name contains fragment", MinArgs: 2, MaxArgs: 2,
		ArgPrompts: []string{"Enter directory to search from", "Enter filename to search"}},
	{ID: dto.CommandPerms, Name: "perms", Usage: "perms <path>",
		Summary: "show permissions", MinArgs: 1, MaxArgs: 1,
		ArgPrompts: []string{"Enter filename"}},
	{ID: dto.CommandChmod, Name: "chmod", Usage: "chmod <path> <octal>",
		Summary: "set permissions from an octal mode", MinArgs: 2, MaxArgs: 2,
		ArgPrompts: []string{"Enter filename", "Enter permission mode (e.g., 755)"}},
	{ID: dto.CommandCat, Name: "cat", Usage: "cat <path>",
		Summary: "print a text file", MinArgs: 1, MaxArgs: 1,
		ArgPrompts: []string{"Enter filename"}},
	{ID: dto.CommandCopy, Name: "copy", Aliases: []string{"cp"}, Usage: "copy <src> <dst>",
		Summary: "copy a file or directory tree", MinArgs: 2, MaxArgs: 2,
		ArgPrompts: []string{"Enter source path", "Enter destination path"}},
	{ID: dto.CommandMkdir, Name: "mkdir", Usage: "mkdir <path>",
		Summary: "create a directory with parents", MinArgs: 1, MaxArgs: 1,
		ArgPrompts: []string{"Enter directory name to create"}},
	{ID: dto.CommandFind, Name: "find", Aliases: []string{"glob"}, Usage: "find <root> <pattern>",
		Summary: "find entries matching a ** glob", MinArgs: 2, MaxArgs: 2,
		ArgPrompts: []string{"Enter directory to search from", "Enter glob pattern"}},
	{ID: dto.CommandInfo, Name: "info", Aliases: []string{"stat"}, Usage: "info <path>",
		Summary: "show details and content type", MinArgs: 1, MaxArgs: 1,
		ArgPrompts: []string{"Enter filename"}},
	{ID: dto.CommandRename, Name: "rename", Usage: "rename <path> <new-name>",
		Summary: "rename in place", MinArgs: 2, MaxArgs: 2,
		ArgPrompts: []string{"Enter existing filename", "Enter new name"}},
	{ID: dto.CommandHelp, Name: "help", Aliases: []string{"?"}, Usage: "help",
		Summary: "show this table"},
	{ID: dto.CommandClear, Name: "clear", Usage: "clear",
		Summary: "clear the screen"},
	{ID: dto.CommandExit, Name: "exit", Aliases: []string{"quit", ":q"}, Usage: "exit",
		Summary: "leave the explorer"},
}

// Commands returns the command table in display order.
func Commands() []CommandSpec {
	specs := make([]CommandSpec, len(commandTable))
	copy(specs, commandTable)
	return specs
}

// LookupCommand finds a command by numeric code, name or alias. Names are case-insensitive.
func LookupCommand(name string) (CommandSpec, bool) {
	if code, err := strconv.Atoi(name); err == nil {
		for _, spec := range commandTable {
			if int(spec.ID) == code {
				return spec, true
			}
		}
		return CommandSpec{}, false
	}

	name = strings.ToLower(name)
	for _, spec := range commandTable {
		if spec.Name == name {
			return spec, true
		}
		for _, alias := range spec.Aliases {
			if alias == name {
				return spec, true
			}
		}
	}
	return CommandSpec{}, false
}

// Tokenize splits a line on whitespace. Double quotes group words and are removed;
// there are no escape sequences. An unclosed quote is an error.
func Tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
		inToken bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inToken = true
		case unicode.IsSpace(r) && !inQuote:
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if inQuote {
		return nil, dto.ErrUnterminatedQuote
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

// ParseCommand tokenizes line and resolves it against the command table.
func ParseCommand(line string) (*dto.CommandRequest, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return nil, err
	}
	return ParseArgs(tokens)
}

// ParseArgs resolves already split tokens against the command table. For commands
// that accept -f, a "--" token ends flag parsing so "touch -- -f" creates "-f".
//
// When arguments are missing the returned *ArgumentError carries the partial request,
// so a caller may ask for the rest.
func ParseArgs(tokens []string) (*dto.CommandRequest, error) {
	if len(tokens) == 0 {
		return nil, dto.ErrEmptyCommand
	}

	spec, ok := LookupCommand(tokens[0])
	if !ok {
		return nil, &UnknownCommandError{Name: tokens[0]}
	}

	req := &dto.CommandRequest{ID: spec.ID, Name: spec.Name}
	flags := spec.Force
	for _, tok := range tokens[1:] {
		if flags {
			switch tok {
			case "--":
				flags = false
				continue
			case "-f":
				req.Force = true
				continue
			}
		}
		req.Args = append(req.Args, tok)
	}

	switch {
	case len(req.Args) < spec.MinArgs:
		return req, &ArgumentError{Spec: spec, Request: req, Err: dto.ErrMissingArguments}
	case len(req.Args) > spec.MaxArgs:
		return req, &ArgumentError{Spec: spec, Request: req, Err: dto.ErrTooManyArguments}
	}
	return req, nil
}

// UnknownCommandError reports input whose first word names no command.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q, type help for the list of commands", e.Name)
}

func (e *UnknownCommandError) Unwrap() error {
	return dto.ErrUnknownCommand
}

// ArgumentError reports a command called with the wrong number of arguments.
type ArgumentError struct {
	Spec    CommandSpec
	Request *dto.CommandRequest
	Err     error
}

func (e *ArgumentError) Error() string {
	if e.Err == dto.ErrMissingArguments {
		return "missing arguments, usage: " + e.Spec.Usage
	}
	return "too many arguments, usage: " + e.Spec.Usage
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Missing reports whether the error is about absent arguments.
func (e *ArgumentError) Missing() bool {
	return e.Err == dto.ErrMissingArguments
}
