package dto

import "fmt"

// CommandID identifies an entry of the command table. The numeric value is the
// code users may type instead of the command name.
type CommandID int

const (
	CommandExit CommandID = iota
	CommandList
	CommandPwd
	CommandCd
	CommandTouch
	CommandDelete
	CommandMove
	CommandSearch
	CommandPerms
	CommandChmod
	CommandCat
	CommandCopy
	CommandMkdir
	CommandFind
	CommandInfo
	CommandRename
	CommandHelp
	CommandClear
)

// CommandRequest is a parsed command line ready for execution.
type CommandRequest struct {
	ID    CommandID `json:"id"`              // Command to run
	Name  string    `json:"name"`            // Canonical command name
	Args  []string  `json:"args"`            // Positional arguments, quotes removed
	Force bool      `json:"force,omitempty"` // -f was given
}

// Arg returns the i-th argument or fallback when it was not given.
func (r *CommandRequest) Arg(i int, fallback string) string {
	if i < len(r.Args) {
		return r.Args[i]
	}
	return fallback
}

// Validate checks the request is well-formed.
func (r *CommandRequest) Validate() error {
	if r.Name == "" {
		return ErrEmptyCommand
	}
	if r.ID < CommandExit || r.ID > CommandClear {
		return fmt.Errorf("%w: id %d", ErrUnknownCommand, r.ID)
	}
	return nil
}
