package port

import (
	"file-explorer/internal/domain/entity"
	"fmt"
	"iter"
)

// MoveMethod records how a move was carried out.
type MoveMethod int

const (
	// MoveRenamed means the move was a single atomic rename.
	MoveRenamed MoveMethod = iota
	// MoveCopied means the rename crossed devices and was replaced by copy then delete.
	// An interruption during this path can leave both source and a partial destination.
	MoveCopied
)

func (m MoveMethod) String() string {
	if m == MoveCopied {
		return "copied across devices"
	}
	return "renamed"
}

// MoveResult reports the outcome of a successful move.
type MoveResult struct {
	Source      string     `json:"source"`            // Resolved source path
	Destination string     `json:"destination"`       // Final destination path
	Method      MoveMethod `json:"method"`            // Rename or cross-device copy
	Warning     string     `json:"warning,omitempty"` // Non-fatal problem, e.g. source left behind
}

// CopyResult reports what a copy touched.
type CopyResult struct {
	Destination string `json:"destination"` // Final destination path
	Files       int    `json:"files"`       // Regular files written
	Directories int    `json:"directories"` // Directories created or merged into
	// Warnings lists entries that were skipped, e.g. symlinks on a backend without link support.
	Warnings []string `json:"warnings,omitempty"`
}

// SearchHit is one match produced by a recursive search.
type SearchHit struct {
	Path  string                `json:"path"`  // Full path of the match
	Rel   string                `json:"rel"`   // Slash-separated path relative to the search root, "." for the root
	Entry entity.DirectoryEntry `json:"entry"` // Entry data of the match
}

// TraversalWarning is yielded by searches for problems that skip part of the tree
// without stopping the traversal.
type TraversalWarning struct {
	Path   string // Path that was skipped
	Reason string // Why it was skipped
	Err    error  // Underlying error, may be nil
}

func (w *TraversalWarning) Error() string {
	if w.Err != nil {
		return fmt.Sprintf("skipped %s: %s: %v", w.Path, w.Reason, w.Err)
	}
	return fmt.Sprintf("skipped %s: %s", w.Path, w.Reason)
}

func (w *TraversalWarning) Unwrap() error {
	return w.Err
}

// FileManager is the filesystem operations facade.
// This port represents the outbound dependency to a host filesystem and follows
// hexagonal architecture principles by abstracting the concrete backend.
//
// All paths except those taken by ChangeDirectory are expected to be resolved
// against the session by the caller. Errors are *entity.FSError values.
type FileManager interface {
	// CurrentDirectory returns the session directory after checking it still exists.
	CurrentDirectory(sess entity.Session) (string, error)

	// ChangeDirectory returns a session positioned at path, resolved against sess.
	ChangeDirectory(sess entity.Session, path string) (entity.Session, error)

	// List returns the immediate children of a directory sorted by name.
	// "." and ".." are never included.
	List(path string) ([]entity.DirectoryEntry, error)

	// ReadLines returns the lines of a text file.
	ReadLines(path string) ([]string, error)

	// Info returns entry data and the detected content type of path.
	Info(path string) (entity.FileDetails, error)

	// CreateFile creates an empty file. An existing file is truncated only when overwrite is set.
	CreateFile(path string, overwrite bool) error

	// CreateDirectory creates path and any missing parents.
	CreateDirectory(path string) error

	// Delete removes a file or a directory tree.
	Delete(path string) error

	// Copy copies a file or directory tree, overwriting existing destination entries.
	Copy(src, dst string) (CopyResult, error)

	// Move renames src to dst, falling back to copy and delete across devices.
	Move(src, dst string) (MoveResult, error)

	// Rename gives path a new base name within the same directory and returns the new path.
	Rename(path, newName string) (string, error)

	// Search yields every entry under root whose base name contains fragment.
	Search(root, fragment string) iter.Seq2[SearchHit, error]

	// Glob yields every entry under root whose relative path matches a ** glob pattern.
	Glob(root, pattern string) iter.Seq2[SearchHit, error]

	// ShowPermissions returns the permission bits of path.
	ShowPermissions(path string) (entity.PermissionSet, error)

	// ChangePermissions applies a numeric octal mode and returns the resulting bits.
	ChangePermissions(path, spec string) (entity.PermissionSet, error)
}
