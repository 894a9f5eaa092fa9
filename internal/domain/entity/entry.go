package entity

import (
	"io/fs"
	"time"
)

// EntryKind distinguishes files, directories and everything else.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDirectory
	KindSymlink
	KindOther
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// DirectoryEntry is a read-only view of one filesystem object taken during an
// enumeration. It is recomputed on every listing and never persisted.
type DirectoryEntry struct {
	Name        string        `json:"name"`        // Base name
	Path        string        `json:"path"`        // Full path
	Kind        EntryKind     `json:"kind"`        // File, directory, symlink or other
	Size        int64         `json:"size"`        // Size in bytes, files only
	Permissions PermissionSet `json:"permissions"` // Nine permission bits
	Modified    time.Time     `json:"modified"`    // Last modification time
}

// KindFromMode derives the entry kind from a file mode.
func KindFromMode(mode fs.FileMode) EntryKind {
	switch {
	case mode.IsDir():
		return KindDirectory
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// NewDirectoryEntry projects file info onto a DirectoryEntry located at path.
func NewDirectoryEntry(path string, info fs.FileInfo) DirectoryEntry {
	kind := KindFromMode(info.Mode())
	var size int64
	if kind == KindFile {
		size = info.Size()
	}
	return DirectoryEntry{
		Name:        info.Name(),
		Path:        path,
		Kind:        kind,
		Size:        size,
		Permissions: PermissionsFromMode(info.Mode()),
		Modified:    info.ModTime(),
	}
}

// IsDir reports whether the entry is a directory.
func (e DirectoryEntry) IsDir() bool {
	return e.Kind == KindDirectory
}

// FileDetails extends a DirectoryEntry with content information.
type FileDetails struct {
	DirectoryEntry
	MIMEType string `json:"mime_type"` // Detected content type, empty for non-files
}
