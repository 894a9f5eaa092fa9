package entity

import "path/filepath"

// Session carries the current directory of an explorer session as an explicit value.
// It is immutable: navigation produces a new Session instead of mutating process state.
type Session struct {
	dir string
}

// NewSession creates a session rooted at dir. dir should already be absolute.
func NewSession(dir string) Session {
	return Session{dir: filepath.Clean(dir)}
}

// Dir returns the current directory.
func (s Session) Dir() string {
	return s.dir
}

// Resolve returns path unchanged when absolute, otherwise joined to the current directory.
// An empty path resolves to the current directory.
func (s Session) Resolve(path string) string {
	if path == "" {
		return s.dir
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.dir, path)
}

// WithDir returns a copy of the session positioned at dir.
func (s Session) WithDir(dir string) Session {
	return NewSession(dir)
}
