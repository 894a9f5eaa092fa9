package ui

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// ErrEmptyEntry is returned when attempting to add an empty or whitespace-only entry.
var ErrEmptyEntry = errors.New("history: entry cannot be empty or whitespace-only")

// ErrEmbeddedNewline is returned when an entry contains a newline, which the
// line-based history file cannot store.
var ErrEmbeddedNewline = errors.New("history: entry cannot contain embedded newlines")

// ErrConsecutiveDuplicate is returned when attempting to add a duplicate of the last entry.
var ErrConsecutiveDuplicate = errors.New("history: consecutive duplicate entry not allowed")

// File permission constants for history file operations.
const (
	historyFilePermission = 0o600
	historyDirPermission  = 0o700
)

// HistoryManager keeps the command history of the interactive shell and mirrors
// it to a file so it survives restarts.
//
// File errors are never reported; the history keeps working in memory.
type HistoryManager struct {
	fs         afero.Fs
	filePath   string
	maxEntries int
	history    []string
	mu         sync.RWMutex
}

// NewHistoryManager creates a HistoryManager persisted on fs at filePath.
// An empty filePath keeps history in memory only; maxEntries of 0 or less is unlimited.
// The history file always lives on the local machine, whatever backend is browsed.
func NewHistoryManager(fs afero.Fs, filePath string, maxEntries int) *HistoryManager {
	hm := &HistoryManager{
		fs:         fs,
		filePath:   ExpandPath(filePath),
		maxEntries: max(maxEntries, 0),
		history:    []string{},
	}
	hm.load()
	return hm
}

// Add records a command line. The entry is trimmed before storage.
func (hm *HistoryManager) Add(entry string) error {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		return ErrEmptyEntry
	}
	if strings.ContainsAny(trimmed, "\r\n") {
		return ErrEmbeddedNewline
	}
	if n := len(hm.history); n > 0 && hm.history[n-1] == trimmed {
		return ErrConsecutiveDuplicate
	}

	hm.history = append(hm.history, trimmed)
	if hm.trim() {
		hm.rewriteFile()
	} else {
		hm.appendToFile(trimmed)
	}
	return nil
}

// History returns a copy of all entries, oldest first.
func (hm *HistoryManager) History() []string {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	result := make([]string, len(hm.history))
	copy(result, hm.history)
	return result
}

// Size returns the number of entries in the history.
func (hm *HistoryManager) Size() int {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	return len(hm.history)
}

// Clear removes all entries from memory and from the history file.
func (hm *HistoryManager) Clear() {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.history = []string{}
	hm.rewriteFile()
}

// Last returns the most recent entry and true, or empty string and false if history is empty.
func (hm *HistoryManager) Last() (string, bool) {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	if len(hm.history) == 0 {
		return "", false
	}
	return hm.history[len(hm.history)-1], true
}

// ExpandPath expands a leading "~" or "~/" to the user's home directory.
// Other paths, and paths whose home directory cannot be found, are returned unchanged.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// trim drops the oldest entries beyond maxEntries and reports whether it did.
// Must be called with mu held.
func (hm *HistoryManager) trim() bool {
	if hm.maxEntries == 0 || len(hm.history) <= hm.maxEntries {
		return false
	}
	hm.history = hm.history[len(hm.history)-hm.maxEntries:]
	return true
}

// load reads entries from the history file during construction.
func (hm *HistoryManager) load() {
	if hm.filePath == "" {
		return
	}

	f, err := hm.fs.Open(hm.filePath)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			hm.history = append(hm.history, line)
		}
	}
	hm.trim()
}

// appendToFile appends one entry to the history file.
// Must be called with mu held.
func (hm *HistoryManager) appendToFile(entry string) {
	hm.writeFile(os.O_APPEND|os.O_CREATE|os.O_WRONLY, []string{entry})
}

// rewriteFile replaces the history file with the in-memory entries.
// Must be called with mu held.
func (hm *HistoryManager) rewriteFile() {
	hm.writeFile(os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hm.history)
}

func (hm *HistoryManager) writeFile(flag int, entries []string) {
	if hm.filePath == "" {
		return
	}
	if err := hm.fs.MkdirAll(filepath.Dir(hm.filePath), historyDirPermission); err != nil {
		return
	}

	f, err := hm.fs.OpenFile(hm.filePath, flag, historyFilePermission)
	if err != nil {
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, entry := range entries {
		_, _ = w.WriteString(entry + "\n")
	}
	_ = w.Flush()
}
