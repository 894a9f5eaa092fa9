package entity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Resolve(t *testing.T) {
	sess := NewSession("/home/user")

	assert.Equal(t, "/home/user", sess.Resolve(""))
	assert.Equal(t, "/home/user/docs", sess.Resolve("docs"))
	assert.Equal(t, "/home", sess.Resolve(".."))
	assert.Equal(t, "/etc/hosts", sess.Resolve("/etc/../etc/hosts"))
}

func TestSession_WithDirLeavesOriginalUntouched(t *testing.T) {
	sess := NewSession("/a")
	next := sess.WithDir("/a/b/")

	assert.Equal(t, "/a", sess.Dir())
	assert.Equal(t, "/a/b", next.Dir())
}

func TestNewDirectoryEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o640))
	require.NoError(t, os.Chmod(path, 0o640))

	info, err := os.Stat(path)
	require.NoError(t, err)

	entry := NewDirectoryEntry(path, info)
	assert.Equal(t, "notes.txt", entry.Name)
	assert.Equal(t, KindFile, entry.Kind)
	assert.Equal(t, int64(5), entry.Size)
	assert.Equal(t, "rw-r-----", entry.Permissions.String())
	assert.WithinDuration(t, time.Now(), entry.Modified, time.Minute)

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	dirEntry := NewDirectoryEntry(dir, dirInfo)
	assert.True(t, dirEntry.IsDir())
	assert.Zero(t, dirEntry.Size, "size is reported for files only")
}
