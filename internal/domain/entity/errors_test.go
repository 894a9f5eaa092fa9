package entity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"not exist", &fs.PathError{Op: "stat", Path: "/x", Err: fs.ErrNotExist}, KindNotFound},
		{"exist", &fs.PathError{Op: "mkdir", Path: "/x", Err: fs.ErrExist}, KindAlreadyExists},
		{"permission", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, KindPermissionDenied},
		{"enotdir", &fs.PathError{Op: "open", Path: "/x/y", Err: syscall.ENOTDIR}, KindNotADirectory},
		{"exdev", &os.LinkError{Op: "rename", Old: "/a", New: "/b", Err: syscall.EXDEV}, KindCrossDeviceFallback},
		{"other", errors.New("disk on fire"), KindIOError},
		{"wrapped", fmt.Errorf("list: %w", fs.ErrNotExist), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFSError_Is(t *testing.T) {
	err := WrapFSError("list", "/missing", &fs.PathError{Op: "open", Path: "/missing", Err: fs.ErrNotExist})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist, "underlying host error stays reachable")
	assert.NotErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", err)))
}

func TestWrapFSError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapFSError("op", "/p", nil))
	})

	t.Run("existing kind is preserved", func(t *testing.T) {
		inner := NewFSError("chmod", "/p", KindUnsupportedFormat, nil)
		assert.Same(t, inner, WrapFSError("other", "/q", inner))
	})

	t.Run("message names operation, path and kind", func(t *testing.T) {
		err := NewFSError("cd", "/etc/passwd", KindNotADirectory, nil)
		assert.Equal(t, "cd /etc/passwd: NotADirectory", err.Error())
	})
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "CrossDeviceFallback", KindCrossDeviceFallback.String())
	assert.Equal(t, "ErrorKind(42)", ErrorKind(42).String())
}

func TestIsCrossDevice(t *testing.T) {
	assert.True(t, IsCrossDevice(&os.LinkError{Op: "rename", Err: syscall.EXDEV}))
	assert.False(t, IsCrossDevice(&os.LinkError{Op: "rename", Err: syscall.ENOENT}))
}
