package file

import (
	"errors"
	"file-explorer/internal/domain/entity"
	"file-explorer/internal/domain/port"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Move renames src to dst. When dst is an existing directory src is moved inside it.
//
// A rename that fails because src and dst are on different devices is completed by
// copying and then deleting the source. That path is not atomic; the result reports
// MoveCopied so callers can tell the user.
func (fm *LocalFileManager) Move(src, dst string) (port.MoveResult, error) {
	srcInfo, err := fm.lstat(src)
	if err != nil {
		return port.MoveResult{}, entity.WrapFSError("move", src, err)
	}

	target := dst
	if dstInfo, err := fm.fs.Stat(dst); err == nil && dstInfo.IsDir() {
		target = filepath.Join(dst, filepath.Base(src))
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return port.MoveResult{}, entity.WrapFSError("move", dst, err)
	}

	result := port.MoveResult{Source: src, Destination: target, Method: port.MoveRenamed}
	if filepath.Clean(src) == filepath.Clean(target) || fm.sameFile(src, target) {
		return result, entity.NewFSError("move", src, entity.KindIOError, errSameFile)
	}
	if srcInfo.IsDir() && isWithin(fm.resolvePath(src), fm.resolvePath(target)) {
		return result, entity.NewFSError("move", src, entity.KindIOError, errIntoItself)
	}

	err = fm.rename(src, target)
	if err == nil {
		fm.logger.Debug("moved", zap.String("src", src), zap.String("dst", target))
		return result, nil
	}
	if !entity.IsCrossDevice(err) {
		return result, entity.WrapFSError("move", src, err)
	}

	fm.logger.Warn("rename crossed devices, falling back to copy",
		zap.String("src", src), zap.String("dst", target))
	return fm.moveByCopy(src, target, result)
}

func (fm *LocalFileManager) moveByCopy(src, target string, result port.MoveResult) (port.MoveResult, error) {
	result.Method = port.MoveCopied

	copied, err := fm.Copy(src, target)
	if err != nil {
		return result, entity.NewFSError("move", src, entity.KindOf(err),
			fmt.Errorf("copy to %s failed, a partial destination may remain: %w", target, err))
	}
	if len(copied.Warnings) > 0 {
		result.Warning = fmt.Sprintf("source kept because %d entries were not copied: %s",
			len(copied.Warnings), strings.Join(copied.Warnings, "; "))
		return result, nil
	}

	if err := fm.fs.RemoveAll(src); err != nil {
		fm.logger.Warn("source removal failed after cross-device copy",
			zap.String("src", src), zap.Error(err))
		result.Warning = fmt.Sprintf("copied to %s but could not remove source: %v", target, err)
	}
	return result, nil
}

// Rename changes the base name of path and returns the new path. newName must be a
// single path element and must not already exist next to path.
func (fm *LocalFileManager) Rename(path, newName string) (string, error) {
	if newName == "" || newName == "." || newName == ".." || strings.ContainsRune(newName, filepath.Separator) ||
		strings.ContainsRune(newName, '/') {
		return "", entity.NewFSError("rename", newName, entity.KindUnsupportedFormat, errInvalidBaseName)
	}
	if _, err := fm.lstat(path); err != nil {
		return "", entity.WrapFSError("rename", path, err)
	}

	target := filepath.Join(filepath.Dir(path), newName)
	if target == filepath.Clean(path) {
		return target, nil
	}
	if _, err := fm.lstat(target); err == nil {
		return "", entity.NewFSError("rename", target, entity.KindAlreadyExists, entity.ErrAlreadyExists)
	}

	if err := fm.rename(path, target); err != nil {
		return "", entity.WrapFSError("rename", path, err)
	}
	fm.logger.Debug("renamed", zap.String("from", path), zap.String("to", target))
	return target, nil
}
