package file

import (
	"errors"
	"file-explorer/internal/domain/entity"
	"file-explorer/internal/domain/port"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Copy copies src to dst. A file copied onto an existing directory lands inside it
// under its own name. A directory is merged into dst recursively, overwriting files
// that already exist, so repeating a copy leaves the same tree.
func (fm *LocalFileManager) Copy(src, dst string) (port.CopyResult, error) {
	srcInfo, err := fm.fs.Stat(src)
	if err != nil {
		return port.CopyResult{}, entity.WrapFSError("copy", src, err)
	}

	target, err := fm.copyTarget(src, dst, srcInfo)
	if err != nil {
		return port.CopyResult{}, err
	}

	result := port.CopyResult{Destination: target}
	// Symlinks are resolved first: copying a file onto itself truncates it.
	if fm.sameFile(src, target) {
		return result, entity.NewFSError("copy", src, entity.KindIOError, errSameFile)
	}
	if srcInfo.IsDir() {
		if isWithin(fm.resolvePath(src), fm.resolvePath(target)) {
			return result, entity.NewFSError("copy", src, entity.KindIOError, errIntoItself)
		}
		err = fm.copyTree(src, target, &result)
	} else {
		err = fm.copyFile(src, target, srcInfo.Mode())
		if err == nil {
			result.Files = 1
		}
	}
	if err != nil {
		return result, entity.WrapFSError("copy", src, err)
	}

	fm.logger.Debug("copied",
		zap.String("src", src), zap.String("dst", target),
		zap.Int("files", result.Files), zap.Int("directories", result.Directories))
	return result, nil
}

// copyTarget works out where src ends up when copied to dst.
func (fm *LocalFileManager) copyTarget(src, dst string, srcInfo os.FileInfo) (string, error) {
	dstInfo, err := fm.fs.Stat(dst)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return dst, nil
	case err != nil:
		return "", entity.WrapFSError("copy", dst, err)
	case dstInfo.IsDir() && !srcInfo.IsDir():
		return filepath.Join(dst, filepath.Base(src)), nil
	case !dstInfo.IsDir() && srcInfo.IsDir():
		return "", entity.NewFSError("copy", dst, entity.KindNotADirectory, errDirOverFile)
	default:
		return dst, nil
	}
}

// copyTree mirrors the tree at src into dst using the manager's traversal policy.
// Directory modes are applied once their children are in place.
func (fm *LocalFileManager) copyTree(src, dst string, result *port.CopyResult) error {
	var (
		copyErr error
		dirs    []dirMode
	)

	visit := func(path, rel string, info os.FileInfo) bool {
		target := dst
		if rel != "." {
			target = filepath.Join(dst, filepath.FromSlash(rel))
		}

		switch {
		case info.IsDir():
			// Owner access is needed until the children are copied.
			if err := fm.fs.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				copyErr = err
				return false
			}
			if err := fm.fs.Chmod(target, info.Mode().Perm()|0o700); err != nil {
				copyErr = err
				return false
			}
			dirs = append(dirs, dirMode{path: target, mode: info.Mode().Perm()})
			result.Directories++
		case info.Mode()&os.ModeSymlink != 0:
			if err := fm.copySymlink(path, target); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("skipped symlink %s: %v", path, err))
			}
		case info.Mode().IsRegular():
			if fm.sameFile(path, target) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("skipped %s: same file as %s", path, target))
				return true
			}
			if err := fm.copyFile(path, target, info.Mode()); err != nil {
				copyErr = err
				return false
			}
			result.Files++
		default:
			result.Warnings = append(result.Warnings, "skipped special file "+path)
		}
		return true
	}
	warn := func(w *port.TraversalWarning) bool {
		result.Warnings = append(result.Warnings, w.Error())
		return true
	}

	err := fm.walk(src, visit, warn)
	// Deepest first, so a read-only parent does not block its children.
	for i := len(dirs) - 1; i >= 0; i-- {
		if chmodErr := fm.fs.Chmod(dirs[i].path, dirs[i].mode); chmodErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("could not restore mode of %s: %v", dirs[i].path, chmodErr))
		}
	}
	if err != nil {
		return err
	}
	return copyErr
}

type dirMode struct {
	path string
	mode os.FileMode
}

// copyFile copies one regular file, truncating dst if it exists.
func (fm *LocalFileManager) copyFile(src, dst string, mode os.FileMode) (err error) {
	in, err := fm.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fm.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return fm.fs.Chmod(dst, mode.Perm())
}

// copySymlink recreates the link at src as dst, replacing a non-directory dst.
func (fm *LocalFileManager) copySymlink(src, dst string) error {
	reader, canRead := fm.fs.(afero.LinkReader)
	linker, canLink := fm.fs.(afero.Linker)
	if !canRead || !canLink {
		return errNoSymlinks
	}

	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return err
	}
	if info, err := fm.lstat(dst); err == nil && !info.IsDir() {
		if err := fm.fs.Remove(dst); err != nil {
			return err
		}
	}
	return linker.SymlinkIfPossible(target, dst)
}

// sameFile reports whether a and b name the same existing file once symlinks
// are followed.
func (fm *LocalFileManager) sameFile(a, b string) bool {
	aInfo, err := fm.fs.Stat(a)
	if err != nil {
		return false
	}
	bInfo, err := fm.fs.Stat(b)
	if err != nil {
		return false
	}
	if os.SameFile(aInfo, bInfo) {
		return true
	}
	return fm.resolvePath(a) == fm.resolvePath(b)
}

// resolvePath returns path with symlinks resolved through its longest existing
// prefix. The missing tail is appended unchanged.
func (fm *LocalFileManager) resolvePath(path string) string {
	path = filepath.Clean(path)
	var tail []string
	for dir := path; ; dir = filepath.Dir(dir) {
		if resolved, err := fm.realPath(dir); err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...)
		}
		if dir == filepath.Dir(dir) {
			return path
		}
		tail = append([]string{filepath.Base(dir)}, tail...)
	}
}

// isWithin reports whether path is dir itself or lies below it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
