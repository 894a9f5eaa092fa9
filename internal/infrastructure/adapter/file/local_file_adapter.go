// Package file provides the filesystem adapter that implements the domain FileManager port.
// It follows hexagonal architecture principles by providing infrastructure-level file system
// operations over an afero.Fs, so the same code serves the host filesystem, an in-memory
// filesystem and a remote sftp filesystem.
//
// Every operation is synchronous and classifies host failures into the entity error
// taxonomy. Handles are scoped to a single call and closed on every exit path.
//
// Example usage:
//
//	fm := file.NewLocalFileManager(afero.NewOsFs())
//	entries, err := fm.List("/var/log")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, e := range entries {
//		fmt.Println(e.Name)
//	}
package file

import (
	"bufio"
	"errors"
	"file-explorer/internal/domain/entity"
	"file-explorer/internal/domain/port"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds recursive traversals when no other limit is configured.
const DefaultMaxDepth = 64

const (
	// sniffLen is how much of a file is inspected to tell text from binary content.
	sniffLen = 3072
	// maxLineLength is the longest line cat accepts; a longer line fails the read.
	maxLineLength = 1 << 20

	filePermission = 0o644
	dirPermission  = 0o755
)

var (
	errIsDirectory     = errors.New("is a directory")
	errBinaryContent   = errors.New("binary content cannot be displayed")
	errNotRegular      = errors.New("not a regular file")
	errRootRemoval     = errors.New("refusing to remove the filesystem root")
	errSameFile        = errors.New("source and destination are the same")
	errIntoItself      = errors.New("cannot copy or move a directory into itself")
	errDirOverFile     = errors.New("cannot overwrite a non-directory with a directory")
	errNoSymlinks      = errors.New("filesystem does not support symlinks")
	errInvalidBaseName = errors.New("name must be a single path element")
)

// Option configures a LocalFileManager.
type Option func(*LocalFileManager)

// WithLogger sets the logger used for operation tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(fm *LocalFileManager) {
		if logger != nil {
			fm.logger = logger
		}
	}
}

// WithFollowSymlinks makes recursive traversals descend into symlinked directories.
func WithFollowSymlinks(follow bool) Option {
	return func(fm *LocalFileManager) {
		fm.followSymlinks = follow
	}
}

// WithMaxDepth bounds recursive traversals. Zero or a negative value means unbounded.
func WithMaxDepth(depth int) Option {
	return func(fm *LocalFileManager) {
		fm.maxDepth = depth
	}
}

// WithRenameFunc replaces the rename primitive used by Move and Rename.
func WithRenameFunc(rename func(oldname, newname string) error) Option {
	return func(fm *LocalFileManager) {
		if rename != nil {
			fm.rename = rename
		}
	}
}

// LocalFileManager implements the FileManager port on top of an afero filesystem.
//
// It is not safe for concurrent use; the explorer runs one command at a time.
type LocalFileManager struct {
	fs             afero.Fs
	logger         *zap.Logger
	followSymlinks bool
	maxDepth       int
	rename         func(oldname, newname string) error
	realPath       func(path string) (string, error)
}

// NewLocalFileManager creates a LocalFileManager over fs.
func NewLocalFileManager(fs afero.Fs, opts ...Option) *LocalFileManager {
	fm := &LocalFileManager{
		fs:       fs,
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxDepth,
		rename:   fs.Rename,
		realPath: cleanPath,
	}
	// Only the host filesystem can resolve symlinks to canonical paths.
	if _, ok := fs.(*afero.OsFs); ok {
		fm.realPath = filepath.EvalSymlinks
	}
	for _, opt := range opts {
		opt(fm)
	}
	return fm
}

var _ port.FileManager = (*LocalFileManager)(nil)

func cleanPath(path string) (string, error) {
	return filepath.Clean(path), nil
}

// lstat returns file info without following a final symlink when the filesystem allows it.
func (fm *LocalFileManager) lstat(path string) (os.FileInfo, error) {
	if l, ok := fm.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fm.fs.Stat(path)
}

// statDir stats path and requires it to be a directory.
func (fm *LocalFileManager) statDir(op, path string) (os.FileInfo, error) {
	info, err := fm.fs.Stat(path)
	if err != nil {
		return nil, entity.WrapFSError(op, path, err)
	}
	if !info.IsDir() {
		return nil, entity.NewFSError(op, path, entity.KindNotADirectory, entity.ErrNotADirectory)
	}
	return info, nil
}

// CurrentDirectory returns the session directory after checking it still exists.
func (fm *LocalFileManager) CurrentDirectory(sess entity.Session) (string, error) {
	dir := sess.Dir()
	info, err := fm.fs.Stat(dir)
	if err != nil {
		return "", entity.NewFSError("pwd", dir, entity.KindIOError, err)
	}
	if !info.IsDir() {
		return "", entity.NewFSError("pwd", dir, entity.KindIOError, entity.ErrNotADirectory)
	}
	return dir, nil
}

// ChangeDirectory returns a session positioned at path.
func (fm *LocalFileManager) ChangeDirectory(sess entity.Session, path string) (entity.Session, error) {
	target := sess.Resolve(path)
	if _, err := fm.statDir("cd", target); err != nil {
		return sess, err
	}
	fm.logger.Debug("changed directory", zap.String("from", sess.Dir()), zap.String("to", target))
	return sess.WithDir(target), nil
}

// List returns the immediate children of path sorted by name.
func (fm *LocalFileManager) List(path string) ([]entity.DirectoryEntry, error) {
	if _, err := fm.statDir("list", path); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(fm.fs, path)
	if err != nil {
		return nil, entity.WrapFSError("list", path, err)
	}

	entries := make([]entity.DirectoryEntry, 0, len(infos))
	for _, info := range infos {
		if info.Name() == "." || info.Name() == ".." {
			continue
		}
		entries = append(entries, entity.NewDirectoryEntry(filepath.Join(path, info.Name()), info))
	}
	return entries, nil
}

// ReadLines returns the lines of a text file without their line terminators.
func (fm *LocalFileManager) ReadLines(path string) ([]string, error) {
	info, err := fm.fs.Stat(path)
	if err != nil {
		return nil, entity.WrapFSError("cat", path, err)
	}
	if info.IsDir() {
		return nil, entity.NewFSError("cat", path, entity.KindIOError, errIsDirectory)
	}
	// Reading a FIFO or device could block forever.
	if !info.Mode().IsRegular() {
		return nil, entity.NewFSError("cat", path, entity.KindUnsupportedFormat, errNotRegular)
	}

	f, err := fm.fs.Open(path)
	if err != nil {
		return nil, entity.WrapFSError("cat", path, err)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, sniffLen)
	head, err := reader.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, entity.WrapFSError("cat", path, err)
	}
	if !isText(head) {
		return nil, entity.NewFSError("cat", path, entity.KindUnsupportedFormat, errBinaryContent)
	}

	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, entity.WrapFSError("cat", path, err)
	}
	return lines, nil
}

// isText reports whether a content sample looks like text.
func isText(sample []byte) bool {
	if len(sample) == 0 {
		return true
	}
	for m := mimetype.Detect(sample); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Info returns entry data and, for regular files, the detected content type.
func (fm *LocalFileManager) Info(path string) (entity.FileDetails, error) {
	info, err := fm.lstat(path)
	if err != nil {
		return entity.FileDetails{}, entity.WrapFSError("info", path, err)
	}

	details := entity.FileDetails{DirectoryEntry: entity.NewDirectoryEntry(path, info)}
	if details.Kind != entity.KindFile {
		return details, nil
	}

	f, err := fm.fs.Open(path)
	if err != nil {
		return entity.FileDetails{}, entity.WrapFSError("info", path, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return entity.FileDetails{}, entity.WrapFSError("info", path, err)
	}
	details.MIMEType = mtype.String()
	return details, nil
}

// CreateFile creates an empty file at path. An existing file fails with
// AlreadyExists unless overwrite is set, in which case it is truncated.
func (fm *LocalFileManager) CreateFile(path string, overwrite bool) error {
	if info, err := fm.fs.Stat(path); err == nil {
		if info.IsDir() || !overwrite {
			return entity.NewFSError("touch", path, entity.KindAlreadyExists, entity.ErrAlreadyExists)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	f, err := fm.fs.OpenFile(path, flags, filePermission)
	if err != nil {
		return entity.WrapFSError("touch", path, err)
	}
	if err := f.Close(); err != nil {
		return entity.WrapFSError("touch", path, err)
	}

	fm.logger.Debug("created file", zap.String("path", path), zap.Bool("overwrite", overwrite))
	return nil
}

// CreateDirectory creates path and any missing parents. An existing directory is not an error.
func (fm *LocalFileManager) CreateDirectory(path string) error {
	if info, err := fm.fs.Stat(path); err == nil {
		if info.IsDir() {
			return nil
		}
		return entity.NewFSError("mkdir", path, entity.KindAlreadyExists, entity.ErrAlreadyExists)
	}

	// Some backends happily create a directory below a file, so check the
	// nearest existing ancestor first.
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		info, err := fm.fs.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return entity.NewFSError("mkdir", path, entity.KindNotADirectory, entity.ErrNotADirectory)
			}
			break
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}

	if err := fm.fs.MkdirAll(path, dirPermission); err != nil {
		return entity.WrapFSError("mkdir", path, err)
	}
	fm.logger.Debug("created directory", zap.String("path", path))
	return nil
}

// Delete removes a file, a symlink or a whole directory tree.
func (fm *LocalFileManager) Delete(path string) error {
	if filepath.Clean(path) == filepath.Dir(filepath.Clean(path)) {
		return entity.NewFSError("delete", path, entity.KindPermissionDenied, errRootRemoval)
	}
	if _, err := fm.lstat(path); err != nil {
		return entity.WrapFSError("delete", path, err)
	}
	if err := fm.fs.RemoveAll(path); err != nil {
		return entity.WrapFSError("delete", path, err)
	}
	fm.logger.Debug("deleted", zap.String("path", path))
	return nil
}
