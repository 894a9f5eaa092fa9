package file

import (
	"file-explorer/internal/domain/entity"
	"file-explorer/internal/domain/port"
	"iter"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Search yields every entry under root, root included, whose base name contains
// fragment. Matching is a case-sensitive substring test. The sequence is lazy and
// every range over it walks the tree again.
//
// Skipped subtrees are yielded as *port.TraversalWarning errors and the walk goes
// on; a root that cannot be read is yielded as a single *entity.FSError.
func (fm *LocalFileManager) Search(root, fragment string) iter.Seq2[port.SearchHit, error] {
	return fm.matching("search", root, func(_ string, info os.FileInfo) bool {
		return strings.Contains(info.Name(), fragment)
	})
}

// Glob yields every entry below root whose slash-separated relative path matches
// pattern. Patterns support ** for any number of directories.
func (fm *LocalFileManager) Glob(root, pattern string) iter.Seq2[port.SearchHit, error] {
	if !doublestar.ValidatePattern(pattern) {
		return func(yield func(port.SearchHit, error) bool) {
			yield(port.SearchHit{Path: root},
				entity.NewFSError("find", pattern, entity.KindUnsupportedFormat, doublestar.ErrBadPattern))
		}
	}
	return fm.matching("find", root, func(rel string, _ os.FileInfo) bool {
		if rel == "." {
			return false
		}
		matched, err := doublestar.Match(pattern, rel)
		return err == nil && matched
	})
}

func (fm *LocalFileManager) matching(
	op, root string,
	match func(rel string, info os.FileInfo) bool,
) iter.Seq2[port.SearchHit, error] {
	return func(yield func(port.SearchHit, error) bool) {
		visit := func(path, rel string, info os.FileInfo) bool {
			if !match(rel, info) {
				return true
			}
			return yield(port.SearchHit{
				Path:  path,
				Rel:   rel,
				Entry: entity.NewDirectoryEntry(path, info),
			}, nil)
		}
		warn := func(w *port.TraversalWarning) bool {
			fm.logger.Warn("traversal skipped entry",
				zap.String("op", op), zap.String("path", w.Path),
				zap.String("reason", w.Reason), zap.Error(w.Err))
			return yield(port.SearchHit{Path: w.Path}, w)
		}

		if err := fm.walk(root, visit, warn); err != nil {
			yield(port.SearchHit{Path: root}, entity.WrapFSError(op, root, err))
		}
	}
}
