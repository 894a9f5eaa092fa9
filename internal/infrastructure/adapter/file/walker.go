package file

import (
	"file-explorer/internal/domain/port"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// visitFunc is called once per entry. rel is slash separated and "." for the root.
// Returning false stops the walk.
type visitFunc func(path, rel string, info os.FileInfo) bool

// warnFunc receives problems that skip part of the tree. Returning false stops the walk.
type warnFunc func(w *port.TraversalWarning) bool

// treeWalker performs one depth-first traversal. Children are visited in name order.
type treeWalker struct {
	fm      *LocalFileManager
	visit   visitFunc
	warn    warnFunc
	visited map[string]struct{}
}

// walk traverses root, root included. Only a failure to stat root is returned;
// everything below it is reported through warn.
func (fm *LocalFileManager) walk(root string, visit visitFunc, warn warnFunc) error {
	// The root is always followed, so "search linkdir x" searches the target.
	info, err := fm.fs.Stat(root)
	if err != nil {
		return err
	}

	w := &treeWalker{
		fm:      fm,
		visit:   visit,
		warn:    warn,
		visited: make(map[string]struct{}),
	}
	w.walk(root, ".", info, 0)
	return nil
}

func (w *treeWalker) walk(path, rel string, info os.FileInfo, depth int) bool {
	info, descend := w.resolve(path, info)
	if !w.visit(path, rel, info) {
		return false
	}
	if !descend {
		return true
	}

	if w.fm.maxDepth > 0 && depth >= w.fm.maxDepth {
		return w.warn(&port.TraversalWarning{
			Path:   path,
			Reason: fmt.Sprintf("depth limit %d reached", w.fm.maxDepth),
		})
	}

	key, err := w.fm.realPath(path)
	if err != nil {
		return w.warn(&port.TraversalWarning{Path: path, Reason: "cannot resolve path", Err: err})
	}
	if _, seen := w.visited[key]; seen {
		return w.warn(&port.TraversalWarning{Path: path, Reason: "already visited via symlink " + key})
	}
	w.visited[key] = struct{}{}

	children, err := afero.ReadDir(w.fm.fs, path)
	if err != nil {
		return w.warn(&port.TraversalWarning{Path: path, Reason: "cannot read directory", Err: err})
	}

	for _, child := range children {
		name := child.Name()
		if name == "." || name == ".." {
			continue
		}
		childRel := name
		if rel != "." {
			childRel = rel + "/" + name
		}
		if !w.walk(filepath.Join(path, name), childRel, child, depth+1) {
			return false
		}
	}
	return true
}

// resolve decides whether an entry is descended into. Symlinked directories are
// followed only when the manager is configured to; their target info is returned
// in that case so callers see a directory.
func (w *treeWalker) resolve(path string, info os.FileInfo) (os.FileInfo, bool) {
	if info.IsDir() {
		return info, true
	}
	if info.Mode()&os.ModeSymlink == 0 || !w.fm.followSymlinks {
		return info, false
	}
	target, err := w.fm.fs.Stat(path)
	if err != nil || !target.IsDir() {
		return info, false
	}
	return target, true
}
