// Package scan enumerates a download directory once, producing the flat
// entry lists the classification engine consumes. Symbolic links are never
// followed, classified, or removed; unreadable entries are counted and
// skipped without aborting the walk.
package scan

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/classify"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/logging"
)

// File is a regular file discovered under the scan root.
type File struct {
	RelPath string
	Size    int64
	// SizeKnown is false when stat raced with a concurrent removal or was
	// denied; size-based rules then fail open for this file.
	SizeKnown bool
}

// Dir is a directory discovered under the scan root. The root itself is never
// reported.
type Dir struct {
	RelPath string
	// Depth counts path segments below the root, used for deepest-first
	// ordering during removal.
	Depth int
}

// Tree is the result of one enumeration pass.
type Tree struct {
	Files []File
	Dirs  []Dir
	// LargestVideoBytes is the byte size of the biggest video file found,
	// feeding the relative-size rule.
	LargestVideoBytes int64
	Errors            int
}

// Walk enumerates all descendants of root. Root-level directories named in
// skipRootDirs (the quarantine subtree) are excluded so repeat runs stay
// idempotent.
func Walk(root string, videoExts map[string]struct{}, skipRootDirs []string, logger *slog.Logger) Tree {
	if logger == nil {
		logger = logging.NewNop()
	}
	tree := Tree{}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			tree.Errors++
			logger.Error("scan error", logging.String(logging.FieldPath, path), logging.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			tree.Errors++
			logger.Error("scan error", logging.String(logging.FieldPath, path), logging.Error(relErr))
			return nil
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/")

		if d.Type()&fs.ModeSymlink != 0 {
			logger.Debug("skipping symlink", logging.String(logging.FieldPath, rel))
			return nil
		}

		if d.IsDir() {
			if depth == 0 && slices.Contains(skipRootDirs, d.Name()) {
				return filepath.SkipDir
			}
			tree.Dirs = append(tree.Dirs, Dir{RelPath: rel, Depth: depth})
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		file := File{RelPath: rel}
		if info, infoErr := d.Info(); infoErr != nil {
			tree.Errors++
			logger.Error("stat failed", logging.String(logging.FieldPath, rel), logging.Error(infoErr))
		} else {
			file.Size = info.Size()
			file.SizeKnown = true
			if _, isVideo := videoExts[classify.Ext(d.Name())]; isVideo && info.Size() > tree.LargestVideoBytes {
				tree.LargestVideoBytes = info.Size()
			}
		}
		tree.Files = append(tree.Files, file)
		return nil
	})

	return tree
}
