// Package quarantine manages the staging subtree where sample candidates are
// moved instead of deleted. The subtree mirrors each candidate's path
// relative to the scan root, so a move is reversible by hand. It is created
// lazily on first use and aged out by Purge.
package quarantine

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/fileutil"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/logging"
)

// DirName is the quarantine subtree created under the scan root.
const DirName = "_samples_quarantine"

// Root returns the quarantine directory for a scan root.
func Root(scanRoot string) string {
	return filepath.Join(scanRoot, DirName)
}

// MoveFile moves one file into the quarantine, preserving its path relative
// to the scan root.
func MoveFile(scanRoot, relPath string) error {
	src := filepath.Join(scanRoot, filepath.FromSlash(relPath))
	dst := filepath.Join(Root(scanRoot), filepath.FromSlash(relPath))
	return fileutil.MoveFile(src, dst)
}

// Entry describes one quarantined file.
type Entry struct {
	RelPath string
	Size    int64
	ModTime time.Time
}

// List returns the quarantined files under a scan root, sorted by path.
// A missing quarantine directory yields an empty list.
func List(scanRoot string) ([]Entry, error) {
	root := Root(scanRoot)
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		entries = append(entries, Entry{
			RelPath: filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return entries, nil
}

// PurgeResult contains the outcome of an aging pass.
type PurgeResult struct {
	RemovedFiles int
	PrunedDirs   int
	Errors       int
}

// Purge permanently deletes quarantined files whose modification time is
// older than now minus maxAge, then prunes emptied subdirectories deepest
// first. A missing quarantine directory is a no-op.
func Purge(scanRoot string, maxAge time.Duration, now time.Time, logger *slog.Logger) PurgeResult {
	if logger == nil {
		logger = logging.NewNop()
	}
	result := PurgeResult{}
	root := Root(scanRoot)
	if _, err := os.Stat(root); err != nil {
		if !os.IsNotExist(err) {
			result.Errors++
			logger.Error("quarantine purge failed", logging.String(logging.FieldPath, root), logging.Error(err))
		}
		return result
	}

	cutoff := now.Add(-maxAge)
	var dirs []string

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors++
			logger.Error("quarantine purge failed", logging.String(logging.FieldPath, path), logging.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root {
				dirs = append(dirs, path)
			}
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			result.Errors++
			logger.Error("quarantine purge failed", logging.String(logging.FieldPath, path), logging.Error(infoErr))
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if removeErr := os.Remove(path); removeErr != nil {
				result.Errors++
				logger.Error("quarantine purge failed", logging.String(logging.FieldPath, path), logging.Error(removeErr))
			} else {
				result.RemovedFiles++
				logger.Info("purged quarantined file",
					logging.String(logging.FieldPath, relToRoot(root, path)),
					logging.Duration("age", now.Sub(info.ModTime())),
				)
			}
		}
		return nil
	})

	// Deepest first so parents empty out before their own removal attempt.
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(os.PathSeparator)) > strings.Count(dirs[j], string(os.PathSeparator))
	})
	for _, dir := range dirs {
		if err := os.Remove(dir); err == nil {
			result.PrunedDirs++
		}
	}

	return result
}

func relToRoot(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
