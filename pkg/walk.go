package fileutils

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// FileEntry is a single traversal result. The walker only ever yields
// regular files, never directories. Size and Symlink are cached from the
// stat taken during the scan step; callers that need fresh metadata after
// traversal must stat the path again themselves.
type FileEntry struct {
	Path    string // absolute path
	Size    int64  // size in bytes at scan time
	Symlink bool   // entry was reached through a symlink
}

// WalkConfig controls a traversal. It must not be modified once a walk
// has started.
type WalkConfig struct {
	Dotfiles       bool     // include entries whose name starts with '.'
	FollowSymlinks bool     // descend into and yield symlinked entries
	Recursive      bool     // descend into subdirectories
	Excludes       []string // literal names/paths or shell globs to skip

	// IgnorePatterns are regular expressions matched against the full
	// path, typically loaded from an ignore file with LoadIgnoreFile.
	IgnorePatterns []*regexp.Regexp
}

// DefaultWalkConfig returns the standard configuration: recursive, no
// dotfiles, no symlink following, and the platform junk directories
// excluded.
func DefaultWalkConfig() WalkConfig {
	return WalkConfig{
		Recursive: true,
		Excludes:  []string{"$RECYCLE.BIN", "System Volume Information"},
	}
}

// excluded reports whether an entry should be skipped by the exclude set.
// The base contract is an exact match against the entry name or its full
// path; shell globs in the exclude set are additionally honoured against
// the entry name.
func (cfg *WalkConfig) excluded(name, fullPath string) bool {
	for _, pattern := range cfg.Excludes {
		if pattern == name || pattern == fullPath {
			return true
		}
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	for _, re := range cfg.IgnorePatterns {
		if re.MatchString(filepath.ToSlash(fullPath)) {
			return true
		}
	}
	return false
}

// Walk returns a lazy depth-first traversal of root yielding regular
// files only. A directory's own files are yielded before its
// subdirectories are descended into, and entries are visited in sorted
// name order, so output is deterministic for a fixed tree.
//
// Per-entry failures (unreadable directories, vanished entries) are
// reported to sink and the walk continues with the next sibling, unless
// the sink is strict, in which case the walk stops at the first failure.
// Walk itself fails only when root does not exist or is not a directory.
//
// Each call to the returned sequence re-runs the traversal from scratch;
// a partially consumed sequence cannot be resumed. With FollowSymlinks
// enabled no cycle detection is performed: a symlink cycle makes the walk
// non-terminating, matching the historical behaviour of these tools.
func Walk(ctx context.Context, root string, cfg WalkConfig, sink *ErrorSink) (iter.Seq[FileEntry], error) {
	if sink == nil {
		sink = NewErrorSink()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absRoot)
	}

	seq := func(yield func(FileEntry) bool) {
		walkDir(ctx, absRoot, &cfg, sink, yield)
	}
	return seq, nil
}

// walkDir scans a single directory, yielding its files and then recursing
// into its subdirectories. It returns false when iteration must stop
// (consumer break, cancellation, or strict-mode abort).
func walkDir(ctx context.Context, dir string, cfg *WalkConfig, sink *ErrorSink, yield func(FileEntry) bool) bool {
	if ctx.Err() != nil {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// The directory itself could not be scanned. Report and let the
		// caller continue with this directory's siblings.
		if serr := sink.Report(&WalkError{Path: dir, Err: err}); serr != nil {
			return false
		}
		return true
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var subdirs []string
	for _, entry := range entries {
		if ctx.Err() != nil {
			return false
		}

		name := entry.Name()
		fullPath := filepath.Join(dir, name)

		if !cfg.Dotfiles && strings.HasPrefix(name, ".") {
			continue
		}
		if cfg.excluded(name, fullPath) {
			continue
		}

		symlink := entry.Type()&os.ModeSymlink != 0
		if symlink && !cfg.FollowSymlinks {
			continue
		}

		var size int64
		var isDir, isRegular bool
		if symlink {
			target, err := os.Stat(fullPath)
			if err != nil {
				// Broken or vanished link target. Not a directory, not a
				// file; report and move on.
				if serr := sink.Report(&WalkError{Path: fullPath, Err: err}); serr != nil {
					return false
				}
				continue
			}
			isDir = target.IsDir()
			isRegular = target.Mode().IsRegular()
			size = target.Size()
		} else {
			info, err := entry.Info()
			if err != nil {
				// Race-deleted entry: treated as not a directory, same as
				// a failed stat would be.
				if serr := sink.Report(&WalkError{Path: fullPath, Err: err}); serr != nil {
					return false
				}
				continue
			}
			isDir = info.IsDir()
			isRegular = info.Mode().IsRegular()
			size = info.Size()
		}

		if isDir {
			if cfg.Recursive {
				subdirs = append(subdirs, fullPath)
			}
			continue
		}
		if !isRegular {
			continue
		}

		if IsDebugEnabled("walk") {
			VerboseLog(3, "walk: found file %s", fullPath)
		}
		if !yield(FileEntry{Path: fullPath, Size: size, Symlink: symlink}) {
			return false
		}
	}

	for _, sub := range subdirs {
		if !walkDir(ctx, sub, cfg, sink, yield) {
			return false
		}
	}

	return true
}
