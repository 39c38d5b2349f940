package fileutils

import (
	"context"
	"fmt"
	"iter"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// FileStat is the metadata report for a single path, populated from the
// platform stat structure. Symlinks are reported as themselves, not
// their targets.
type FileStat struct {
	Path    string
	Mode    uint32
	Ino     uint64
	Dev     uint64
	Nlink   uint64
	UID     uint32
	GID     uint32
	Size    int64
	Blocks  int64
	Blksize int64
	Atime   time.Time
	Mtime   time.Time
	Ctime   time.Time
}

// StatPath returns the metadata report for one path.
func StatPath(path string) (*FileStat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, &WalkError{Path: path, Err: err}
	}
	return statFromSys(path, &st), nil
}

func statFromSys(path string, st *unix.Stat_t) *FileStat {
	atime := st.Atim
	mtime := st.Mtim
	ctime := st.Ctim
	return &FileStat{
		Path:    path,
		Mode:    uint32(st.Mode),
		Ino:     uint64(st.Ino),
		Dev:     uint64(st.Dev),
		Nlink:   uint64(st.Nlink),
		UID:     st.Uid,
		GID:     st.Gid,
		Size:    st.Size,
		Blocks:  st.Blocks,
		Blksize: int64(st.Blksize),
		Atime:   time.Unix(atime.Unix()),
		Mtime:   time.Unix(mtime.Unix()),
		Ctime:   time.Unix(ctime.Unix()),
	}
}

// StatTree yields a metadata report for path itself when it is a regular
// file, or for every file found by walking it as a directory. Per-entry
// stat failures go to sink and the iteration continues.
func StatTree(ctx context.Context, path string, cfg WalkConfig, sink *ErrorSink) (iter.Seq[FileStat], error) {
	if sink == nil {
		sink = NewErrorSink()
	}

	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.Mode().IsRegular() {
		seq := func(yield func(FileStat) bool) {
			fs, err := StatPath(path)
			if err != nil {
				sink.Report(err)
				return
			}
			yield(*fs)
		}
		return seq, nil
	}

	files, err := Walk(ctx, path, cfg, sink)
	if err != nil {
		return nil, err
	}

	seq := func(yield func(FileStat) bool) {
		for entry := range files {
			fs, err := StatPath(entry.Path)
			if err != nil {
				if serr := sink.Report(err); serr != nil {
					return
				}
				continue
			}
			if !yield(*fs) {
				return
			}
		}
	}
	return seq, nil
}
