package fileutils

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
)

// CompareResult is the outcome of comparing two directory trees. Paths
// are relative to their respective roots. Common files are classified by
// digest equality only; no byte-level diffing is attempted.
type CompareResult struct {
	LeftOnly  []string `json:"left_only"`
	RightOnly []string `json:"right_only"`
	Same      []string `json:"same"`
	Different []string `json:"different"`
}

// CompareDirs walks both roots and splits their files into left-only,
// right-only, and common, then classifies each common file as same or
// different by comparing digests under the given algorithm. Files that
// cannot be hashed on either side are reported to sink and left out of
// both classifications. All four result lists are sorted.
func CompareDirs(ctx context.Context, left, right, algorithm string, cfg WalkConfig, opts DupeOptions, sink *ErrorSink) (*CompareResult, error) {
	if _, err := NewHasher(algorithm); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NewErrorSink()
	}

	leftFiles, err := collectRelative(ctx, left, cfg, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to scan left tree: %w", err)
	}
	rightFiles, err := collectRelative(ctx, right, cfg, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to scan right tree: %w", err)
	}

	result := &CompareResult{}
	for rel := range leftFiles {
		if _, ok := rightFiles[rel]; !ok {
			result.LeftOnly = append(result.LeftOnly, rel)
		}
	}
	for rel := range rightFiles {
		if _, ok := leftFiles[rel]; !ok {
			result.RightOnly = append(result.RightOnly, rel)
		}
	}

	for rel, leftPath := range leftFiles {
		rightPath, ok := rightFiles[rel]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		leftDigest, err := HashFile(ctx, leftPath, algorithm, opts.ChunkSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if serr := sink.Report(err); serr != nil {
				return nil, serr
			}
			continue
		}
		rightDigest, err := HashFile(ctx, rightPath, algorithm, opts.ChunkSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if serr := sink.Report(err); serr != nil {
				return nil, serr
			}
			continue
		}

		if leftDigest == rightDigest {
			result.Same = append(result.Same, rel)
		} else {
			result.Different = append(result.Different, rel)
		}
	}

	sort.Strings(result.LeftOnly)
	sort.Strings(result.RightOnly)
	sort.Strings(result.Same)
	sort.Strings(result.Different)
	return result, nil
}

// collectRelative walks root and maps each file's root-relative path to
// its absolute path.
func collectRelative(ctx context.Context, root string, cfg WalkConfig, sink *ErrorSink) (map[string]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	files, err := Walk(ctx, absRoot, cfg, sink)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	for entry := range files {
		rel, err := filepath.Rel(absRoot, entry.Path)
		if err != nil {
			if serr := sink.Report(&WalkError{Path: entry.Path, Err: err}); serr != nil {
				return nil, serr
			}
			continue
		}
		out[rel] = entry.Path
	}
	if err := sink.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
