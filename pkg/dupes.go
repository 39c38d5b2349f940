package fileutils

import (
	"context"
	"sort"
	"strings"
	"sync"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
	"golang.org/x/sync/errgroup"
)

// DefaultHashWorkers is the hash worker pool size used when none is
// configured.
const DefaultHashWorkers = 4

// DuplicateGroup is a set of two or more files sharing one digest.
type DuplicateGroup struct {
	Digest string   `json:"digest"`
	Files  []string `json:"files"`
	Count  int      `json:"count"`
}

// DupeOptions configures a duplicate detection run. The zero value walks
// recursively with the default excludes, no result filter, and the
// default worker pool and chunk size.
type DupeOptions struct {
	Walk      *WalkConfig  // nil selects DefaultWalkConfig
	Filter    FilterConfig // optional result filter, validated up front
	Workers   int          // hash worker pool size; <= 0 selects DefaultHashWorkers
	ChunkSize int          // hashing read size; <= 0 selects DefaultChunkSize
}

// digestEntry is the aggregator's record of one hashed file.
type digestEntry struct {
	path   string
	digest string
}

// FindDuplicates hashes every file under root that survives the
// configured filters and returns only the digests shared by two or more
// files. Configuration problems (bad algorithm, conflicting filters) fail
// before any traversal starts; per-file failures go to sink and exclude
// only the affected file.
//
// The result is deterministic for a fixed tree: paths within a group are
// sorted, and groups are ordered by digest.
//
// One traversal producer feeds a bounded queue consumed by a fixed pool
// of hash workers; a single aggregator goroutine owns the index, so the
// index itself needs no locking. On cancellation partially hashed files
// are discarded and the context error is returned.
func FindDuplicates(ctx context.Context, root, algorithm string, opts DupeOptions, sink *ErrorSink) ([]DuplicateGroup, error) {
	// Validate everything before the walk begins.
	if _, err := NewHasher(algorithm); err != nil {
		return nil, err
	}
	filter, err := opts.Filter.Compile()
	if err != nil {
		return nil, err
	}

	walkCfg := DefaultWalkConfig()
	if opts.Walk != nil {
		walkCfg = *opts.Walk
	}
	if sink == nil {
		sink = NewErrorSink()
	}

	files, err := Walk(ctx, root, walkCfg, sink)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultHashWorkers
	}

	// The path queue bound provides backpressure when traversal outpaces
	// hashing; the result channel is drained by the single aggregator.
	pathChan := make(chan FileEntry, 64)
	resultChan := make(chan DigestResult, 64)

	// Sorted by path, so group membership comes out in deterministic
	// order without a post-sort over every file.
	index := zcsl.MakeZeroCopySkiplist[digestEntry, string, string](
		16,
		func(e *digestEntry) string { return e.path },
		func(e *digestEntry) int { return len(e.path) + len(e.digest) },
		strings.Compare,
	)

	g, ctx := errgroup.WithContext(ctx)

	// Traversal producer.
	g.Go(func() error {
		defer close(pathChan)
		for entry := range files {
			if !filter.Match(entry) {
				continue
			}
			select {
			case pathChan <- entry:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := sink.Err(); err != nil {
			return err
		}
		return ctx.Err()
	})

	// Hash worker pool. Workers share no state; each opens and digests
	// its own files.
	var workerWg sync.WaitGroup
	for i := 0; i < workers; i++ {
		workerWg.Add(1)
		g.Go(func() error {
			defer workerWg.Done()
			for entry := range pathChan {
				if IsDebugEnabled("dupes") {
					VerboseLog(3, "dupes: hashing %s", entry.Path)
				}
				digest, err := HashFile(ctx, entry.Path, algorithm, opts.ChunkSize)
				if err != nil {
					if ctx.Err() != nil {
						// Partially hashed file on cancellation: discard,
						// report nothing.
						return ctx.Err()
					}
					if serr := sink.Report(err); serr != nil {
						return serr
					}
					continue
				}
				select {
				case resultChan <- DigestResult{Path: entry.Path, Algorithm: algorithm, Digest: digest}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workerWg.Wait()
		close(resultChan)
	}()

	// Aggregator: sole owner and mutator of the index.
	g.Go(func() error {
		for res := range resultChan {
			index.Insert(&digestEntry{path: res.Path, digest: res.Digest}, algorithm)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Iterating the skiplist in path order keeps each group's file list
	// sorted as it is built.
	byDigest := make(map[string][]string)
	for node := index.First(); node != nil; node = node.Next() {
		entry := node.Item()
		byDigest[entry.digest] = append(byDigest[entry.digest], entry.path)
	}

	var groups []DuplicateGroup
	for digest, paths := range byDigest {
		if len(paths) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{Digest: digest, Files: paths, Count: len(paths)})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Digest < groups[j].Digest
	})

	return groups, nil
}
