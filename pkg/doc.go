// Package fileutils is the shared core of a suite of small filesystem
// inspection tools: filtered file search, content hashing, duplicate
// detection by digest equality, metadata reporting, and directory
// comparison.
//
// The centre of the package is a lazy depth-first tree walker that
// yields regular files only, composed with validated filters (dotfiles,
// symlinks, excludes, name patterns, size bounds) and a streaming
// chunked hasher. Duplicate detection runs the walker as a producer
// feeding a fixed pool of hash workers through a bounded queue, with a
// single aggregator owning the digest index.
//
// Per-entry failures never abort a traversal by default: they are
// reported through an ErrorSink and the operation continues, so one
// unreadable directory does not hide its siblings. Configuration
// problems, by contrast, are validated before any traversal begins and
// fail the whole operation.
package fileutils
