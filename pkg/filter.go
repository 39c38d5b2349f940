package fileutils

import (
	"context"
	"iter"
	"math"
	"regexp"
	"strings"
)

// FilterConfig describes the optional result filters for a file search.
// Pattern and Regexp are mutually exclusive; ExactSize is mutually
// exclusive with MinSize and MaxSize. Violations are configuration
// errors raised by Compile before any traversal begins, never per-file
// errors.
type FilterConfig struct {
	Pattern string // shell-style glob, translated to a regular expression
	Regexp  string // raw regular expression

	MinSize   *int64 // inclusive lower size bound, in bytes
	MaxSize   *int64 // inclusive upper size bound, in bytes
	ExactSize *int64 // shorthand for MinSize == MaxSize
}

// Filter is a compiled, validated FilterConfig. The zero FilterConfig
// compiles to a filter that matches everything.
type Filter struct {
	re      *regexp.Regexp
	minSize int64
	maxSize int64
}

// Compile validates the configuration and returns the compiled filter.
func (c FilterConfig) Compile() (*Filter, error) {
	if c.Pattern != "" && c.Regexp != "" {
		return nil, &ConfigError{Reason: "pattern and regexp are mutually exclusive"}
	}
	if c.ExactSize != nil && (c.MinSize != nil || c.MaxSize != nil) {
		return nil, &ConfigError{Reason: "exact size cannot be combined with a minimum or maximum size"}
	}

	f := &Filter{minSize: 0, maxSize: math.MaxInt64}

	switch {
	case c.Pattern != "":
		re, err := regexp.Compile(translateGlob(c.Pattern))
		if err != nil {
			return nil, &ConfigError{Reason: "invalid pattern", Err: err}
		}
		f.re = re
	case c.Regexp != "":
		re, err := regexp.Compile(c.Regexp)
		if err != nil {
			return nil, &ConfigError{Reason: "invalid regexp", Err: err}
		}
		f.re = re
	}

	if c.ExactSize != nil {
		f.minSize = *c.ExactSize
		f.maxSize = *c.ExactSize
	}
	if c.MinSize != nil {
		f.minSize = *c.MinSize
	}
	if c.MaxSize != nil {
		f.maxSize = *c.MaxSize
	}

	return f, nil
}

// Match reports whether entry passes every configured filter. The
// pattern is tested against the full path; size bounds are inclusive.
func (f *Filter) Match(entry FileEntry) bool {
	if f.re != nil && !f.re.MatchString(entry.Path) {
		return false
	}
	return entry.Size >= f.minSize && entry.Size <= f.maxSize
}

// translateGlob converts a shell-style pattern into a regular expression
// anchored at the end of the input: '*' matches any run of characters,
// '?' a single character, and '[...]' a character class with '!'
// negation. The result is combined with an unanchored search, so "*.go"
// matches any path ending in ".go".
func translateGlob(pattern string) string {
	var b strings.Builder
	b.WriteString("(?s:")

	i, n := 0, len(pattern)
	for i < n {
		c := pattern[i]
		i++
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '[':
			j := i
			if j < n && pattern[j] == '!' {
				j++
			}
			if j < n && pattern[j] == ']' {
				j++
			}
			for j < n && pattern[j] != ']' {
				j++
			}
			if j >= n {
				// Unterminated class: treat the bracket literally.
				b.WriteString(`\[`)
				continue
			}
			class := strings.ReplaceAll(pattern[i:j], `\`, `\\`)
			i = j + 1
			b.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				b.WriteByte('^')
				class = class[1:]
			} else if strings.HasPrefix(class, "^") {
				b.WriteByte('\\')
			}
			b.WriteString(class)
			b.WriteByte(']')
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(")$")
	return b.String()
}

// FindFiles walks root and yields only the entries that pass the
// compiled filter. Filter validation failures surface before any
// traversal, as does a bad root.
func FindFiles(ctx context.Context, root string, wcfg WalkConfig, fcfg FilterConfig, sink *ErrorSink) (iter.Seq[FileEntry], error) {
	filter, err := fcfg.Compile()
	if err != nil {
		return nil, err
	}

	files, err := Walk(ctx, root, wcfg, sink)
	if err != nil {
		return nil, err
	}

	seq := func(yield func(FileEntry) bool) {
		for entry := range files {
			if !filter.Match(entry) {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
	return seq, nil
}
