package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	fileutils "github.com/mattkeenan/fileutils/pkg"
)

var (
	dotfiles   bool
	symlinks   bool
	noRecurse  bool
	excludes   []string
	pattern    string
	regexpArg  string
	exactSize  int64
	minSize    int64
	maxSize    int64
	ignoreFile string
	summary    bool
	strict     bool
	verbose    int
	debugFlags string
	configPath string

	skippedErrors int
)

var rootCmd = &cobra.Command{
	Use:   "ffind directory",
	Short: "Recursively search a directory for files matching the configured filters",
	Args:  cobra.ExactArgs(1),
	RunE:  run,

	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&dotfiles, "dotfiles", "d", false, "include dotfiles")
	flags.BoolVarP(&symlinks, "symlinks", "l", false, "follow symbolic links")
	flags.BoolVar(&noRecurse, "no-recurse", false, "do not descend into subdirectories")
	flags.StringArrayVarP(&excludes, "exclude", "e", nil, "names or paths to exclude (repeatable)")
	flags.StringVarP(&pattern, "fnmatch", "f", "", "shell-style filename pattern (quote wildcards, e.g. \"*.go\")")
	flags.StringVarP(&regexpArg, "regexp", "r", "", "match paths with a regular expression")
	flags.Int64VarP(&exactSize, "size", "x", 0, "limit files to an exact size in bytes")
	flags.Int64VarP(&minSize, "minsize", "n", 0, "minimum file size in bytes (inclusive)")
	flags.Int64VarP(&maxSize, "maxsize", "m", 0, "maximum file size in bytes (inclusive)")
	flags.StringVar(&ignoreFile, "ignore-file", "", "file of regular expression patterns to exclude")
	flags.BoolVar(&summary, "summary", false, "show file count and scan duration")
	flags.BoolVar(&strict, "strict", false, "abort on the first traversal error")
	flags.IntVarP(&verbose, "verbose", "v", 0, "verbose level (0-3)")
	flags.StringVar(&debugFlags, "debug", "", "comma-separated debug flags")
	flags.StringVar(&configPath, "config", "", "config file path")
}

func run(cmd *cobra.Command, args []string) error {
	fileutils.SetVerboseLevel(verbose)
	fileutils.SetDebugFlags(debugFlags)

	cfg, err := fileutils.LoadConfig(configPath)
	if err != nil {
		return err
	}

	walkCfg := cfg.WalkDefaults()
	if dotfiles {
		walkCfg.Dotfiles = true
	}
	if symlinks {
		walkCfg.FollowSymlinks = true
	}
	walkCfg.Recursive = !noRecurse
	walkCfg.Excludes = append(walkCfg.Excludes, excludes...)

	if ignoreFile != "" {
		patterns, err := fileutils.LoadIgnoreFile(ignoreFile)
		if err != nil {
			return err
		}
		walkCfg.IgnorePatterns = patterns
	}

	filterCfg := fileutils.FilterConfig{Pattern: pattern, Regexp: regexpArg}
	if cmd.Flags().Changed("size") {
		filterCfg.ExactSize = &exactSize
	}
	if cmd.Flags().Changed("minsize") {
		filterCfg.MinSize = &minSize
	}
	if cmd.Flags().Changed("maxsize") {
		filterCfg.MaxSize = &maxSize
	}

	var sink *fileutils.ErrorSink
	if strict {
		sink = fileutils.NewStrictSink()
	} else {
		sink = fileutils.NewForwardingSink(func(err error) {
			fmt.Fprintf(os.Stderr, "ffind: %v\n", err)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files, err := fileutils.FindFiles(ctx, args[0], walkCfg, filterCfg, sink)
	if err != nil {
		return err
	}

	start := time.Now()
	count := 0
	for entry := range files {
		if !utf8.ValidString(entry.Path) {
			sink.Report(&fileutils.PathEncodingError{Path: entry.Path})
		}
		fmt.Println(fileutils.SafeDisplayPath(entry.Path))
		count++
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sink.Err(); err != nil {
		return err
	}

	if summary {
		fmt.Printf("\nFound %d files in %.4f seconds.\n", count, time.Since(start).Seconds())
	}

	skippedErrors = sink.Len()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var cerr *fileutils.ConfigError
		if errors.As(err, &cerr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
	// Completed, but some entries were skipped over recoverable errors.
	if skippedErrors > 0 {
		os.Exit(1)
	}
}
