package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	fileutils "github.com/mattkeenan/fileutils/pkg"
)

var (
	algorithm  string
	dotfiles   bool
	symlinks   bool
	excludes   []string
	pattern    string
	regexpArg  string
	exactSize  int64
	minSize    int64
	maxSize    int64
	workers    int
	chunkSize  string
	jsonOutput bool
	strict     bool
	verbose    int
	debugFlags string
	configPath string

	skippedErrors int
)

var rootCmd = &cobra.Command{
	Use:   "fdupes directory",
	Short: "Find duplicate files by comparing content digests",
	Long: "fdupes hashes every file under the directory and reports groups of\n" +
		"two or more files whose digests are identical.",
	Args: cobra.ExactArgs(1),
	RunE: run,

	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&algorithm, "algorithm", "a", "", "hash algorithm (default from config, normally "+fileutils.DefaultAlgorithm+")")
	flags.BoolVarP(&dotfiles, "dotfiles", "d", false, "include dotfiles")
	flags.BoolVarP(&symlinks, "symlinks", "s", false, "follow symbolic links")
	flags.StringArrayVarP(&excludes, "exclude", "e", nil, "names or paths to exclude (repeatable)")
	flags.StringVarP(&pattern, "fnmatch", "f", "", "only consider files matching a shell-style pattern")
	flags.StringVarP(&regexpArg, "regexp", "r", "", "only consider files matching a regular expression")
	flags.Int64VarP(&exactSize, "size", "x", 0, "only consider files of an exact size in bytes")
	flags.Int64VarP(&minSize, "minsize", "n", 0, "minimum file size in bytes (inclusive)")
	flags.Int64VarP(&maxSize, "maxsize", "m", 0, "maximum file size in bytes (inclusive)")
	flags.IntVar(&workers, "workers", 0, "hash worker pool size (default from config)")
	flags.StringVar(&chunkSize, "chunk-size", "", "hash read buffer size, e.g. 64K or 1M")
	flags.BoolVar(&jsonOutput, "json", false, "emit the duplicate groups as JSON")
	flags.BoolVar(&strict, "strict", false, "abort on the first traversal or hashing error")
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

	if algorithm == "" {
		algorithm = cfg.Algorithm()
	}
	chunk, err := cfg.ChunkSize()
	if err != nil {
		return err
	}
	if chunkSize != "" {
		chunk, err = fileutils.ParseHumanSize(chunkSize)
		if err != nil {
			return &fileutils.ConfigError{Reason: "invalid chunk size", Err: err}
		}
	}
	if workers <= 0 {
		workers = cfg.HashWorkers()
	}

	walkCfg := cfg.WalkDefaults()
	if dotfiles {
		walkCfg.Dotfiles = true
	}
	if symlinks {
		walkCfg.FollowSymlinks = true
	}
	walkCfg.Excludes = append(walkCfg.Excludes, excludes...)

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
			fmt.Fprintf(os.Stderr, "fdupes: %v\n", err)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := fileutils.DupeOptions{
		Walk:      &walkCfg,
		Filter:    filterCfg,
		Workers:   workers,
		ChunkSize: chunk,
	}

	fileutils.VerboseLog(1, "searching for duplicates under %s", args[0])
	start := time.Now()
	groups, err := fileutils.FindDuplicates(ctx, args[0], algorithm, opts, sink)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if jsonOutput || cfg.OutputFormat() == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(groups); err != nil {
			return fmt.Errorf("failed to encode duplicate groups: %w", err)
		}
	} else {
		normalised := fileutils.NormaliseAlgorithm(algorithm)
		if err := fileutils.WriteDuplicateReport(os.Stdout, normalised, groups); err != nil {
			return err
		}
		fmt.Printf("\nFound %d duplicate hashes in %.2f seconds.\n", len(groups), elapsed.Seconds())
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
	if skippedErrors > 0 {
		os.Exit(1)
	}
}
