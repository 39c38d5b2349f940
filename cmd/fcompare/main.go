package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	fileutils "github.com/mattkeenan/fileutils/pkg"
)

var (
	algorithm  string
	dotfiles   bool
	symlinks   bool
	excludes   []string
	chunkSize  string
	jsonOutput bool
	verbose    int
	configPath string

	skippedErrors int
)

var rootCmd = &cobra.Command{
	Use:   "fcompare left-directory right-directory",
	Short: "Compare two directory trees by content digest",
	Long: "fcompare walks both trees and classifies every file as left-only,\n" +
		"right-only, identical, or different. Identity is digest equality\n" +
		"only; differing files are not diffed byte by byte.",
	Args: cobra.ExactArgs(2),
	RunE: run,

	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&algorithm, "algorithm", "a", "", "hash algorithm (default from config, normally "+fileutils.DefaultAlgorithm+")")
	flags.BoolVarP(&dotfiles, "dotfiles", "d", false, "include dotfiles")
	flags.BoolVarP(&symlinks, "symlinks", "l", false, "follow symbolic links")
	flags.StringArrayVarP(&excludes, "exclude", "e", nil, "names or paths to exclude (repeatable)")
	flags.StringVar(&chunkSize, "chunk-size", "", "hash read buffer size, e.g. 64K or 1M")
	flags.BoolVar(&jsonOutput, "json", false, "emit the comparison as JSON")
	flags.IntVarP(&verbose, "verbose", "v", 0, "verbose level (0-3)")
	flags.StringVar(&configPath, "config", "", "config file path")
}

func run(cmd *cobra.Command, args []string) error {
	fileutils.SetVerboseLevel(verbose)

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

	walkCfg := cfg.WalkDefaults()
	if dotfiles {
		walkCfg.Dotfiles = true
	}
	if symlinks {
		walkCfg.FollowSymlinks = true
	}
	walkCfg.Excludes = append(walkCfg.Excludes, excludes...)

	sink := fileutils.NewForwardingSink(func(err error) {
		fmt.Fprintf(os.Stderr, "fcompare: %v\n", err)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := fileutils.CompareDirs(ctx, args[0], args[1], algorithm, walkCfg,
		fileutils.DupeOptions{ChunkSize: chunk}, sink)
	if err != nil {
		return err
	}

	if jsonOutput || cfg.OutputFormat() == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode comparison: %w", err)
		}
	} else {
		printSection("Only in "+args[0], result.LeftOnly)
		printSection("Only in "+args[1], result.RightOnly)
		printSection("Identical files", result.Same)
		printSection("Differing files", result.Different)
	}

	skippedErrors = sink.Len()
	return nil
}

func printSection(title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, path := range paths {
		fmt.Printf("  %s\n", fileutils.SafeDisplayPath(path))
	}
	fmt.Println()
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
