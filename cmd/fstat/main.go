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
	dotfiles   bool
	symlinks   bool
	jsonOutput bool
	verbose    int
	configPath string

	skippedErrors int
)

var rootCmd = &cobra.Command{
	Use:   "fstat path",
	Short: "Report file metadata for a file or every file under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  run,

	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&dotfiles, "dotfiles", "d", false, "include dotfiles")
	flags.BoolVarP(&symlinks, "symlinks", "l", false, "follow symbolic links")
	flags.BoolVar(&jsonOutput, "json", false, "emit the reports as JSON")
	flags.IntVarP(&verbose, "verbose", "v", 0, "verbose level (0-3)")
	flags.StringVar(&configPath, "config", "", "config file path")
}

func run(cmd *cobra.Command, args []string) error {
	fileutils.SetVerboseLevel(verbose)

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

	sink := fileutils.NewForwardingSink(func(err error) {
		fmt.Fprintf(os.Stderr, "fstat: %v\n", err)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := fileutils.StatTree(ctx, args[0], walkCfg, sink)
	if err != nil {
		return err
	}

	var enc *json.Encoder
	if jsonOutput {
		enc = json.NewEncoder(os.Stdout)
	}
	for fs := range stats {
		if enc != nil {
			if err := enc.Encode(fs); err != nil {
				return fmt.Errorf("failed to encode stat report: %w", err)
			}
			continue
		}
		fmt.Printf("%s\tmode=%o ino=%d dev=%d nlink=%d uid=%d gid=%d size=%d atime=%s mtime=%s ctime=%s\n",
			fileutils.SafeDisplayPath(fs.Path), fs.Mode, fs.Ino, fs.Dev, fs.Nlink, fs.UID, fs.GID, fs.Size,
			fs.Atime.Format("2006-01-02T15:04:05"),
			fs.Mtime.Format("2006-01-02T15:04:05"),
			fs.Ctime.Format("2006-01-02T15:04:05"))
	}

	if err := ctx.Err(); err != nil {
		return err
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
