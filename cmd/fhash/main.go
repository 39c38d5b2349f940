package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	fileutils "github.com/mattkeenan/fileutils/pkg"
)

var (
	algorithm  string
	chunkSize  string
	listAlgos  bool
	verbose    int
	configPath string

	failedFiles int
)

var rootCmd = &cobra.Command{
	Use:   "fhash file...",
	Short: "Calculate file content digests",
	Long: "fhash streams each file through the selected hash algorithm and\n" +
		"prints the hex-encoded digest. Use --list for the supported algorithms.",
	Args: func(cmd *cobra.Command, args []string) error {
		if listAlgos {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: run,

	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&algorithm, "algorithm", "a", "", "hash algorithm (default from config, normally "+fileutils.DefaultAlgorithm+")")
	flags.StringVar(&chunkSize, "chunk-size", "", "read buffer size, e.g. 64K or 1M")
	flags.BoolVar(&listAlgos, "list", false, "list supported algorithms and exit")
	flags.IntVarP(&verbose, "verbose", "v", 0, "verbose level (0-3)")
	flags.StringVar(&configPath, "config", "", "config file path")
}

func run(cmd *cobra.Command, args []string) error {
	if listAlgos {
		fmt.Println(strings.Join(fileutils.SupportedAlgorithms(), "\n"))
		return nil
	}

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

	// Validate the algorithm once, before touching any file.
	if _, err := fileutils.NewHasher(algorithm); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, path := range args {
		digest, err := fileutils.HashFile(ctx, path, algorithm, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(os.Stderr, "fhash: %v\n", err)
			failedFiles++
			continue
		}
		if len(args) == 1 {
			fmt.Printf("%s: %s\n", fileutils.NormaliseAlgorithm(algorithm), digest)
		} else {
			fmt.Printf("%s  %s\n", digest, fileutils.SafeDisplayPath(path))
		}
	}

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
	if failedFiles > 0 {
		os.Exit(1)
	}
}
