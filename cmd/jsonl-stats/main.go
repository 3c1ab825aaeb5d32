package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/theimaginaryfoundation/chatset/dataset"
	"github.com/theimaginaryfoundation/chatset/dataset/fileutils"
	"github.com/theimaginaryfoundation/chatset/dataset/logging"
	"github.com/theimaginaryfoundation/chatset/dataset/toolconfig"
)

const toolName = "jsonl-stats"

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	fsys := afero.NewOsFs()
	cfg.Settings, err = cfg.Resolve(fsys, cfg.explicit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log := logging.New(cfg.Logging(toolName, os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, fsys, cfg, os.Stdout, os.Stderr, log)
	stop()
	os.Exit(code)
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	cfg.RegisterFlags(fs)
	fs.BoolVar(&cfg.JSON, "json", false, "Emit one JSON object per file (and for the total) instead of text blocks")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags] [paths...]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/jsonl-stats")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/jsonl-stats -include-evals -json")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/jsonl-stats train.jsonl valid.jsonl")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Paths = fs.Args()
	cfg.explicit = toolconfig.Explicit(fs)
	return cfg, nil
}

// run reports on every resolved file and returns the process exit code.
func run(ctx context.Context, fsys afero.Fs, cfg Config, stdout, stderr io.Writer, log zerolog.Logger) int {
	files, err := fileutils.ResolveFiles(fsys, cfg.Paths, cfg.Discovery())
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", toolName, err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "No JSONL files found to report on.")
		return 1
	}
	log.Debug().Strs("files", files).Msg("resolved input files")

	write := dataset.WriteStats
	if cfg.JSON {
		write = dataset.WriteStatsJSON
	}

	var total dataset.FileStats
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(stderr, "%s: interrupted: %v\n", toolName, err)
			return 1
		}

		start := time.Now()
		st, err := dataset.StatsForFile(fsys, path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", toolName, err)
			return 1
		}
		log.Debug().
			Str("path", path).
			Int("examples", st.Examples).
			Int("errors", st.Errors).
			Dur("elapsed", time.Since(start)).
			Msg("file scanned")

		if err := write(stdout, path, st); err != nil {
			fmt.Fprintf(stderr, "%s: write report: %v\n", toolName, err)
			return 1
		}
		total = dataset.Combine(total, st)
	}

	if len(files) > 1 {
		if !cfg.JSON {
			fmt.Fprintln(stdout, "TOTAL")
		}
		if err := write(stdout, dataset.TotalLabel, total); err != nil {
			fmt.Fprintf(stderr, "%s: write report: %v\n", toolName, err)
			return 1
		}
	}

	return dataset.ExitCode(len(files), total.Errors)
}
