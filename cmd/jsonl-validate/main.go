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
	"github.com/theimaginaryfoundation/chatset/dataset/schema"
	"github.com/theimaginaryfoundation/chatset/dataset/toolconfig"
)

const toolName = "jsonl-validate"

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

	if cfg.Schema {
		os.Exit(printSchema(os.Stdout, os.Stderr))
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
	fs.BoolVar(&cfg.Schema, "schema", false, "Print the JSON Schema of a chat record and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags] [paths...]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/jsonl-validate")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/jsonl-validate -include-evals")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/jsonl-validate -schema > chat.schema.json")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Paths = fs.Args()
	cfg.explicit = toolconfig.Explicit(fs)
	return cfg, nil
}

func printSchema(stdout, stderr io.Writer) int {
	s, err := schema.Generate[dataset.ChatRecord]()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", toolName, err)
		return 1
	}
	b, err := schema.MarshalIndent(s)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", toolName, err)
		return 1
	}
	if _, err := stdout.Write(b); err != nil {
		fmt.Fprintf(stderr, "%s: write schema: %v\n", toolName, err)
		return 1
	}
	return 0
}

// run validates every resolved file and returns the process exit code.
// Findings go to stderr, tallies to stdout.
func run(ctx context.Context, fsys afero.Fs, cfg Config, stdout, stderr io.Writer, log zerolog.Logger) int {
	files, err := fileutils.ResolveFiles(fsys, cfg.Paths, cfg.Discovery())
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", toolName, err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "No JSONL files found to validate.")
		return 1
	}
	log.Debug().Strs("files", files).Msg("resolved input files")

	var totals dataset.ValidationTotals
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(stderr, "%s: interrupted: %v\n", toolName, err)
			return 1
		}

		start := time.Now()
		rep, err := dataset.ValidateFile(fsys, path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", toolName, err)
			return 1
		}
		log.Debug().
			Str("path", path).
			Int("lines", rep.Lines).
			Int("errors", rep.Errors()).
			Dur("elapsed", time.Since(start)).
			Msg("file validated")

		totals.Add(rep)
		if err := dataset.WriteFindings(stderr, rep); err != nil {
			fmt.Fprintf(stderr, "%s: write findings: %v\n", toolName, err)
			return 1
		}
		if err := dataset.WriteFileTally(stdout, rep); err != nil {
			fmt.Fprintf(stderr, "%s: write report: %v\n", toolName, err)
			return 1
		}
	}

	if err := dataset.WriteValidationTotals(stdout, totals); err != nil {
		fmt.Fprintf(stderr, "%s: write report: %v\n", toolName, err)
		return 1
	}
	return dataset.ExitCode(totals.Files, totals.Errors)
}
