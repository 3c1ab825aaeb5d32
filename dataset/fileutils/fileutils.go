package fileutils

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

const (
	DefaultPattern  = "*.jsonl"
	DefaultEvalsDir = "evals"
)

// DiscoveryOptions controls how ResolveFiles finds input when no explicit
// paths are given.
type DiscoveryOptions struct {
	// Pattern is matched in the working directory and, when IncludeEvals is
	// set, in EvalsDir.
	Pattern      string
	EvalsDir     string
	IncludeEvals bool
}

func DefaultDiscovery() DiscoveryOptions {
	return DiscoveryOptions{Pattern: DefaultPattern, EvalsDir: DefaultEvalsDir}
}

func FileExists(fsys afero.Fs, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// ResolveFiles returns the files to scan. Explicit paths are returned in the
// order given, each once. Without explicit paths the working directory (and
// optionally the evals directory) is globbed and the result sorted. An empty
// result is not an error.
func ResolveFiles(fsys afero.Fs, paths []string, opts DiscoveryOptions) ([]string, error) {
	if len(paths) > 0 {
		return dedupe(paths), nil
	}

	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.EvalsDir == "" {
		opts.EvalsDir = DefaultEvalsDir
	}

	files, err := afero.Glob(fsys, opts.Pattern)
	if err != nil {
		return nil, fmt.Errorf("ResolveFiles: glob %q: %w", opts.Pattern, err)
	}

	if opts.IncludeEvals && FileExists(fsys, opts.EvalsDir) {
		evalPattern := filepath.Join(opts.EvalsDir, opts.Pattern)
		evals, err := afero.Glob(fsys, evalPattern)
		if err != nil {
			return nil, fmt.Errorf("ResolveFiles: glob %q: %w", evalPattern, err)
		}
		files = append(files, evals...)
	}

	files = dedupe(files)
	sort.Strings(files)
	return files, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
