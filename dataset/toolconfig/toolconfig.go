// Package toolconfig holds the settings shared by jsonl-stats and
// jsonl-validate: flag registration, the optional YAML config file and
// struct validation.
package toolconfig

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/theimaginaryfoundation/chatset/dataset/fileutils"
	"github.com/theimaginaryfoundation/chatset/dataset/logging"
)

// Settings are the options common to both tools.
type Settings struct {
	ConfigPath   string
	IncludeEvals bool

	Pattern  string `validate:"required"`
	EvalsDir string `validate:"required"`

	LogLevel  string `validate:"oneof=trace debug info warn warning error"`
	LogFormat string `validate:"oneof=console json"`
}

// File is the on-disk YAML config. Unset keys leave the defaults alone.
type File struct {
	IncludeEvals *bool  `yaml:"include_evals"`
	Pattern      string `yaml:"pattern"`
	EvalsDir     string `yaml:"evals_dir"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

func Defaults() Settings {
	return Settings{
		Pattern:   fileutils.DefaultPattern,
		EvalsDir:  fileutils.DefaultEvalsDir,
		LogLevel:  "warn",
		LogFormat: logging.FormatConsole,
	}
}

// RegisterFlags binds the shared flags onto fs.
func (s *Settings) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&s.ConfigPath, "config", s.ConfigPath, "Optional YAML config file (pattern, evals_dir, include_evals, log_level, log_format)")
	fs.BoolVar(&s.IncludeEvals, "include-evals", s.IncludeEvals, "Include evals/*.jsonl when no paths are provided")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "Log level: trace, debug, info, warn, error")
	fs.StringVar(&s.LogFormat, "log-format", s.LogFormat, "Log format: console or json")
}

// Discovery converts the settings for fileutils.ResolveFiles.
func (s Settings) Discovery() fileutils.DiscoveryOptions {
	return fileutils.DiscoveryOptions{
		Pattern:      s.Pattern,
		EvalsDir:     s.EvalsDir,
		IncludeEvals: s.IncludeEvals,
	}
}

// Logging converts the settings for logging.New.
func (s Settings) Logging(component string, w io.Writer) logging.Options {
	return logging.Options{Level: s.LogLevel, Format: s.LogFormat, Component: component, Writer: w}
}

// Merge applies f over s, skipping any key whose flag was set explicitly.
func (s Settings) Merge(f File, explicit map[string]bool) Settings {
	if f.IncludeEvals != nil && !explicit["include-evals"] {
		s.IncludeEvals = *f.IncludeEvals
	}
	if f.Pattern != "" {
		s.Pattern = f.Pattern
	}
	if f.EvalsDir != "" {
		s.EvalsDir = f.EvalsDir
	}
	if f.LogLevel != "" && !explicit["log-level"] {
		s.LogLevel = f.LogLevel
	}
	if f.LogFormat != "" && !explicit["log-format"] {
		s.LogFormat = f.LogFormat
	}
	return s
}

// Resolve loads s.ConfigPath from fsys, when set, and merges it.
func (s Settings) Resolve(fsys afero.Fs, explicit map[string]bool) (Settings, error) {
	if s.ConfigPath == "" {
		return s, nil
	}
	f, err := Load(fsys, s.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	return s.Merge(f, explicit), nil
}

// Load reads a YAML config file. Unknown keys are rejected.
func Load(fsys afero.Fs, path string) (File, error) {
	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return File{}, fmt.Errorf("toolconfig: read %s: %w", path, err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("toolconfig: parse %s: %w", path, err)
	}
	return f, nil
}

// Explicit returns the names of the flags that were set on the command line.
func Explicit(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks the struct tags of v.
func Validate(v any) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}
