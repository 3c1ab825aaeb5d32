package main

import (
	"github.com/theimaginaryfoundation/chatset/dataset/toolconfig"
)

type Config struct {
	toolconfig.Settings

	// Paths are the positional arguments; empty means discover.
	Paths []string

	// Schema prints the record JSON Schema instead of validating.
	Schema bool

	explicit map[string]bool
}

func (c Config) Validate() error {
	return toolconfig.Validate(c)
}

func defaultConfig() Config {
	return Config{Settings: toolconfig.Defaults()}
}
