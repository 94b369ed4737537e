package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// fileOptions is the on-disk shape of an optional .pgcatdiff.toml project
// config file, letting a repository pin its own extension ignore list
// and drop policy instead of passing the same flags on every invocation.
type fileOptions struct {
	UseDrop           bool     `toml:"use_drop"`
	IgnoredExtensions []string `toml:"ignored_extensions"`
}

// LoadFile reads a .pgcatdiff.toml file at path and returns the
// CompareOptions it describes. A missing or unreadable file is returned
// as an error; callers that treat project config as optional should fall
// back to DefaultCompareOptions() when LoadFile fails.
func LoadFile(path string) (*CompareOptions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var fo fileOptions
	if _, err := toml.NewDecoder(f).Decode(&fo); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	opts := DefaultCompareOptions()
	opts.UseDrop = fo.UseDrop
	if len(fo.IgnoredExtensions) > 0 {
		opts.IgnoredExtensions = fo.IgnoredExtensions
	}
	return opts, nil
}
