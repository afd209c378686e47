package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const configName = "symgraph.toml"

type projectConfig struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Graph graphConfig `toml:"graph"`
	Build buildConfig `toml:"build"`
}

type graphConfig struct {
	Manifest string   `toml:"manifest"`
	Entry    []string `toml:"entry"`
}

type buildConfig struct {
	Jobs  int   `toml:"jobs"`
	Cache *bool `toml:"cache"`
}

// findConfig walks from startDir up to the filesystem root looking for symgraph.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfig(path string) (*projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Build.Jobs < 0 {
		return nil, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if m := strings.TrimSpace(cfg.Graph.Manifest); m != "" && !filepath.IsAbs(m) {
		cfg.Graph.Manifest = filepath.Join(cfg.Root, filepath.FromSlash(m))
	}
	return &cfg, nil
}

// discoverConfig returns the nearest config above startDir, or nil.
func discoverConfig(startDir string) (*projectConfig, error) {
	path, ok, err := findConfig(startDir)
	if err != nil || !ok {
		return nil, err
	}
	return loadConfig(path)
}
