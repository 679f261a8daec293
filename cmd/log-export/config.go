package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	InPath  string
	OutPath string
}

func (c Config) Validate() error {
	if c.InPath == "" {
		return errors.New("missing -in")
	}
	if c.OutPath == "" {
		return errors.New("missing -out")
	}
	if c.InPath == c.OutPath {
		return errors.New("-in and -out must differ")
	}
	return nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InPath, "in", "", "Path to the UTF-8 conversation CSV")
	fs.StringVar(&cfg.OutPath, "out", "", "Output path for the Shift_JIS copy (default: <in>_sjis.csv)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.InPath != "" {
		cfg.InPath = filepath.Clean(cfg.InPath)
	}
	if cfg.OutPath == "" && cfg.InPath != "" {
		base := strings.TrimSuffix(cfg.InPath, filepath.Ext(cfg.InPath))
		cfg.OutPath = base + "_sjis.csv"
	}
	if cfg.OutPath != "" {
		cfg.OutPath = filepath.Clean(cfg.OutPath)
	}
	return cfg, nil
}
