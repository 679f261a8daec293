package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/kokorolab/exposure-chat/exposure/provider"
)

// defaultPasscode must be overridden for real deployments; Validate only
// warns through the startup log, it does not refuse to run.
const defaultPasscode = "changeme"

type Config struct {
	Addr        string
	DataDir     string
	LogFile     string
	Model       string
	BaseURL     string
	APIKey      string
	Passcode    string
	ProgramFile string
	Days        int
	MaxPrior    int
	Dev         bool
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("missing -addr")
	}
	if c.DataDir == "" {
		return errors.New("missing -data-dir")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.Days < 0 {
		return errors.New("days must be >= 0")
	}
	if c.MaxPrior < 0 {
		return errors.New("max-prior must be >= 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Addr:    ":8080",
		DataDir: "data",
		Model:   provider.DefaultModel,
		BaseURL: provider.DefaultBaseURL,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address for the study API")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for plan files and the conversation log")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Optional path for the conversation CSV (default: <data-dir>/logs/chat_logs.csv)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Model identifier sent to the completion endpoint")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Chat-completions base URL (OpenAI wire format)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "API key for the completion endpoint (overrides OPENROUTER_API_KEY env var)")
	fs.StringVar(&cfg.Passcode, "passcode", "", "Shared login passcode (overrides ADMIN_PASSCODE env var)")
	fs.StringVar(&cfg.ProgramFile, "program-file", "", "Optional YAML file overriding program length and persona scripts")
	fs.IntVar(&cfg.Days, "days", 0, "Program length in days (0 = program file / default)")
	fs.IntVar(&cfg.MaxPrior, "max-prior", 0, "Cap on replayed prior-day therapist messages (0 = program file / default)")
	fs.BoolVar(&cfg.Dev, "dev", false, "Development-mode logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.DataDir = filepath.Clean(cfg.DataDir)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "logs", "chat_logs.csv")
	}
	cfg.LogFile = filepath.Clean(cfg.LogFile)
	if cfg.ProgramFile != "" {
		cfg.ProgramFile = filepath.Clean(cfg.ProgramFile)
	}
	return cfg, nil
}
