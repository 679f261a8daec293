// Command exposure-chat serves the research-experiment chat API: a study
// participant converses with a therapist persona that authors a graduated
// exposure plan and a peer persona that role-plays its scenarios, with the
// transcript and plan persisted under -data-dir.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kokorolab/exposure-chat/exposure"
	"github.com/kokorolab/exposure-chat/exposure/provider"
	"github.com/kokorolab/exposure-chat/httpapi"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "missing OPENROUTER_API_KEY (or pass -api-key)")
		os.Exit(2)
	}

	passcode := cfg.Passcode
	if passcode == "" {
		passcode = os.Getenv("ADMIN_PASSCODE")
	}
	if passcode == "" {
		passcode = defaultPasscode
	}

	logger, err := newLogger(cfg.Dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if passcode == defaultPasscode {
		logger.Warn("running with the default passcode; set ADMIN_PASSCODE for real deployments")
	}

	program, err := exposure.LoadProgram(cfg.ProgramFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if cfg.Days != 0 {
		program.DayCount = cfg.Days
	}
	if cfg.MaxPrior != 0 {
		program.MaxPriorMessages = cfg.MaxPrior
	}
	if err := program.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("mkdir -data-dir: %w", err).Error())
		os.Exit(2)
	}

	completer, err := provider.New(provider.Options{
		APIKey:  apiKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	runner := &exposure.Runner{
		Program:   program,
		Completer: completer,
		Plans:     exposure.NewPlanStore(filepath.Join(cfg.DataDir, "plans")),
		Log:       exposure.NewConversationLog(cfg.LogFile),
	}

	handler := httpapi.NewHandler(runner, httpapi.NewSessionManager(), passcode, logger)
	server := httpapi.NewServer(handler, logger)

	logger.Info("exposure-chat listening",
		zap.String("addr", cfg.Addr),
		zap.String("model", cfg.Model),
		zap.Int("days", program.DayCount),
	)
	if err := server.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
