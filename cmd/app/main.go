package main

import (
	"context"
	"fmt"
	"os"

	"fieldops/internal/adapters/cli"
	"fieldops/internal/config"
	"fieldops/internal/logging"
	"fieldops/internal/platform"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The CLI prints results to stdout; keep the logger quiet unless asked.
	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	logger, err := logging.New(cfg.IsProduction(), level)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	rt, err := platform.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	return cli.NewRootCmd(rt.Service).ExecuteContext(ctx)
}
