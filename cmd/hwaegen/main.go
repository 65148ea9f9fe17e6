// Package main is the entry point for the HWAE map generator.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hwae/hwae-go/internal/config"
	"github.com/hwae/hwae-go/internal/generator"
	"github.com/hwae/hwae-go/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== HWAE Map Generator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	runner := generator.NewRunner(generator.New(cfg))
	if err := runner.Run(); err != nil {
		logger.Error("generation failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("generation finished")
}
