package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/modeldiff/internal/config"
	"github.com/harrison/modeldiff/internal/logger"
	"github.com/harrison/modeldiff/internal/model"
	"github.com/harrison/modeldiff/internal/parser"
	"github.com/harrison/modeldiff/internal/registry"
)

// loadEnvironment resolves the configuration and logger shared by all
// subcommands. The --log-level flag overrides the configured level.
func loadEnvironment(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		level = flagLevel
	}

	return cfg, logger.NewConsoleLogger(os.Stderr, level), nil
}

// loadRegistry loads the embedded version knowledge registry.
func loadRegistry() (*registry.Registry, error) {
	reg, err := registry.Load()
	if err != nil {
		return nil, fmt.Errorf("load version registry: %w", err)
	}
	return reg, nil
}

// loadModelPair parses the two model documents named on the command line.
func loadModelPair(pathA, pathB string) (*model.Document, *model.Document, error) {
	docA, err := parser.LoadDocument(pathA)
	if err != nil {
		return nil, nil, fmt.Errorf("load model A: %w", err)
	}
	docB, err := parser.LoadDocument(pathB)
	if err != nil {
		return nil, nil, fmt.Errorf("load model B: %w", err)
	}
	return docA, docB, nil
}
