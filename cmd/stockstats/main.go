// Command stockstats runs the stock statistics job outside Cloud Functions.
//
//	stockstats run              fetch, normalize and load once
//	stockstats serve            host the CloudEvent function locally
//	stockstats version          print build information
//
// Without --config the embedded default configuration is used, filled from
// the environment and the --env-file.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/rickgao/stockstats/internal/config"
	"github.com/rickgao/stockstats/internal/logging"
	"github.com/rickgao/stockstats/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "stockstats",
	Short:         "Load per-company stock statistics into BigQuery",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: embedded config + environment)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the env file and configuration and builds the logger.
func setup(cmd *cobra.Command) (*config.JobConfig, *slog.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := loadEnvFile(envFile); err != nil {
		return nil, nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	logger := logging.New(cfg.Logging, os.Stdout).With("instance", cfg.Instance.ID)
	slog.SetDefault(logger)

	logger.Info("starting stockstats",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
		"sink", cfg.Loader.Sink,
	)
	return cfg, logger, nil
}

// loadEnvFile sets variables from path without overriding the environment.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func loadConfig(path string) (*config.JobConfig, error) {
	if path == "" {
		return config.LoadEmbedded()
	}
	return config.LoadAndValidate(path)
}
