// Command tdttt trains a tic-tac-toe value table by self-play.
//
// Usage:
//
//	tdttt train --games 500
//	tdttt train --config tdttt.yaml --chart charts/run.html
//	tdttt eval --games 2000 --workers 8
//	tdttt value "x..o....."
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sw965/tdttt/config"
)

var (
	configPath string
	tablePath  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "tdttt",
	Short:         "Train and inspect a TD(0) tic-tac-toe value table",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&tablePath, "table", "", "value table file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(trainCmd, evalCmd, valueCmd)
}

// loadConfig applies the persistent flags over the config file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if tablePath != "" {
		cfg.TablePath = tablePath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("tdttt failed", "error", err)
		os.Exit(1)
	}
}
