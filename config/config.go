// Package config loads the training configuration.
//
// # Description
//
// Configuration comes from an optional YAML file layered over Default().
// Command-line flags are applied on top by the caller. Validate checks the
// result with go-playground/validator struct tags.
//
// A non-positive or non-numeric game count is not an error: it is corrected
// to a single game.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sw965/tdttt/td"
)

// Config is the full configuration of a training run.
type Config struct {
	// Games is the number of self-play games. Values below 1 mean 1.
	Games int `yaml:"games"`

	// TablePath is the value table file, read at start and written at the end.
	TablePath string `yaml:"table_path" validate:"required"`

	// Seed seeds the agents' generators. 0 means a random seed.
	Seed uint64 `yaml:"seed"`

	Cross  SideConfig `yaml:"cross"`
	Nought SideConfig `yaml:"nought"`

	// Tolerance is the tie band around the best reward.
	Tolerance float64 `yaml:"tolerance" validate:"gte=0,lt=1"`

	// ChartPath, if set, receives an HTML chart of the run.
	ChartPath string `yaml:"chart_path"`

	// MetricsPath, if set, receives a Prometheus textfile of the run.
	MetricsPath string `yaml:"metrics_path"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	Eval EvalConfig `yaml:"eval"`
}

// SideConfig is the exploration setting of one side.
type SideConfig struct {
	Mode    string  `yaml:"mode" validate:"oneof=greedy epsilon epsilon-greedy random"`
	Epsilon float64 `yaml:"epsilon" validate:"gte=0,lte=1"`
}

// EvalConfig controls the evaluation of a trained table against a random player.
type EvalConfig struct {
	Games   int `yaml:"games" validate:"gte=1"`
	Workers int `yaml:"workers" validate:"gte=1,lte=256"`
}

// Default returns the configuration of the original trainer: both sides
// greedy on a shared table stored in reawards.json.
func Default() Config {
	return Config{
		Games:     1,
		TablePath: "reawards.json",
		Cross:     SideConfig{Mode: "greedy", Epsilon: 0.3},
		Nought:    SideConfig{Mode: "greedy", Epsilon: 0.3},
		Tolerance: td.DefaultTolerance,
		LogLevel:  "info",
		Eval: EvalConfig{
			Games:   1000,
			Workers: 4,
		},
	}
}

// Load reads path over Default(). An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Games = GameCount(cfg.Games)
	return cfg, cfg.Validate()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Exploration converts a side's settings into the agent's form.
func (s SideConfig) Exploration() (td.Exploration, error) {
	mode, err := td.ParseMode(s.Mode)
	if err != nil {
		return td.Exploration{}, err
	}
	return td.Exploration{Mode: mode, Epsilon: s.Epsilon}, nil
}

func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// GameCount floors n at one game.
func GameCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ParseGameCount reads a game count typed by a user. Anything that is not a
// positive integer becomes 1.
func ParseGameCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1
	}
	return GameCount(n)
}
