package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/sw965/omw/mathx/randx"

	"github.com/sw965/tdttt/config"
	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
	"github.com/sw965/tdttt/report"
	"github.com/sw965/tdttt/selfplay"
	"github.com/sw965/tdttt/td"
)

var trainFlags struct {
	games   int
	seed    uint64
	chart   string
	metrics string
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Play self-play games and update the value table",
	Long: `Plays the given number of games between two agents sharing one value
table, saves the table once at the end and prints the outcome counts.

Without --games and without --config the count is read from standard
input. Non-positive or non-numeric counts mean one game.`,
	RunE: runTrain,
}

func init() {
	f := trainCmd.Flags()
	f.IntVarP(&trainFlags.games, "games", "n", 0, "number of games")
	f.Uint64Var(&trainFlags.seed, "seed", 0, "random seed, 0 for a random one (overrides config)")
	f.StringVar(&trainFlags.chart, "chart", "", "write an HTML chart of the run to this path (overrides config)")
	f.StringVar(&trainFlags.metrics, "metrics", "", "write a Prometheus textfile to this path (overrides config)")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	switch {
	case flags.Changed("games"):
		cfg.Games = config.GameCount(trainFlags.games)
	case configPath == "":
		cfg.Games = readGameCount(cmd.InOrStdin(), cmd.OutOrStdout(), isTerminal(os.Stdin))
	}
	if flags.Changed("seed") {
		cfg.Seed = trainFlags.seed
	}
	if trainFlags.chart != "" {
		cfg.ChartPath = trainFlags.chart
	}
	if trainFlags.metrics != "" {
		cfg.MetricsPath = trainFlags.metrics
	}

	runID := uuid.NewString()
	log := newLogger(cfg).With("run_id", runID)

	table, err := td.LoadValueTable(cfg.TablePath)
	if err != nil {
		return err
	}
	log.Info("value table loaded", "path", cfg.TablePath, "entries", table.Len())

	cross, err := newAgent(ttt.Cross, table, cfg.Cross, cfg, 1)
	if err != nil {
		return err
	}
	nought, err := newAgent(ttt.Nought, table, cfg.Nought, cfg, 2)
	if err != nil {
		return err
	}

	metrics := report.NewMetrics(runID)
	trainer := &selfplay.Trainer{
		Cross:     cross,
		Nought:    nought,
		TablePath: cfg.TablePath,
		Logger:    log,
		OnGame:    metrics.Observe,
	}

	res, err := trainer.Run(cfg.Games)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.ColorBoard(res.Last.Final, isTerminal(os.Stdout)))
	if err := report.Summary(out, res); err != nil {
		return err
	}

	if cfg.ChartPath != "" {
		title := fmt.Sprintf("Wins over games (run %s)", runID[:8])
		if err := report.WriteChart(cfg.ChartPath, res, title); err != nil {
			return err
		}
		log.Info("chart written", "path", cfg.ChartPath)
	}

	if cfg.MetricsPath != "" {
		metrics.TableSize.Set(float64(table.Len()))
		if err := metrics.WriteTextfile(cfg.MetricsPath); err != nil {
			return err
		}
		log.Info("metrics written", "path", cfg.MetricsPath)
	}
	return nil
}

func newAgent(mark ttt.Mark, table *td.ValueTable, side config.SideConfig, cfg config.Config, stream uint64) (*td.Agent, error) {
	exploration, err := side.Exploration()
	if err != nil {
		return nil, err
	}
	agent, err := td.NewAgent(mark, table, exploration, newRand(cfg.Seed, stream))
	if err != nil {
		return nil, err
	}
	agent.Tolerance = cfg.Tolerance
	return agent, nil
}

func newRand(seed, stream uint64) *rand.Rand {
	if seed == 0 {
		return randx.NewPCGFromGlobalSeed()
	}
	return rand.New(rand.NewPCG(seed, stream))
}

// readGameCount asks for the number of games on r. The prompt is only shown
// when a person is typing.
func readGameCount(r io.Reader, w io.Writer, prompt bool) int {
	if prompt {
		fmt.Fprintln(w, "Number of games:")
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return 1
	}
	return config.ParseGameCount(line)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
