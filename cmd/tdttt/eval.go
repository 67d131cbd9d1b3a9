package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/sw965/tdttt/game/sequential"
	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
	"github.com/sw965/tdttt/td"
)

const (
	greedyActorName = "greedy"
	randomActorName = "random"
)

var evalFlags struct {
	games   int
	workers int
	seed    uint64
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Play the trained table greedily against a random player",
	Long: `Plays the value table, without learning, against a uniformly random
player. Both seatings are played, each for --games games, spread over
--workers goroutines. Scores are 1 per win and 0.5 per draw.`,
	RunE: runEval,
}

func init() {
	f := evalCmd.Flags()
	f.IntVarP(&evalFlags.games, "games", "n", 0, "games per seating (overrides config)")
	f.IntVar(&evalFlags.workers, "workers", 0, "parallel workers (overrides config)")
	f.Uint64Var(&evalFlags.seed, "seed", 0, "random seed, 0 for a random one (overrides config)")
}

func runEval(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if evalFlags.games > 0 {
		cfg.Eval.Games = evalFlags.games
	}
	if evalFlags.workers > 0 {
		cfg.Eval.Workers = evalFlags.workers
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = evalFlags.seed
	}
	log := newLogger(cfg)

	table, err := td.LoadValueTable(cfg.TablePath)
	if err != nil {
		return err
	}
	if table.Len() == 0 {
		log.Warn("value table is empty; the greedy player is untrained", "path", cfg.TablePath)
	}

	results, scores, err := Evaluate(table, cfg.Eval.Games, cfg.Eval.Workers, cfg.Seed, float32(cfg.Tolerance))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		var x, o, d int
		for _, final := range r.Finals {
			switch winner, ok := final.Board.Winner(); {
			case !ok:
				d++
			case winner == ttt.Cross:
				x++
			default:
				o++
			}
		}
		fmt.Fprintf(out, "x=%s o=%s: x wins %d, o wins %d, draws %d\n",
			r.ActorNameByAgent[ttt.Cross], r.ActorNameByAgent[ttt.Nought], x, o, d)
	}
	total := float32(2 * cfg.Eval.Games)
	for _, name := range []string{greedyActorName, randomActorName} {
		fmt.Fprintf(out, "%s: score %.1f / %.0f (%.1f%%)\n", name, scores[name], total, 100*scores[name]/total)
	}
	return nil
}

// Evaluate plays the table's greedy actor against a random actor in both
// seatings, games times each.
func Evaluate(table *td.ValueTable, games, workers int, seed uint64, tolerance float32) ([]sequential.CrossPlayoutResult[ttt.State, ttt.Mark], map[string]float32, error) {
	engine := ttt.NewEngine()
	inits := make([]ttt.State, games)
	for i := range inits {
		inits[i] = ttt.NewInitState()
	}
	rngs := make([]*rand.Rand, workers)
	for i := range rngs {
		rngs[i] = newRand(seed, uint64(i)+1)
	}
	actors := []td.Actor{
		table.Actor(greedyActorName, tolerance),
		sequential.NewRandomActor[ttt.State, ttt.Move, ttt.Mark](randomActorName),
	}
	return engine.CrossPlayouts(inits, actors, rngs)
}
