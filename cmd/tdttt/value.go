package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
	"github.com/sw965/tdttt/td"
)

var valueCmd = &cobra.Command{
	Use:   "value KEY",
	Short: "Print the learned value of a canonical state key",
	Long: `Prints the stored value and the reward of a canonical state key: nine
cells in row-major order using x, o and '.' (or a space) for empty cells,
where x is the side the value is for.`,
	Args: cobra.ExactArgs(1),
	RunE: runValue,
}

func runValue(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	key, err := ttt.ParseKey(strings.ReplaceAll(args[0], ".", " "))
	if err != nil {
		return err
	}
	table, err := td.LoadValueTable(cfg.TablePath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, key.Board().String())
	if v, ok := table.Value(key); ok {
		fmt.Fprintf(out, "stored: %.6f\n", v)
	} else {
		fmt.Fprintln(out, "stored: -")
	}
	fmt.Fprintf(out, "reward: %.6f\n", table.Reward(key))
	return nil
}
