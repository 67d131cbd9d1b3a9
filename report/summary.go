package report

import (
	"fmt"
	"io"

	"github.com/sw965/tdttt/selfplay"
	"gonum.org/v1/gonum/stat"
)

// LengthStats returns the mean and sample standard deviation of the game
// lengths of res. The deviation is 0 with fewer than two games.
func LengthStats(res selfplay.Result) (mean, std float64) {
	if len(res.Lengths) == 0 {
		return 0, 0
	}
	mean = stat.Mean(res.Lengths, nil)
	if len(res.Lengths) > 1 {
		std = stat.StdDev(res.Lengths, nil)
	}
	return mean, std
}

func Summary(w io.Writer, res selfplay.Result) error {
	mean, std := LengthStats(res)
	_, err := fmt.Fprintf(w,
		"games: %d\nx wins: %d\no wins: %d\ndraws: %d\nmoves per game: %.2f ± %.2f\n",
		res.Games(), res.CrossWins, res.NoughtWins, res.Draws, mean, std,
	)
	return err
}
