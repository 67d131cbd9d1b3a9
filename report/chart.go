// Package report turns self-play results into something a person can read:
// a chart of the outcome curves, a text summary, a coloured board and a
// Prometheus textfile.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sw965/tdttt/selfplay"
)

const (
	CrossSeries  = "X"
	NoughtSeries = "O"
	DrawSeries   = "Draw"
)

// NewChart builds a line chart of cumulative X wins, O wins and draws
// against the number of games played.
func NewChart(res selfplay.Result, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("games=%d x=%d o=%d draw=%d", res.Games(), res.CrossWins, res.NoughtWins, res.Draws),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Theme:     "shine",
		}),
	)

	n := len(res.History)
	xs := make([]string, n)
	crosses := make([]opts.LineData, n)
	noughts := make([]opts.LineData, n)
	draws := make([]opts.LineData, n)
	for i, s := range res.History {
		xs[i] = strconv.Itoa(i + 1)
		crosses[i] = opts.LineData{Value: s.CrossWins}
		noughts[i] = opts.LineData{Value: s.NoughtWins}
		draws[i] = opts.LineData{Value: s.Draws}
	}

	line.SetXAxis(xs).
		AddSeries(CrossSeries, crosses).
		AddSeries(NoughtSeries, noughts).
		AddSeries(DrawSeries, draws)
	return line
}

func RenderChart(w io.Writer, res selfplay.Result, title string) error {
	page := components.NewPage()
	page.AddCharts(NewChart(res, title))
	return page.Render(w)
}

// WriteChart renders the chart as a standalone HTML file, creating the
// parent directory if needed.
func WriteChart(path string, res selfplay.Result, title string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return RenderChart(f, res, title)
}
