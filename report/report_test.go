package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
	"github.com/sw965/tdttt/report"
	"github.com/sw965/tdttt/selfplay"
)

func sampleResult() selfplay.Result {
	var res selfplay.Result
	for i, o := range []selfplay.Outcome{selfplay.CrossWin, selfplay.Draw, selfplay.NoughtWin, selfplay.Draw} {
		res.Add(o)
		res.History = append(res.History, res.Stats)
		res.Lengths = append(res.Lengths, float64(5+i))
	}
	res.Last = selfplay.Game{
		Outcome: selfplay.Draw,
		Final:   ttt.Board{'x', 'o', 'x', 'x', 'o', 'o', 'o', 'x', 'x'},
		Moves:   []int{1, 2, 3, 5, 4, 6, 8, 7, 9},
	}
	return res
}

func TestColorBoardPlain(t *testing.T) {
	boards := []ttt.Board{
		ttt.NewBoard(),
		{'x', 'o', ' ', ' ', 'x', ' ', ' ', ' ', 'o'},
		sampleResult().Last.Final,
	}
	for _, b := range boards {
		assert.Equal(t, b.String(), report.ColorBoard(b, false))
	}
}

func TestColorBoardColored(t *testing.T) {
	b := ttt.Board{'x', 'o', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
	got := report.ColorBoard(b, true)
	assert.Contains(t, got, "\x1b[")
	assert.NotEqual(t, b.String(), got)
}

func TestLengthStats(t *testing.T) {
	mean, std := report.LengthStats(sampleResult())
	assert.InDelta(t, 6.5, mean, 1e-12)
	assert.InDelta(t, 1.2909944487358056, std, 1e-9)

	mean, std = report.LengthStats(selfplay.Result{Lengths: []float64{7}})
	assert.Equal(t, 7.0, mean)
	assert.Equal(t, 0.0, std)

	mean, std = report.LengthStats(selfplay.Result{})
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, std)
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Summary(&buf, sampleResult()))

	out := buf.String()
	for _, want := range []string{"games: 4\n", "x wins: 1\n", "o wins: 1\n", "draws: 2\n", "moves per game: 6.50"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.RenderChart(&buf, sampleResult(), "test run"))

	html := buf.String()
	assert.Contains(t, html, "test run")
	for _, name := range []string{report.CrossSeries, report.NoughtSeries, report.DrawSeries} {
		assert.Contains(t, html, `"`+name+`"`)
	}
}

func TestWriteChartCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "run.html")
	require.NoError(t, report.WriteChart(path, sampleResult(), "run"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<html"))
}

func TestMetricsTextfile(t *testing.T) {
	m := report.NewMetrics("run-1")
	res := sampleResult()
	m.Observe(1, selfplay.Game{Outcome: selfplay.CrossWin, Moves: make([]int, 5)})
	m.Observe(2, res.Last)
	m.TableSize.Set(42)

	path := filepath.Join(t.TempDir(), "tdttt.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `tdttt_games_total{outcome="x",run_id="run-1"} 1`)
	assert.Contains(t, text, `tdttt_games_total{outcome="draw",run_id="run-1"} 1`)
	assert.Contains(t, text, `tdttt_game_length_moves_count{run_id="run-1"} 2`)
	assert.Contains(t, text, `tdttt_value_table_entries{run_id="run-1"} 42`)
}
