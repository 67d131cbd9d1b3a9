package td_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
	"github.com/sw965/tdttt/td"
)

const (
	E = ttt.EmptyMark
	X = ttt.Cross
	O = ttt.Nought
)

func TestRewardDefault(t *testing.T) {
	table := td.NewValueTable()
	key := ttt.Board{X, O, E, E, E, E, E, E, E}.CanonicalKey(X)

	assert.Equal(t, 0.5, table.Reward(key))
	_, stored := table.Value(key)
	assert.False(t, stored, "a read must not write the default")
	assert.Equal(t, 0, table.Len())
}

func TestRewardTerminal(t *testing.T) {
	boards := []struct {
		name   string
		board  ttt.Board
		winner ttt.Mark
	}{
		{"row x", ttt.Board{X, X, X, O, O, E, E, E, E}, X},
		{"column o", ttt.Board{O, X, E, O, X, E, O, E, X}, O},
		{"diagonal x", ttt.Board{X, O, E, O, X, E, E, E, X}, X},
		{"full board win", ttt.Board{X, O, X, O, X, O, X, O, X}, X},
	}

	for _, tc := range boards {
		t.Run(tc.name, func(t *testing.T) {
			table := td.NewValueTable()
			require.True(t, tc.board.IsWin(tc.winner))

			winnerKey := tc.board.CanonicalKey(tc.winner)
			loserKey := tc.board.CanonicalKey(tc.winner.Opposite())

			assert.Equal(t, 1.0, table.Reward(winnerKey))
			assert.Equal(t, 0.0, table.Reward(loserKey))
		})
	}
}

func TestCorrect(t *testing.T) {
	table := td.NewValueTable()
	key := ttt.Board{X, E, E, E, O, E, E, E, E}.CanonicalKey(X)

	table.Correct(key, 1.0)
	v1, ok := table.Value(key)
	require.True(t, ok)
	assert.InDelta(t, 0.5+0.1*(1.0-0.5), v1, 1e-12)

	table.Correct(key, 1.0)
	v2, _ := table.Value(key)
	assert.InDelta(t, v1+0.1*(1.0-v1), v2, 1e-12)
	assert.Less(t, math.Abs(1.0-v2), math.Abs(1.0-v1), "the gap to the target must shrink")

	table.Correct(key, 0.0)
	v3, _ := table.Value(key)
	assert.InDelta(t, v2-0.1*v2, v3, 1e-12)
}

func TestCorrectAtTarget(t *testing.T) {
	table := td.NewValueTable()
	key := ttt.NewBoard().CanonicalKey(X)

	table.Correct(key, 0.5)
	v, ok := table.Value(key)
	require.True(t, ok)
	assert.Equal(t, 0.5, v)
}

func TestCorrectSkipsDecidedKeys(t *testing.T) {
	table := td.NewValueTable()
	won := ttt.Board{X, X, X, O, O, E, E, E, E}

	table.Correct(won.CanonicalKey(X), 0.0)
	table.Correct(won.CanonicalKey(O), 1.0)

	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 1.0, table.Reward(won.CanonicalKey(X)))
	assert.Equal(t, 0.0, table.Reward(won.CanonicalKey(O)))
}

func TestCorrectStoresFullDraw(t *testing.T) {
	table := td.NewValueTable()
	draw := ttt.Board{X, O, X, X, O, O, O, X, X}

	table.Correct(draw.CanonicalKey(X), 0.5)
	_, ok := table.Value(draw.CanonicalKey(X))
	assert.True(t, ok)
}

func TestUpdateV(t *testing.T) {
	assert.InDelta(t, 0.55, td.UpdateV(0.5, 1.0, 0.1), 1e-12)
	assert.InDelta(t, 0.45, td.UpdateV(0.5, 0.0, 0.1), 1e-12)
	assert.Equal(t, 0.3, td.UpdateV(0.3, 0.3, 0.1))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	table := td.NewValueTable()
	keys := []ttt.Key{
		ttt.NewBoard().CanonicalKey(X),
		ttt.Board{X, E, E, E, E, E, E, E, E}.CanonicalKey(X),
		ttt.Board{X, E, E, E, O, E, E, E, E}.CanonicalKey(O),
		ttt.Board{X, O, X, X, O, O, O, X, X}.CanonicalKey(X),
	}
	targets := []float64{1, 0, 0.5, 1.0 / 3.0}
	for i, k := range keys {
		for j := 0; j <= i; j++ {
			table.Correct(k, targets[i])
		}
	}

	path := filepath.Join(t.TempDir(), "rewards.json")
	require.NoError(t, table.Save(path))

	loaded, err := td.LoadValueTable(path)
	require.NoError(t, err)
	require.Equal(t, table.Keys(), loaded.Keys())
	for _, k := range table.Keys() {
		want, _ := table.Value(k)
		got, ok := loaded.Value(k)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-9, "key %q", k)
	}
}

func TestLoadMissingFile(t *testing.T) {
	table, err := td.LoadValueTable(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated json", `{"x        ": 0.5`},
		{"not an object", `[1, 2, 3]`},
		{"short key", `{"xo": 0.5}`},
		{"bad symbol", `{"xo a     ": 0.5}`},
		{"value above one", `{"xo       ": 1.5}`},
		{"negative value", `{"xo       ": -0.1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rewards.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := td.LoadValueTable(path)
			assert.ErrorIs(t, err, td.ErrMalformedTable)
		})
	}
}

func TestKeysSorted(t *testing.T) {
	table := td.NewValueTable()
	table.Correct(ttt.Key("x        "), 1)
	table.Correct(ttt.Key("         "), 1)
	table.Correct(ttt.Key("o        "), 1)

	assert.Equal(t, []ttt.Key{"         ", "o        ", "x        "}, table.Keys())
}
