// Package td implements tabular TD(0) learning of tic-tac-toe state values:
// the shared ValueTable and the Agent that plays from it.
//
// Package td は三目並べの状態価値をTD(0)で学習する表形式の価値関数(ValueTable)と、
// それを使って着手するAgentを提供します。
package td

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"slices"

	"github.com/sw965/omw/encoding/jsonx"
	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
)

const (
	LearningRate = 0.1
	DefaultValue = 0.5
	WinValue     = 1.0
	LossValue    = 0.0
	DrawValue    = 0.5
)

var (
	ErrMalformedTable = errors.New("価値テーブルエラー: 保存ファイルが不正です")
)

// UpdateV is the TD(0) backup: v moved by lr towards target.
func UpdateV(v, target, lr float64) float64 {
	return v + lr*(target-v)
}

// ValueTable maps canonical state keys to the estimated value of that state
// for the side the key was computed for ('x' in the key).
//
// A ValueTable is not safe for concurrent writes. Concurrent reads are fine
// as long as nothing corrects it at the same time.
type ValueTable struct {
	values map[ttt.Key]float64
}

func NewValueTable() *ValueTable {
	return &ValueTable{values: map[ttt.Key]float64{}}
}

// Reward returns the value of key. A key whose board is already won for 'x'
// is worth 1 and one won for 'o' is worth 0, regardless of what the table
// holds. Unknown keys are worth DefaultValue.
//
// Rewardはkeyの価値を返します。'x'の勝ちなら1、'o'の勝ちなら0、未知のキーは0.5です。
func (t *ValueTable) Reward(key ttt.Key) float64 {
	board := key.Board()
	if board.IsWin(ttt.Cross) {
		return WinValue
	}
	if board.IsWin(ttt.Nought) {
		return LossValue
	}
	if v, ok := t.values[key]; ok {
		return v
	}
	return DefaultValue
}

// Correct nudges the value of key towards target by LearningRate.
// Keys decided by a completed line are never stored.
//
// Correctはkeyの価値をtargetに向けて学習率分だけ更新します。
func (t *ValueTable) Correct(key ttt.Key, target float64) {
	board := key.Board()
	if _, ok := board.Winner(); ok {
		return
	}
	t.values[key] = UpdateV(t.Reward(key), target, LearningRate)
}

// Value returns the stored value of key without applying any default.
func (t *ValueTable) Value(key ttt.Key) (float64, bool) {
	v, ok := t.values[key]
	return v, ok
}

func (t *ValueTable) Len() int {
	return len(t.values)
}

// Keys returns the stored keys in ascending order.
func (t *ValueTable) Keys() []ttt.Key {
	keys := make([]ttt.Key, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// LoadValueTable reads a table saved by Save. A missing file yields an empty
// table. Any other read, key or value problem wraps ErrMalformedTable.
//
// LoadValueTableはSaveで保存したテーブルを読み込みます。ファイルが無い場合は空のテーブルを返します。
func LoadValueTable(path string) (*ValueTable, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewValueTable(), nil
		}
		return nil, err
	}

	raw, err := jsonx.Load[map[string]float64](path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedTable, path, err)
	}

	t := &ValueTable{values: make(map[ttt.Key]float64, len(raw))}
	for s, v := range raw {
		key, err := ttt.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedTable, path, err)
		}
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: %s: key=%q value=%v", ErrMalformedTable, path, s, v)
		}
		t.values[key] = v
	}
	return t, nil
}

// Save overwrites path with the whole table as a flat JSON object.
func (t *ValueTable) Save(path string) error {
	raw := make(map[string]float64, len(t.values))
	for k, v := range t.values {
		raw[string(k)] = v
	}
	return jsonx.Save(raw, path)
}
