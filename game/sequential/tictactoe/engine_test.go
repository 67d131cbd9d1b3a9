package tictactoe_test

import (
	"errors"
	"maps"
	"testing"

	"github.com/sw965/tdttt/game/sequential"
	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
)

func TestNewInitState(t *testing.T) {
	got := ttt.NewInitState()
	if got.Board != ttt.NewBoard() {
		t.Errorf("want: 空の盤面, got: %v", got.Board)
	}
	// 先手はバツ
	if got.Turn != ttt.Mark('x') {
		t.Errorf("want: x, got: %q", got.Turn)
	}
}

func TestLegalMoves(t *testing.T) {
	state := ttt.State{
		Board: ttt.Board{X, O, X, O, E, O, X, O, E},
		Turn:  O,
	}
	got := ttt.LegalMoves(state)
	want := []ttt.Move{{Mark: O, Position: 5}, {Mark: O, Position: 9}}
	if len(got) != len(want) {
		t.Fatalf("want: %v, got: %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("idx=%d want: %v, got: %v", i, want[i], got[i])
		}
	}
}

func TestMoveFunc(t *testing.T) {
	tests := []struct {
		name      string
		state     ttt.State
		move      ttt.Move
		want      ttt.State
		wantErrIs error
	}{
		{
			name:  "正常_境界値_1",
			state: ttt.NewInitState(),
			move:  ttt.Move{Mark: X, Position: 1},
			want:  ttt.State{Board: ttt.Board{X, E, E, E, E, E, E, E, E}, Turn: O},
		},
		{
			name:  "正常_境界値_9",
			state: ttt.NewInitState(),
			move:  ttt.Move{Mark: X, Position: 9},
			want:  ttt.State{Board: ttt.Board{E, E, E, E, E, E, E, E, X}, Turn: O},
		},
		{
			name:  "正常_丸の手番",
			state: ttt.State{Board: ttt.Board{X, E, E, E, E, E, E, E, E}, Turn: O},
			move:  ttt.Move{Mark: O, Position: 5},
			want:  ttt.State{Board: ttt.Board{X, E, E, E, O, E, E, E, E}, Turn: X},
		},
		{
			name:      "異常_境界値_0",
			state:     ttt.NewInitState(),
			move:      ttt.Move{Mark: X, Position: 0},
			wantErrIs: ttt.ErrOutOfBounds,
		},
		{
			name:      "異常_境界値_10",
			state:     ttt.NewInitState(),
			move:      ttt.Move{Mark: X, Position: 10},
			wantErrIs: ttt.ErrOutOfBounds,
		},
		{
			name:      "異常_手番なし_TurnがEmptyMark",
			state:     ttt.State{Board: ttt.NewBoard(), Turn: E},
			move:      ttt.Move{Mark: X, Position: 1},
			wantErrIs: ttt.ErrNoActiveTurn,
		},
		{
			name:      "異常_手番違い",
			state:     ttt.NewInitState(),
			move:      ttt.Move{Mark: O, Position: 1},
			wantErrIs: ttt.ErrNotYourTurn,
		},
		{
			name:      "異常_入力済み",
			state:     ttt.State{Board: ttt.Board{X, O, E, E, E, E, E, E, E}, Turn: X},
			move:      ttt.Move{Mark: X, Position: 2},
			wantErrIs: ttt.ErrCellOccupied,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ttt.MoveFunc(tc.state, tc.move)
			if tc.wantErrIs != nil {
				if !errors.Is(err, tc.wantErrIs) {
					t.Errorf("期待されるエラー型が埋め込まれていません。want: %v, got: %v", tc.wantErrIs, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("予期せぬエラーが発生した: %v", err)
			}
			if got != tc.want {
				t.Errorf("want: %+v, got: %+v", tc.want, got)
			}
		})
	}
}

func TestRankByAgentFunc(t *testing.T) {
	tests := []struct {
		name  string
		board ttt.Board
		want  sequential.RankByAgent[ttt.Mark]
	}{
		{
			name:  "勝利_バツ",
			board: ttt.Board{X, X, X, O, O, E, E, E, E},
			want:  sequential.RankByAgent[ttt.Mark]{X: 1, O: 2},
		},
		{
			name:  "勝利_丸",
			board: ttt.Board{X, X, O, X, O, E, O, E, E},
			want:  sequential.RankByAgent[ttt.Mark]{O: 1, X: 2},
		},
		{
			name:  "引き分け",
			board: ttt.Board{X, O, X, X, O, O, O, X, X},
			want:  sequential.RankByAgent[ttt.Mark]{X: 1, O: 1},
		},
		{
			name:  "進行中",
			board: ttt.Board{X, O, E, E, E, E, E, E, E},
			//ゲームが続いている時は、空 or nil を返すのが仕様
			want: sequential.RankByAgent[ttt.Mark]{},
		},
		{
			name: "最終手で勝利",
			// ここで IsDraw() が true でも、勝利判定が優先されるべき
			board: ttt.Board{X, O, X, O, X, O, X, O, X},
			want:  sequential.RankByAgent[ttt.Mark]{X: 1, O: 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ttt.RankByAgentFunc(ttt.State{Board: tc.board})
			if err != nil {
				t.Fatalf("予期せぬエラーが発生した: %v", err)
			}
			if !maps.Equal(got, tc.want) {
				t.Errorf("want: %v, got: %v", tc.want, got)
			}
		})
	}
}

func TestNewEngine(t *testing.T) {
	engine := ttt.NewEngine()
	if err := engine.Validate(); err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	scores, err := engine.EvaluateResultScoreByAgent(ttt.State{Board: ttt.Board{X, O, X, X, O, O, O, X, X}})
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}
	if scores[X] != 0.5 || scores[O] != 0.5 {
		t.Errorf("引き分けは両者0.5であるべき: %v", scores)
	}
}
