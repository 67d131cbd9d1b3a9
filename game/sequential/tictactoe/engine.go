package tictactoe

import (
	"errors"
	"fmt"

	"github.com/sw965/tdttt/game/sequential"
)

var (
	ErrNoActiveTurn = errors.New("手番エラー: 手番のプレイヤーが存在しません")
	ErrNotYourTurn  = errors.New("手番エラー: 手番ではないプレイヤーの手です")
	ErrOutOfBounds  = errors.New("範囲エラー: positionは1から9である必要があります")
	ErrCellOccupied = errors.New("配置エラー: 既に記号が置かれています")
)

// Move represents a player's action, specifying the mark and the position (1..9).
//
// Moveはプレイヤーの行動を表し、記号と配置する位置(1..9)を指定します。
type Move struct {
	Mark     Mark
	Position int
}

// State holds the current board situation and the active player.
//
// Stateは、現在の盤面状況と手番のプレイヤーを保持します。
type State struct {
	Board Board
	Turn  Mark
}

// NewInitState creates a new initial game state. Cross moves first.
//
// NewInitStateは、ゲームの初期状態を作成します。先手はCrossです。
func NewInitState() State {
	return State{
		Board: NewBoard(),
		Turn:  Cross,
	}
}

// LegalMoves returns all available moves for the current state.
//
// LegalMovesは、現在の状態から可能な全ての合法手を返します。
func LegalMoves(state State) []Move {
	positions := state.Board.LegalMoves()
	moves := make([]Move, len(positions))
	for i, pos := range positions {
		moves[i] = Move{Mark: state.Turn, Position: pos}
	}
	return moves
}

// MoveFunc applies a move to the current state and returns the next state.
// Unlike Board.Set, it reports illegal moves as errors.
//
// MoveFuncは、現在の状態に行動を適用し、次の状態を返します。
func MoveFunc(state State, move Move) (State, error) {
	if state.Turn != Cross && state.Turn != Nought {
		return State{}, ErrNoActiveTurn
	}

	if state.Turn != move.Mark {
		return State{}, fmt.Errorf("%w: turn=%q move=%q", ErrNotYourTurn, byte(state.Turn), byte(move.Mark))
	}

	if move.Position < 1 || move.Position > Cells {
		return State{}, fmt.Errorf("%w: position=%d", ErrOutOfBounds, move.Position)
	}

	if state.Board[move.Position-1] != EmptyMark {
		return State{}, fmt.Errorf("%w: position=%d", ErrCellOccupied, move.Position)
	}

	next := state
	next.Board.Set(move.Position, move.Mark)
	next.Turn = state.Turn.Opposite()
	return next, nil
}

// RankByAgentFunc determines the ranking of agents based on the current state.
// A win is checked before a draw, so a last move that both fills the board
// and completes a line counts as a win. If the game is ongoing, it returns an empty map.
//
// RankByAgentFuncは、現在の状態に基づいてエージェントの順位を決定します。
// ゲームが継続中の場合は、空のマップを返します。
func RankByAgentFunc(state State) (sequential.RankByAgent[Mark], error) {
	if winner, ok := state.Board.Winner(); ok {
		// 勝者が1位、敗者が2位
		return sequential.NewRankByAgent([][]Mark{{winner}, {winner.Opposite()}})
	}

	if state.Board.IsDraw() {
		return sequential.NewRankByAgent([][]Mark{{Cross, Nought}})
	}
	return sequential.RankByAgent[Mark]{}, nil
}

// NewLogic creates a new Logic instance for the Tic-Tac-Toe game.
//
// NewLogicは、三目並べゲームのための新しいLogicインスタンスを作成します。
func NewLogic() sequential.Logic[State, Move, Mark] {
	return sequential.Logic[State, Move, Mark]{
		LegalMovesFunc: LegalMoves,
		MoveFunc:       MoveFunc,
		CurrentAgentFunc: func(s State) Mark {
			return s.Turn
		},
	}
}

func NewEngine() sequential.Engine[State, Move, Mark] {
	engine := sequential.Engine[State, Move, Mark]{
		Logic:           NewLogic(),
		RankByAgentFunc: RankByAgentFunc,
		Agents:          []Mark{Cross, Nought},
	}
	engine.SetStandardResultScoreByAgentFunc()
	return engine
}
