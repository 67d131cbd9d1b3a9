package td

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sw965/omw/mathx/randx"
	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
	"gonum.org/v1/gonum/floats"
)

// DefaultTolerance is the width of the band around the best reward inside
// which moves count as tied.
const DefaultTolerance = 0.01

var (
	ErrNoLegalMoves = errors.New("Agentエラー: 合法手がありません")
	ErrUnknownMode  = errors.New("Agentエラー: 不明な探索モードです")
	ErrNilTable     = errors.New("Agentエラー: ValueTableがnilです")
)

type Mode int

const (
	Greedy Mode = iota
	EpsilonGreedy
	Random
)

func (m Mode) String() string {
	switch m {
	case Greedy:
		return "greedy"
	case EpsilonGreedy:
		return "epsilon"
	case Random:
		return "random"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "greedy", "":
		return Greedy, nil
	case "epsilon", "epsilon-greedy":
		return EpsilonGreedy, nil
	case "random":
		return Random, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Exploration says how often an agent replaces the greedy move with a
// uniformly random one. Epsilon is only read in EpsilonGreedy mode.
type Exploration struct {
	Mode    Mode
	Epsilon float64
}

// explore decides whether this turn is a random one.
func (e Exploration) explore(rng *rand.Rand) bool {
	switch e.Mode {
	case Random:
		return true
	case EpsilonGreedy:
		return rng.Float64() < e.Epsilon
	}
	return false
}

// Agent plays one side from a ValueTable it shares with other agents and
// keeps that table up to date with TD(0) backups of its own states.
//
// Agentは共有のValueTableを使って一方の手番を打ち、自分の状態の価値をTD(0)で更新します。
type Agent struct {
	Mark        ttt.Mark
	Table       *ValueTable
	Exploration Exploration
	Tolerance   float64

	rng     *rand.Rand
	last    ttt.Key
	hasLast bool
}

func NewAgent(mark ttt.Mark, table *ValueTable, exploration Exploration, rng *rand.Rand) (*Agent, error) {
	if mark != ttt.Cross && mark != ttt.Nought {
		return nil, fmt.Errorf("Agentエラー: mark %q では打てません", byte(mark))
	}
	if table == nil {
		return nil, ErrNilTable
	}
	switch exploration.Mode {
	case Greedy, EpsilonGreedy, Random:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, exploration.Mode)
	}
	if rng == nil {
		rng = randx.NewPCGFromGlobalSeed()
	}
	return &Agent{
		Mark:        mark,
		Table:       table,
		Exploration: exploration,
		Tolerance:   DefaultTolerance,
		rng:         rng,
	}, nil
}

// LastState returns the canonical key of the state this agent last left
// behind, if there is one.
func (a *Agent) LastState() (ttt.Key, bool) {
	return a.last, a.hasLast
}

// Begin starts a new game on board for the side that moves first. The
// opening state becomes the first state this agent backs up, and nothing
// from the previous game is carried over.
//
// Beginは先手として新しいゲームを開始します。前のゲームの状態は引き継がれません。
func (a *Agent) Begin(board ttt.Board) {
	a.remember(board)
}

// Reset starts a new game for the side that moves second. There is no own
// state to back up until this agent has moved.
//
// Resetは後手として新しいゲームを開始します。
func (a *Agent) Reset() {
	a.last = ""
	a.hasLast = false
}

func (a *Agent) remember(board ttt.Board) {
	a.last = board.CanonicalKey(a.Mark)
	a.hasLast = true
}

// Move picks a move, applies it to board and returns its position.
// Greedy turns back up the previous own state towards the best reward
// reachable now, before the board changes. Random turns skip the backup.
//
// Moveは着手を選んで盤面に適用し、その位置を返します。
func (a *Agent) Move(board *ttt.Board) (int, error) {
	free := board.LegalMoves()
	if len(free) == 0 {
		return 0, fmt.Errorf("%w: mark=%q", ErrNoLegalMoves, byte(a.Mark))
	}

	if a.Exploration.explore(a.rng) {
		pos, err := randx.Choice(free, a.rng)
		if err != nil {
			return 0, err
		}
		board.Set(pos, a.Mark)
		a.remember(*board)
		return pos, nil
	}

	rewards := a.Rewards(*board, free)
	maxReward := floats.Max(rewards)

	best := make([]int, 0, len(free))
	for i, r := range rewards {
		if r == maxReward || maxReward-r < a.Tolerance {
			best = append(best, free[i])
		}
	}

	if a.hasLast {
		a.Table.Correct(a.last, maxReward)
	}

	pos, err := randx.Choice(best, a.rng)
	if err != nil {
		return 0, err
	}
	board.Set(pos, a.Mark)
	a.remember(*board)
	return pos, nil
}

// Rewards evaluates each position by the reward of the state it leads to,
// seen from the agent's side. board is a copy, so the caller's board is untouched.
func (a *Agent) Rewards(board ttt.Board, positions []int) []float64 {
	rewards := make([]float64, len(positions))
	for i, pos := range positions {
		next := board
		next.Set(pos, a.Mark)
		rewards[i] = a.Table.Reward(next.CanonicalKey(a.Mark))
	}
	return rewards
}

func (a *Agent) Win() {
	a.terminal(WinValue)
}

func (a *Agent) Loss() {
	a.terminal(LossValue)
}

func (a *Agent) Draw() {
	a.terminal(DrawValue)
}

func (a *Agent) terminal(target float64) {
	if !a.hasLast {
		return
	}
	a.Table.Correct(a.last, target)
}
