// Package selfplay runs training games between two td agents and tallies
// the outcomes.
package selfplay

import (
	"errors"
	"fmt"
	"log/slog"

	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
	"github.com/sw965/tdttt/td"
)

var (
	ErrNilAgent = errors.New("selfplay: both agents are required")
	ErrSameMark = errors.New("selfplay: agents must play different marks")
)

type Outcome int

const (
	Draw Outcome = iota
	CrossWin
	NoughtWin
)

func (o Outcome) String() string {
	switch o {
	case CrossWin:
		return "x"
	case NoughtWin:
		return "o"
	}
	return "draw"
}

type Stats struct {
	CrossWins  int
	NoughtWins int
	Draws      int
}

func (s Stats) Games() int {
	return s.CrossWins + s.NoughtWins + s.Draws
}

func (s *Stats) Add(o Outcome) {
	switch o {
	case CrossWin:
		s.CrossWins++
	case NoughtWin:
		s.NoughtWins++
	default:
		s.Draws++
	}
}

// Game is the record of one finished game.
type Game struct {
	Outcome Outcome
	Final   ttt.Board
	Moves   []int
}

type Result struct {
	Stats
	// History[i] is the cumulative Stats after game i+1.
	History []Stats
	// Lengths[i] is the number of half-turns game i+1 took.
	Lengths []float64
	// Last is the final game of the run.
	Last Game
}

// Trainer plays Cross against Nought on a fresh board per game. Both agents
// are usually built on the same ValueTable.
type Trainer struct {
	Cross  *td.Agent
	Nought *td.Agent
	// TablePath is where the table of Cross is saved once the run ends. Empty disables saving.
	TablePath string
	Logger    *slog.Logger
	// OnGame, if set, is called after each game with its 1-based number.
	OnGame func(n int, g Game)
}

func (t *Trainer) validate() error {
	if t.Cross == nil || t.Nought == nil {
		return ErrNilAgent
	}
	if t.Cross.Mark == t.Nought.Mark {
		return fmt.Errorf("%w: both are %q", ErrSameMark, byte(t.Cross.Mark))
	}
	return nil
}

func (t *Trainer) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

// Play runs one game to its end. Cross moves first. After every half-turn
// the mover is checked for a win before the board is checked for a draw.
func (t *Trainer) Play() (Game, error) {
	if err := t.validate(); err != nil {
		return Game{}, err
	}

	first, second := t.Cross, t.Nought
	if first.Mark != ttt.Cross {
		first, second = second, first
	}

	board := ttt.NewBoard()
	first.Begin(board)
	second.Reset()

	moves := make([]int, 0, ttt.Cells)
	mover, waiter := first, second
	for {
		pos, err := mover.Move(&board)
		if err != nil {
			return Game{}, fmt.Errorf("selfplay: move %d by %q: %w", len(moves)+1, byte(mover.Mark), err)
		}
		moves = append(moves, pos)

		if board.IsWin(mover.Mark) {
			mover.Win()
			waiter.Loss()
			outcome := CrossWin
			if mover.Mark == ttt.Nought {
				outcome = NoughtWin
			}
			return Game{Outcome: outcome, Final: board, Moves: moves}, nil
		}

		if board.IsDraw() {
			mover.Draw()
			waiter.Draw()
			return Game{Outcome: Draw, Final: board, Moves: moves}, nil
		}
		mover, waiter = waiter, mover
	}
}

// Run plays games games (at least one), then saves the table once.
// Any error stops the whole run.
func (t *Trainer) Run(games int) (Result, error) {
	if err := t.validate(); err != nil {
		return Result{}, err
	}
	if games < 1 {
		games = 1
	}

	log := t.logger()
	res := Result{
		History: make([]Stats, 0, games),
		Lengths: make([]float64, 0, games),
	}

	for i := 1; i <= games; i++ {
		g, err := t.Play()
		if err != nil {
			return res, fmt.Errorf("game %d: %w", i, err)
		}
		res.Add(g.Outcome)
		res.History = append(res.History, res.Stats)
		res.Lengths = append(res.Lengths, float64(len(g.Moves)))
		res.Last = g

		log.Debug("game finished", "game", i, "outcome", g.Outcome.String(), "moves", len(g.Moves))
		if t.OnGame != nil {
			t.OnGame(i, g)
		}
	}

	log.Info("training finished",
		"games", games,
		"x_wins", res.CrossWins,
		"o_wins", res.NoughtWins,
		"draws", res.Draws,
		"table_size", t.Cross.Table.Len(),
	)

	if t.TablePath != "" {
		if err := t.Cross.Table.Save(t.TablePath); err != nil {
			return res, fmt.Errorf("selfplay: saving table: %w", err)
		}
		log.Info("table saved", "path", t.TablePath)
	}
	return res, nil
}
