package td

import (
	"github.com/sw965/tdttt/game/sequential"
	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
)

type Actor = sequential.Actor[ttt.State, ttt.Move, ttt.Mark]

// Actor returns a read-only greedy actor for the sequential engine. Each move
// is scored by the reward of the state it leads to, from the mover's side,
// and near-ties within tolerance are broken uniformly. The actor never
// corrects the table, so it can be used by many playout workers at once.
//
// Actorは学習を行わない貪欲なActorを返します。複数のワーカーから同時に使えます。
func (t *ValueTable) Actor(name string, tolerance float32) Actor {
	policyFunc := func(state ttt.State, legalMoves []ttt.Move) (sequential.Policy[ttt.Move], error) {
		if len(legalMoves) == 0 {
			return nil, sequential.ErrEmptyLegalMoves
		}
		policy := sequential.Policy[ttt.Move]{}
		for _, m := range legalMoves {
			next := state.Board
			next.Set(m.Position, m.Mark)
			policy[m] = float32(t.Reward(next.CanonicalKey(m.Mark)))
		}
		return policy, nil
	}

	return Actor{
		Name:       name,
		PolicyFunc: policyFunc,
		SelectFunc: sequential.NearMaxSelectFunc[ttt.Move, ttt.Mark](tolerance),
	}
}
