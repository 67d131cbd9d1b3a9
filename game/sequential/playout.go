package sequential

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sw965/omw/parallel"
	"github.com/sw965/omw/slicesx"
)

// Playouts plays every initial state to the end with actor, spreading the
// games over len(rngs) workers. Each worker owns one generator.
// PolicyFunc and SelectFunc must therefore be safe for concurrent use.
//
// Playoutsは各初期状態から終局まで actor でプレイします。ワーカー数は len(rngs) です。
func (e Engine[S, M, A]) Playouts(inits []S, actor Actor[S, M, A], rngs []*rand.Rand) ([]S, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := actor.Validate(); err != nil {
		return nil, err
	}

	if len(rngs) == 0 {
		return nil, fmt.Errorf("%w: rngs", ErrEmptySlice)
	}

	n := len(inits)
	p := len(rngs)
	finals := make([]S, n)

	err := parallel.For(n, p, func(workerId, idx int) error {
		rng := rngs[workerId]
		state := inits[idx]
		for {
			isEnd, err := e.IsEnd(state)
			if err != nil {
				return err
			}

			if isEnd {
				break
			}

			legalMoves := e.Logic.LegalMovesFunc(state)
			if len(legalMoves) == 0 {
				return fmt.Errorf("%w: state is not terminal", ErrEmptyLegalMoves)
			}

			policy, err := actor.PolicyFunc(state, legalMoves)
			if err != nil {
				return err
			}

			if err := policy.ValidateForLegalMoves(legalMoves); err != nil {
				return err
			}

			agent := e.Logic.CurrentAgentFunc(state)
			move, err := actor.SelectFunc(policy, agent, rng)
			if err != nil {
				return err
			}

			state, err = e.Logic.MoveFunc(state, move)
			if err != nil {
				return err
			}
		}
		finals[idx] = state
		return nil
	})
	return finals, err
}

type CrossPlayoutResult[S any, A comparable] struct {
	ActorNameByAgent map[A]string
	Finals           []S
}

// CrossPlayouts seats the actors in every permutation over e.Agents, plays
// all inits for each seating and sums the result scores per actor name.
//
// CrossPlayoutsはアクターを全ての並び順で各エージェントに割り当ててプレイし、
// アクター名ごとにスコアを合計します。
func (e Engine[S, M, A]) CrossPlayouts(inits []S, actors []Actor[S, M, A], rngs []*rand.Rand) ([]CrossPlayoutResult[S, A], map[string]float32, error) {
	agentsN := len(e.Agents)
	if len(actors) < agentsN {
		return nil, nil, fmt.Errorf("insufficient actors: expected at least %d, got %d", agentsN, len(actors))
	}

	perms := slices.Collect(slicesx.Permutations(actors, agentsN))
	results := make([]CrossPlayoutResult[S, A], 0, len(perms))
	scoreByActorName := map[string]float32{}

	for _, perm := range perms {
		actorNameByAgent := map[A]string{}
		policyFuncByAgent := map[A]PolicyFunc[S, M]{}
		selectFuncByAgent := map[A]SelectFunc[M, A]{}

		for i, agent := range e.Agents {
			actor := perm[i]
			if err := actor.Validate(); err != nil {
				return nil, nil, err
			}
			actorNameByAgent[agent] = actor.Name
			policyFuncByAgent[agent] = actor.PolicyFunc
			selectFuncByAgent[agent] = actor.SelectFunc
		}

		seated := Actor[S, M, A]{
			PolicyFunc: func(state S, legalMoves []M) (Policy[M], error) {
				agent := e.Logic.CurrentAgentFunc(state)
				return policyFuncByAgent[agent](state, legalMoves)
			},
			SelectFunc: func(p Policy[M], agent A, rng *rand.Rand) (M, error) {
				return selectFuncByAgent[agent](p, agent, rng)
			},
		}

		finals, err := e.Playouts(inits, seated, rngs)
		if err != nil {
			return nil, nil, err
		}

		for _, final := range finals {
			scores, err := e.EvaluateResultScoreByAgent(final)
			if err != nil {
				return nil, nil, err
			}
			for agent, score := range scores {
				scoreByActorName[actorNameByAgent[agent]] += score
			}
		}

		results = append(results, CrossPlayoutResult[S, A]{
			ActorNameByAgent: actorNameByAgent,
			Finals:           finals,
		})
	}
	return results, scoreByActorName, nil
}
