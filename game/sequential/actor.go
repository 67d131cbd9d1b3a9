package sequential

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/sw965/omw/mathx/randx"
)

var (
	ErrPolicySizeMismatch     = errors.New("Policyエラー: legalMoves と同じ要素数である必要があります")
	ErrPolicyMissingLegalMove = errors.New("Policyエラー: 全ての合法手を含む必要があります")
	ErrPolicyBadValue         = errors.New("Policyエラー: 値が不正です（負数/NaN/Inf）")
	ErrPolicyZeroSum          = errors.New("Policyエラー: 合計値が0です")
	ErrEmptyPolicy            = errors.New("Policyエラー: 要素数が0です")

	ErrNilActorFunc = errors.New("Actorエラー: フィールドの関数がnilです")
)

// Policy holds a non-negative score per legal move. Select functions decide
// how the scores are turned into a move.
type Policy[M comparable] map[M]float32

// ValidateForLegalMoves checks that the policy covers exactly the legal moves
// with finite, non-negative values. If legalMoves is unique, a policy that
// passes only has legal moves as keys.
func (p Policy[M]) ValidateForLegalMoves(legalMoves []M) error {
	if len(legalMoves) == 0 {
		return ErrEmptyLegalMoves
	}
	if len(p) != len(legalMoves) {
		return fmt.Errorf("%w: policy=%d legalMoves=%d", ErrPolicySizeMismatch, len(p), len(legalMoves))
	}

	for i, m := range legalMoves {
		v, ok := p[m]
		if !ok {
			return fmt.Errorf("%w: idx=%d move=%v", ErrPolicyMissingLegalMove, i, m)
		}
		if v < 0 || math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("%w: idx=%d move=%v value=%v", ErrPolicyBadValue, i, m, v)
		}
	}
	return nil
}

type PolicyFunc[S any, M comparable] func(S, []M) (Policy[M], error)

func UniformPolicyFunc[S any, M comparable](state S, legalMoves []M) (Policy[M], error) {
	n := len(legalMoves)
	if n == 0 {
		return nil, ErrEmptyLegalMoves
	}

	p := 1.0 / float32(n)
	policy := Policy[M]{}
	for _, m := range legalMoves {
		policy[m] = p
	}
	return policy, nil
}

type SelectFunc[M, A comparable] func(Policy[M], A, *rand.Rand) (M, error)

// NearMaxSelectFunc returns a SelectFunc that treats every move whose score
// is less than tolerance below the maximum as tied and picks uniformly among
// them. With tolerance 0 only the maximum is picked.
func NearMaxSelectFunc[M, A comparable](tolerance float32) SelectFunc[M, A] {
	return func(policy Policy[M], agent A, rng *rand.Rand) (M, error) {
		var zero M
		if len(policy) == 0 {
			return zero, ErrEmptyPolicy
		}

		max := math32.Inf(-1)
		for _, v := range policy {
			if v > max {
				max = v
			}
		}

		moves := make([]M, 0, len(policy))
		for m, v := range policy {
			if v == max || math32.Abs(max-v) < tolerance {
				moves = append(moves, m)
			}
		}
		return randx.Choice(moves, rng)
	}
}

func WeightedRandomSelectFunc[M, A comparable](policy Policy[M], agent A, rng *rand.Rand) (M, error) {
	var zero M
	n := len(policy)
	if n == 0 {
		return zero, ErrEmptyPolicy
	}

	moves := make([]M, 0, n)
	ws := make([]float32, 0, n)
	var sum float32
	for m, p := range policy {
		moves = append(moves, m)
		ws = append(ws, p)
		sum += p
	}
	if sum == 0 {
		return zero, ErrPolicyZeroSum
	}

	idx, err := randx.IntByWeights(ws, rng)
	if err != nil {
		return zero, err
	}
	return moves[idx], nil
}

type Actor[S any, M, A comparable] struct {
	Name       string
	PolicyFunc PolicyFunc[S, M]
	SelectFunc SelectFunc[M, A]
}

func NewRandomActor[S any, M, A comparable](name string) Actor[S, M, A] {
	return Actor[S, M, A]{
		Name:       name,
		PolicyFunc: UniformPolicyFunc[S, M],
		SelectFunc: WeightedRandomSelectFunc[M, A],
	}
}

func (a Actor[S, M, A]) Validate() error {
	if a.PolicyFunc == nil {
		return fmt.Errorf("%w: PolicyFunc", ErrNilActorFunc)
	}
	if a.SelectFunc == nil {
		return fmt.Errorf("%w: SelectFunc", ErrNilActorFunc)
	}
	return nil
}
